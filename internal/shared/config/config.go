package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/telewatch/telewatch/internal/shared/errors"
)

//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string

type Config struct {
	TelegramBotToken string  `koanf:"telegram_bot_token"`
	TelegramAPIURL   string  `koanf:"telegram_api_url"`
	SuperAdmins      []int64 `koanf:"super_admins"`
	DatabasePath     string  `koanf:"database_path"`
	HTTPPort         string  `koanf:"http_port"`
	AppEnv           AppEnv  `koanf:"app_env"`

	// Listener (user account) session used for groups the bot cannot join.
	ListenerAPIID     int    `koanf:"listener_api_id"`
	ListenerAPIHash   string `koanf:"listener_api_hash"`
	ListenerPhone     string `koanf:"listener_phone"`
	SessionPath       string `koanf:"session_path"`
	KeepaliveInterval int    `koanf:"keepalive_interval"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	// Use lo.Find to find the first existing config file
	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	// Convert TELEGRAM_BOT_TOKEN -> telegram_bot_token
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("telegram_api_url") {
		k.Set("telegram_api_url", "https://api.telegram.org")
	}
	if !k.Exists("database_path") {
		k.Set("database_path", "./data/bot.db")
	}
	if !k.Exists("session_path") {
		k.Set("session_path", "./data/listener.session")
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("keepalive_interval") {
		k.Set("keepalive_interval", 5)
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// SuperAdmins may arrive as a comma-separated string from env vars
	// or as a slice from config files
	if superAdmins := k.Get("super_admins"); superAdmins != nil {
		switch v := superAdmins.(type) {
		case string:
			cfg.SuperAdmins = ParseAdminIDs(v)
		case []interface{}:
			cfg.SuperAdmins = lo.FilterMap(v, func(item interface{}, _ int) (int64, bool) {
				switch val := item.(type) {
				case int64:
					return val, true
				case int:
					return int64(val), true
				case float64:
					return int64(val), true
				default:
					return 0, false
				}
			})
		}
	}

	if appEnvStr := k.String("app_env"); appEnvStr != "" {
		if env, err := ParseAppEnv(appEnvStr); err == nil {
			cfg.AppEnv = env
		} else {
			cfg.AppEnv = AppEnvProduction
		}
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	// Validate required fields
	if cfg.TelegramBotToken == "" {
		return nil, errors.ErrMissingBotToken
	}
	if len(cfg.SuperAdmins) == 0 {
		return nil, errors.ErrMissingSuperAdmins
	}

	return &cfg, nil
}

// IsSuperAdmin reports whether the user is in the statically configured
// super admin list.
func (c *Config) IsSuperAdmin(userID int64) bool {
	return lo.Contains(c.SuperAdmins, userID)
}

// ParseAdminIDs parses a comma-separated user ID string into []int64
func ParseAdminIDs(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			return id, true
		}
		return 0, false
	})
}
