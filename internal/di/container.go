package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/samber/do/v2"
	"github.com/samber/oops"

	feedService "github.com/telewatch/telewatch/internal/modules/feed/service"
	monitorService "github.com/telewatch/telewatch/internal/modules/monitor/service"
	notifyService "github.com/telewatch/telewatch/internal/modules/notify/service"
	rulesRepo "github.com/telewatch/telewatch/internal/modules/rules/repository"
	sessionService "github.com/telewatch/telewatch/internal/modules/session/service"
	"github.com/telewatch/telewatch/internal/shared/config"
	httpServer "github.com/telewatch/telewatch/internal/transport/http"
	listenerTransport "github.com/telewatch/telewatch/internal/transport/listener"
	telegramHandler "github.com/telewatch/telewatch/internal/transport/telegram"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Rule Store
	do.Provide(injector, func(i do.Injector) (rulesRepo.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store, err := rulesRepo.NewSQLiteStore(cfg.DatabasePath)
		if err != nil {
			return nil, oops.With("database_path", cfg.DatabasePath, "context", "failed to initialize rule store").Wrap(err)
		}
		return store, nil
	})

	// Register Notifier. The bot is attached later because the bot itself
	// depends on the handler chain.
	do.Provide(injector, func(i do.Injector) (*notifyService.Notifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store := do.MustInvoke[rulesRepo.Store](i)
		return notifyService.NewNotifier(cfg, store), nil
	})

	// Register Classification Engine
	do.Provide(injector, func(i do.Injector) (*monitorService.Engine, error) {
		store := do.MustInvoke[rulesRepo.Store](i)
		notifier := do.MustInvoke[*notifyService.Notifier](i)
		return monitorService.NewEngine(store, notifier), nil
	})

	// Register Listener Transport
	do.Provide(injector, func(i do.Injector) (sessionService.Transport, error) {
		return listenerTransport.NewUnconfiguredTransport(), nil
	})

	// Register Session Manager
	do.Provide(injector, func(i do.Injector) (*sessionService.Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store := do.MustInvoke[rulesRepo.Store](i)
		transport := do.MustInvoke[sessionService.Transport](i)
		return sessionService.NewManager(cfg, store, transport), nil
	})

	// Register Listener Adapter
	do.Provide(injector, func(i do.Injector) (*listenerTransport.Adapter, error) {
		transport := do.MustInvoke[sessionService.Transport](i)
		engine := do.MustInvoke[*monitorService.Engine](i)
		return listenerTransport.NewAdapter(transport, engine), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		store := do.MustInvoke[rulesRepo.Store](i)
		return feedService.New(store), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store := do.MustInvoke[rulesRepo.Store](i)
		engine := do.MustInvoke[*monitorService.Engine](i)
		session := do.MustInvoke[*sessionService.Manager](i)
		return telegramHandler.New(cfg, store, engine, session), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feed := do.MustInvoke[*feedService.Service](i)
		store := do.MustInvoke[rulesRepo.Store](i)
		session := do.MustInvoke[*sessionService.Manager](i)
		server := httpServer.New(cfg, feed, store, session)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramHandler.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
			bot.WithAllowedUpdates(bot.AllowedUpdates{"message", "my_chat_member", "callback_query"}),
		}
		if cfg.TelegramAPIURL != "" {
			opts = append(opts, bot.WithServerURL(cfg.TelegramAPIURL))
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		handler.RegisterCommands(b)

		// Alerts go out through the same bot.
		notifier := do.MustInvoke[*notifyService.Notifier](i)
		notifier.SetSender(b)

		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Error shutting down HTTP server", "error", err)
		}
	}

	if session, err := do.Invoke[*sessionService.Manager](injector); err == nil && session != nil {
		if err := session.Shutdown(ctx); err != nil {
			slog.Error("Error shutting down listener session", "error", err)
		}
	}

	if store, err := do.Invoke[rulesRepo.Store](injector); err == nil && store != nil {
		if err := store.Close(); err != nil {
			slog.Error("Error closing rule store", "error", err)
		}
	}

	return nil
}
