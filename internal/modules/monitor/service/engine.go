package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/telewatch/telewatch/internal/modules/monitor/domain"
	rulesDomain "github.com/telewatch/telewatch/internal/modules/rules/domain"
	rulesRepo "github.com/telewatch/telewatch/internal/modules/rules/repository"
)

// Sink receives surviving match events. Publish must not block the
// classification pipeline; the notifier satisfies this by delivering in
// its own goroutine.
type Sink interface {
	Publish(ctx context.Context, event *domain.MatchEvent)
}

// Options captures the two legacy asymmetries between the ingestion
// paths. The bot adapter runs with auto-admit and per-entry match types;
// the listener adapter runs strict with the system-wide mode.
type Options struct {
	ChannelPolicy domain.ChannelPolicy
	// PerEntryMatchTypes makes keyword evaluation honor each keyword's own
	// stored match type (including the legacy startswith) instead of the
	// system-wide keyword_match_mode.
	PerEntryMatchTypes bool
}

// Engine is the classification pipeline: a sequence of early-exit gates
// over one IncomingMessage. Storage failures drop the message with a log
// entry; they never propagate.
type Engine struct {
	store rulesRepo.Store
	sink  Sink
}

func NewEngine(store rulesRepo.Store, sink Sink) *Engine {
	return &Engine{store: store, sink: sink}
}

// Classify runs one message through the pipeline and emits at most one
// MatchEvent. First matching keyword wins; later keywords are not
// evaluated.
func (e *Engine) Classify(ctx context.Context, msg *domain.IncomingMessage, opts Options) {
	log := slog.With("chat_id", msg.ChatID, "message_id", msg.MessageID)

	pushEnabled, err := e.store.GetSystemSetting(ctx, rulesDomain.SettingPushEnabled, "true")
	if err != nil {
		log.Error("Failed to read push setting, dropping message", "error", err)
		return
	}
	if pushEnabled != "true" {
		return
	}

	monitored, err := e.store.IsChannelMonitored(ctx, msg.ChatID)
	if err != nil {
		log.Error("Failed to check monitored group, dropping message", "error", err)
		return
	}
	if !monitored {
		switch opts.ChannelPolicy {
		case domain.ChannelPolicyAutoAdmit:
			if err := e.store.UpsertMonitoredChannel(ctx, msg.ChatID, msg.ChatTitle, msg.ChatUsername); err != nil {
				log.Error("Failed to auto-admit group, dropping message", "error", err)
				return
			}
		default:
			return
		}
	}

	blocked, err := e.store.IsSenderBlocked(ctx, msg.SenderID)
	if err != nil {
		log.Error("Failed to check blocked sender, dropping message", "error", err)
		return
	}
	if blocked {
		return
	}

	if e.boolSetting(ctx, rulesDomain.SettingFilterAdUsers) && looksPromotional(msg) {
		log.Debug("Dropped message from ad-styled sender", "sender_id", msg.SenderID)
		return
	}

	text := strings.ToLower(msg.Text)

	blacklisted, err := e.blacklisted(ctx, text)
	if err != nil {
		log.Error("Failed to evaluate blacklist, dropping message", "error", err)
		return
	}
	if blacklisted {
		log.Debug("Message hit blacklist")
		return
	}

	if err := e.store.IncrementChannelCounters(ctx, msg.ChatID, 1, 0); err != nil {
		log.Error("Failed to increment message counter", "error", err)
	}

	keywords, err := e.store.ActiveKeywords(ctx)
	if err != nil {
		log.Error("Failed to load keywords, dropping message", "error", err)
		return
	}
	if len(keywords) == 0 {
		return
	}

	keywordMode := e.systemMode(ctx, rulesDomain.SettingKeywordMatchMode, rulesDomain.MatchModeFuzzy)

	for _, kw := range keywords {
		var matched bool
		if opts.PerEntryMatchTypes {
			matched = matchesType(text, kw.Text, kw.MatchType)
		} else {
			matched = matchesMode(text, kw.Text, keywordMode)
		}
		if !matched {
			continue
		}

		cooldown := e.cooldownMinutes(ctx)
		if cooldown > 0 {
			allowed, err := e.store.CheckAndRecordPush(ctx, msg.SenderID, msg.ChatID, cooldown)
			if err != nil {
				log.Error("Dedup ledger check failed, dropping message", "error", err)
				return
			}
			if !allowed {
				log.Debug("Notification suppressed by cooldown", "sender_id", msg.SenderID, "cooldown_minutes", cooldown)
				return
			}
		}

		if err := e.store.IncrementKeywordHits(ctx, kw.Text); err != nil {
			log.Error("Failed to increment keyword hits", "keyword", kw.Text, "error", err)
		}
		if err := e.store.IncrementChannelCounters(ctx, msg.ChatID, 0, 1); err != nil {
			log.Error("Failed to increment group hit counter", "error", err)
		}
		if err := e.store.SaveMatchedMessage(ctx, &rulesDomain.MatchedMessage{
			ChatID:         msg.ChatID,
			MessageID:      msg.MessageID,
			UserID:         msg.SenderID,
			Username:       msg.SenderUsername,
			Content:        truncateRunes(msg.Text, 500),
			MatchedKeyword: kw.Text,
		}); err != nil {
			log.Error("Failed to save matched message", "error", err)
		}

		log.Info("Keyword matched", "keyword", kw.Text, "chat_title", msg.ChatTitle)
		e.sink.Publish(ctx, &domain.MatchEvent{Message: *msg, Keyword: kw.Text})
		return
	}
}

func (e *Engine) blacklisted(ctx context.Context, loweredText string) (bool, error) {
	entries, err := e.store.ActiveBlacklistEntries(ctx)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}

	mode := e.systemMode(ctx, rulesDomain.SettingBlacklistMode, rulesDomain.MatchModeExact)
	for _, entry := range entries {
		if matchesMode(loweredText, entry.Text, mode) {
			return true, nil
		}
	}
	return false, nil
}

func (e *Engine) systemMode(ctx context.Context, key string, fallback rulesDomain.MatchMode) rulesDomain.MatchMode {
	raw, err := e.store.GetSystemSetting(ctx, key, string(fallback))
	if err != nil {
		return fallback
	}
	mode, err := rulesDomain.ParseMatchMode(raw)
	if err != nil {
		return fallback
	}
	return mode
}

func (e *Engine) boolSetting(ctx context.Context, key string) bool {
	raw, err := e.store.GetSystemSetting(ctx, key, "false")
	if err != nil {
		return false
	}
	return raw == "true"
}

// looksPromotional flags senders whose display name or username carries a
// link, the usual signature of throwaway ad accounts.
func looksPromotional(msg *domain.IncomingMessage) bool {
	probe := strings.ToLower(msg.SenderName + " " + msg.SenderUsername)
	for _, marker := range []string{"t.me/", "http://", "https://", "www."} {
		if strings.Contains(probe, marker) {
			return true
		}
	}
	return false
}

func (e *Engine) cooldownMinutes(ctx context.Context) int {
	raw, err := e.store.GetSystemSetting(ctx, rulesDomain.SettingNoRepeatDuration, "0")
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 0 {
		return 0
	}
	return minutes
}

// matchesMode applies the system-wide policy. Terms are stored lowercase;
// the text must already be lowered.
func matchesMode(loweredText, term string, mode rulesDomain.MatchMode) bool {
	term = strings.ToLower(term)
	if mode == rulesDomain.MatchModeExact {
		return loweredText == term
	}
	return strings.Contains(loweredText, term)
}

// matchesType applies a keyword's own stored match type (legacy bot-path
// behavior).
func matchesType(loweredText, term string, matchType rulesDomain.MatchType) bool {
	term = strings.ToLower(term)
	switch matchType {
	case rulesDomain.MatchTypeExact:
		return loweredText == term
	case rulesDomain.MatchTypeStartswith:
		return strings.HasPrefix(loweredText, term)
	default:
		return strings.Contains(loweredText, term)
	}
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
