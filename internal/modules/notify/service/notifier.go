package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	monitorDomain "github.com/telewatch/telewatch/internal/modules/monitor/domain"
	rulesDomain "github.com/telewatch/telewatch/internal/modules/rules/domain"
	rulesRepo "github.com/telewatch/telewatch/internal/modules/rules/repository"
	"github.com/telewatch/telewatch/internal/shared/config"
)

// Sender is the outbound slice of the bot API the notifier needs.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Notifier fans one MatchEvent out to every subscribed admin. Deliveries
// run concurrently and are failure-isolated: one refused chat never stops
// the rest.
type Notifier struct {
	cfg     *config.Config
	store   rulesRepo.Store
	sender  Sender
	limiter *rate.Limiter
}

func NewNotifier(cfg *config.Config, store rulesRepo.Store) *Notifier {
	return &Notifier{
		cfg:   cfg,
		store: store,
		// Bot API allows ~30 messages/second overall; stay under it.
		limiter: rate.NewLimiter(rate.Limit(25), 5),
	}
}

// SetSender sets the delivery transport. The bot is constructed after the
// notifier in the DI container, so it is injected late.
func (n *Notifier) SetSender(sender Sender) {
	n.sender = sender
}

// Publish hands the event to a background delivery pass. It never blocks
// the classification pipeline.
func (n *Notifier) Publish(ctx context.Context, event *monitorDomain.MatchEvent) {
	go n.deliver(context.WithoutCancel(ctx), event)
}

func (n *Notifier) deliver(ctx context.Context, event *monitorDomain.MatchEvent) {
	if n.sender == nil {
		slog.Error("Notifier has no sender configured, dropping event", "keyword", event.Keyword)
		return
	}

	subscribers := n.subscribers(ctx)
	if len(subscribers) == 0 {
		return
	}

	text := n.render(event)
	if history := n.historyFooter(ctx, event); history != "" {
		text += history
	}
	markup := n.actionKeyboard(event)

	var g errgroup.Group
	for _, userID := range subscribers {
		g.Go(func() error {
			enabled, err := n.store.GetNotificationPreference(ctx, userID)
			if err != nil {
				slog.Error("Failed to read notification preference", "user_id", userID, "error", err)
				return nil
			}
			if !enabled {
				return nil
			}

			if err := n.limiter.Wait(ctx); err != nil {
				return nil
			}

			_, err = n.sender.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:             userID,
				Text:               text,
				ParseMode:          models.ParseModeHTML,
				ReplyMarkup:        markup,
				LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: bot.True()},
			})
			if err != nil {
				// Delivery failures are per-recipient: log and drop.
				slog.Error("Failed to deliver notification", "user_id", userID, "keyword", event.Keyword, "error", err)
			}
			return nil
		})
	}
	g.Wait()
}

// subscribers resolves the current recipient set: configured super admins
// union stored admins, deduplicated.
func (n *Notifier) subscribers(ctx context.Context) []int64 {
	ids := append([]int64{}, n.cfg.SuperAdmins...)
	admins, err := n.store.ListAdmins(ctx)
	if err != nil {
		slog.Error("Failed to list admins for fan-out, using super admins only", "error", err)
	} else {
		for _, admin := range admins {
			ids = append(ids, admin.UserID)
		}
	}
	return lo.Uniq(ids)
}

func (n *Notifier) render(event *monitorDomain.MatchEvent) string {
	msg := event.Message

	senderName := sanitize(msg.SenderName)
	if senderName == "" {
		senderName = "Unknown"
	}
	senderDisplay := fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, msg.SenderID, escapeHTML(senderName))
	if msg.SenderUsername != "" {
		senderDisplay = fmt.Sprintf(`<a href="https://t.me/%s">%s</a> (@%s)`,
			msg.SenderUsername, escapeHTML(senderName), msg.SenderUsername)
	}

	chatTitle := sanitize(msg.ChatTitle)
	if chatTitle == "" {
		chatTitle = fmt.Sprintf("%d", msg.ChatID)
	}
	chatDisplay := escapeHTML(chatTitle)
	switch {
	case msg.ChatUsername != "":
		chatDisplay = fmt.Sprintf(`<a href="https://t.me/%s">%s</a>`, msg.ChatUsername, escapeHTML(chatTitle))
	case monitorDomain.IsSupergroupChatID(msg.ChatID):
		chatDisplay = fmt.Sprintf(`<a href="https://t.me/c/%d/%d">%s</a>`,
			monitorDomain.StripSupergroupMarker(msg.ChatID), msg.MessageID, escapeHTML(chatTitle))
	}

	preview := escapeHTML(truncateRunes(sanitize(msg.Text), 200))

	return fmt.Sprintf(`👤 Sender: %s
🔥 Source: %s
📝 Keyword: %s
🕐 Time: %s
━━━━━━━━━━━━━━━━
🔥 Message: %s`,
		senderDisplay,
		chatDisplay,
		escapeHTML(event.Keyword),
		msg.Date.Format("2006-01-02 15:04:05"),
		preview)
}

// historyFooter lists the sender's previous hits when the
// attach_search_history setting is on.
func (n *Notifier) historyFooter(ctx context.Context, event *monitorDomain.MatchEvent) string {
	enabled, err := n.store.GetSystemSetting(ctx, rulesDomain.SettingAttachHistory, "false")
	if err != nil || enabled != "true" {
		return ""
	}

	history, err := n.store.MessagesBySender(ctx, event.Message.SenderID, 3)
	if err != nil {
		slog.Error("Failed to load sender history for alert", "user_id", event.Message.SenderID, "error", err)
		return ""
	}
	if len(history) == 0 {
		return ""
	}

	footer := "\n━━━━━━━━━━━━━━━━\n📜 Recent hits:"
	for _, m := range history {
		footer += fmt.Sprintf("\n• [%s] %s", escapeHTML(m.MatchedKeyword),
			escapeHTML(truncateRunes(sanitize(m.Content), 60)))
	}
	return footer
}

// actionKeyboard attaches recipient-scoped actions keyed by the message,
// chat and sender ids so the command layer can dispatch them.
func (n *Notifier) actionKeyboard(event *monitorDomain.MatchEvent) *models.InlineKeyboardMarkup {
	msg := event.Message

	rows := [][]models.InlineKeyboardButton{
		{
			{Text: "📜 History", CallbackData: fmt.Sprintf("msg_history_%d", msg.SenderID)},
			{Text: "🗑 Delete", CallbackData: fmt.Sprintf("msg_delete_%d_%d", msg.MessageID, msg.ChatID)},
			{Text: "🚫 Block", CallbackData: fmt.Sprintf("msg_block_%d", msg.SenderID)},
		},
	}

	secondRow := []models.InlineKeyboardButton{
		{Text: "👤 Profile", CallbackData: fmt.Sprintf("msg_userinfo_%d", msg.SenderID)},
	}
	if msg.SenderUsername != "" {
		secondRow = append(secondRow, models.InlineKeyboardButton{
			Text: "💬 Chat",
			URL:  fmt.Sprintf("https://t.me/%s", msg.SenderUsername),
		})
	}
	rows = append(rows, secondRow)

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
