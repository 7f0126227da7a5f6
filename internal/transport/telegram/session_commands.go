package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	sessionDomain "github.com/telewatch/telewatch/internal/modules/session/domain"
)

// The listener session is a real user account; only super admins may drive
// its lifecycle.
func (h *Handler) requireSuperAdmin(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if h.cfg.IsSuperAdmin(update.Message.From.ID) {
		return true
	}
	h.reply(ctx, b, update.Message.Chat.ID, "❌ Only super admins can control the listener session")
	return false
}

func (h *Handler) handleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireSuperAdmin(ctx, b, update) {
		return
	}

	state, err := h.session.RequestLoginCode(ctx)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Login failed: %v", err))
		return
	}
	switch state {
	case sessionDomain.StateAuthorized:
		h.reply(ctx, b, update.Message.Chat.ID, "✅ Session restored, already authorized.\nUse /startlisten to begin listening.")
	case sessionDomain.StateAwaitingCode:
		h.reply(ctx, b, update.Message.Chat.ID, "📲 Login code sent.\nReply with /code <code>")
	default:
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("Session state: %s", state))
	}
}

func (h *Handler) handleCode(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireSuperAdmin(ctx, b, update) {
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /code <code>")
		return
	}

	state, err := h.session.SubmitCode(ctx, parts[1])
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Code rejected: %v", err))
		return
	}
	switch state {
	case sessionDomain.StateAwaitingTwoFactor:
		h.reply(ctx, b, update.Message.Chat.ID, "🔐 Two-factor password required.\nReply with /password <password>")
	case sessionDomain.StateAuthorized:
		h.reply(ctx, b, update.Message.Chat.ID, "✅ Authorized.\nUse /startlisten to begin listening.")
	default:
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("Session state: %s", state))
	}
}

func (h *Handler) handlePassword(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireSuperAdmin(ctx, b, update) {
		return
	}

	parts := strings.SplitN(update.Message.Text, " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /password <password>")
		return
	}

	if _, err := h.session.SubmitTwoFactor(ctx, strings.TrimSpace(parts[1])); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Password rejected: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, "✅ Authorized.\nUse /startlisten to begin listening.")
}

func (h *Handler) handleStartListen(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireSuperAdmin(ctx, b, update) {
		return
	}

	if err := h.session.StartListening(ctx); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to start listener: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, "👂 Listener running")
}

func (h *Handler) handleStopListen(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireSuperAdmin(ctx, b, update) {
		return
	}

	if err := h.session.StopListening(ctx); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to stop listener: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, "⏹️ Listener stopped, session still authorized")
}

func (h *Handler) handleSession(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireSuperAdmin(ctx, b, update) {
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("🛰️ Session state: %s\n", h.session.State()))
	if identity := h.session.CurrentIdentity(); identity != nil {
		text.WriteString(fmt.Sprintf("Account: %s %s", identity.FirstName, identity.LastName))
		if identity.Username != "" {
			text.WriteString(" (@" + identity.Username + ")")
		}
		text.WriteString(fmt.Sprintf("\nID: %d", identity.ID))
	}
	h.reply(ctx, b, update.Message.Chat.ID, text.String())
}

func (h *Handler) handleSync(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireSuperAdmin(ctx, b, update) {
		return
	}

	added, updated, err := h.session.SyncChannels(ctx)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Sync failed: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("🔄 Sync finished: %d added, %d updated", added, updated))
}

func (h *Handler) handleJoin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireSuperAdmin(ctx, b, update) {
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /join <t.me link>")
		return
	}

	result, err := h.session.JoinByInviteLink(ctx, parts[1])
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Join failed: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, joinResultText(result))
}

func joinResultText(result *sessionDomain.JoinResult) string {
	switch result.Outcome {
	case sessionDomain.JoinOutcomeJoined:
		if result.Chat != nil {
			return fmt.Sprintf("✅ Joined %q, now monitoring it", result.Chat.Title)
		}
		return "✅ Joined"
	case sessionDomain.JoinOutcomeAlreadyMember:
		return "ℹ️ Already a member of that chat"
	case sessionDomain.JoinOutcomeInvalidLink:
		return "❌ That link is not a valid Telegram chat link"
	case sessionDomain.JoinOutcomeExpiredLink:
		return "❌ That invite link has expired"
	case sessionDomain.JoinOutcomePrivateNoAccess:
		return "❌ That chat is private and cannot be joined with this link"
	case sessionDomain.JoinOutcomeAdminRequired:
		return "⏳ Join request sent, waiting for an admin to approve it"
	case sessionDomain.JoinOutcomeRateLimited:
		return fmt.Sprintf("⏱️ Rate limited by Telegram, try again in %s", result.RetryAfter)
	default:
		if result.Message != "" {
			return "❌ Join failed: " + result.Message
		}
		return "❌ Join failed"
	}
}

func (h *Handler) handleLeave(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireSuperAdmin(ctx, b, update) {
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /leave <chat_id>")
		return
	}
	chatID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Invalid chat ID")
		return
	}

	if err := h.session.LeaveChannel(ctx, chatID); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to leave chat: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("👋 Left chat %d", chatID))
}
