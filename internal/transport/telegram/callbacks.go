package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleCallback dispatches taps on the alert action keyboard. Callback data
// is "msg_<action>_<args...>" with underscore-separated numeric arguments.
func (h *Handler) handleCallback(ctx context.Context, b *bot.Bot, q *models.CallbackQuery) {
	if !h.isOperator(ctx, q.From.ID) {
		h.answerCallback(ctx, b, q.ID, "❌ Unauthorized")
		return
	}

	chatID := q.From.ID
	if q.Message.Message != nil {
		chatID = q.Message.Message.Chat.ID
	}

	switch {
	case strings.HasPrefix(q.Data, "msg_history_"):
		h.callbackHistory(ctx, b, q, chatID)
	case strings.HasPrefix(q.Data, "msg_delete_"):
		h.callbackDelete(ctx, b, q)
	case strings.HasPrefix(q.Data, "msg_block_"):
		h.callbackBlock(ctx, b, q)
	case strings.HasPrefix(q.Data, "msg_userinfo_"):
		h.callbackUserInfo(ctx, b, q, chatID)
	default:
		h.answerCallback(ctx, b, q.ID, "Unknown action")
	}
}

func (h *Handler) callbackHistory(ctx context.Context, b *bot.Bot, q *models.CallbackQuery, chatID int64) {
	userID, err := strconv.ParseInt(strings.TrimPrefix(q.Data, "msg_history_"), 10, 64)
	if err != nil {
		h.answerCallback(ctx, b, q.ID, "Bad callback data")
		return
	}

	messages, err := h.store.MessagesBySender(ctx, userID, 10)
	if err != nil {
		slog.Error("Failed to load sender history", "user_id", userID, "error", err)
		h.answerCallback(ctx, b, q.ID, "❌ Failed to load history")
		return
	}
	if len(messages) == 0 {
		h.answerCallback(ctx, b, q.ID, "No matched messages from this sender")
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("📜 Last %d matched messages from %d:\n\n", len(messages), userID))
	for _, m := range messages {
		text.WriteString(fmt.Sprintf("• [%s] %s\n  %s\n\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.MatchedKeyword, m.Content))
	}

	h.answerCallback(ctx, b, q.ID, "")
	h.reply(ctx, b, chatID, text.String())
}

func (h *Handler) callbackDelete(ctx context.Context, b *bot.Bot, q *models.CallbackQuery) {
	parts := strings.Split(strings.TrimPrefix(q.Data, "msg_delete_"), "_")
	if len(parts) != 2 {
		h.answerCallback(ctx, b, q.ID, "Bad callback data")
		return
	}
	messageID, err1 := strconv.ParseInt(parts[0], 10, 64)
	chatID, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		h.answerCallback(ctx, b, q.ID, "Bad callback data")
		return
	}

	// Deleting in the source group needs the bot to be an admin there. The
	// stored copy is removed either way.
	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: int(messageID),
	}); err != nil {
		slog.Warn("Failed to delete message in source chat", "chat_id", chatID, "message_id", messageID, "error", err)
		h.answerCallback(ctx, b, q.ID, "⚠️ Could not delete in the group, removed from records only")
	} else {
		h.answerCallback(ctx, b, q.ID, "🗑️ Message deleted")
	}

	if err := h.store.DeleteMessage(ctx, messageID, chatID); err != nil {
		slog.Error("Failed to delete stored message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}

func (h *Handler) callbackBlock(ctx context.Context, b *bot.Bot, q *models.CallbackQuery) {
	userID, err := strconv.ParseInt(strings.TrimPrefix(q.Data, "msg_block_"), 10, 64)
	if err != nil {
		h.answerCallback(ctx, b, q.ID, "Bad callback data")
		return
	}

	if err := h.store.BlockSender(ctx, userID, "", "blocked from alert", q.From.ID); err != nil {
		slog.Error("Failed to block sender from alert", "user_id", userID, "error", err)
		h.answerCallback(ctx, b, q.ID, "❌ Failed to block sender")
		return
	}
	h.answerCallback(ctx, b, q.ID, fmt.Sprintf("🚫 Sender %d blocked", userID))
}

func (h *Handler) callbackUserInfo(ctx context.Context, b *bot.Bot, q *models.CallbackQuery, chatID int64) {
	userID, err := strconv.ParseInt(strings.TrimPrefix(q.Data, "msg_userinfo_"), 10, 64)
	if err != nil {
		h.answerCallback(ctx, b, q.ID, "Bad callback data")
		return
	}

	messages, err := h.store.MessagesBySender(ctx, userID, 1)
	if err != nil {
		slog.Error("Failed to load sender info", "user_id", userID, "error", err)
		h.answerCallback(ctx, b, q.ID, "❌ Failed to load sender info")
		return
	}

	blocked, err := h.store.IsSenderBlocked(ctx, userID)
	if err != nil {
		slog.Error("Failed to check blocked state", "user_id", userID, "error", err)
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("👤 Sender %d\n", userID))
	if len(messages) > 0 && messages[0].Username != "" {
		text.WriteString("Username: @" + messages[0].Username + "\n")
	}
	if blocked {
		text.WriteString("Status: 🚫 blocked\n")
	} else {
		text.WriteString("Status: active\n")
	}
	text.WriteString(fmt.Sprintf("Profile: tg://user?id=%d", userID))

	h.answerCallback(ctx, b, q.ID, "")
	h.reply(ctx, b, chatID, text.String())
}

func (h *Handler) answerCallback(ctx context.Context, b *bot.Bot, id, text string) {
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: id,
		Text:            text,
	}); err != nil {
		slog.Error("Failed to answer callback query", "error", err)
	}
}
