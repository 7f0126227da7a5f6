package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	monitorDomain "github.com/telewatch/telewatch/internal/modules/monitor/domain"
	monitorService "github.com/telewatch/telewatch/internal/modules/monitor/service"
	rulesRepo "github.com/telewatch/telewatch/internal/modules/rules/repository"
	sessionService "github.com/telewatch/telewatch/internal/modules/session/service"
	"github.com/telewatch/telewatch/internal/shared/config"
)

// Handler handles Telegram bot interactions: group traffic feeding the
// classification pipeline, the admin command surface and alert callbacks.
type Handler struct {
	cfg     *config.Config
	store   rulesRepo.Store
	engine  *monitorService.Engine
	session *sessionService.Manager
}

// New creates a new Telegram handler
func New(cfg *config.Config, store rulesRepo.Store, engine *monitorService.Engine, session *sessionService.Manager) *Handler {
	return &Handler{
		cfg:     cfg,
		store:   store,
		engine:  engine,
		session: session,
	}
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/addkw", bot.MatchTypePrefix, h.handleAddKeyword)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/delkw", bot.MatchTypePrefix, h.handleRemoveKeyword)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/togglekw", bot.MatchTypePrefix, h.handleToggleKeyword)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/listkw", bot.MatchTypeExact, h.handleListKeywords)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/addbl", bot.MatchTypePrefix, h.handleAddBlacklist)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/delbl", bot.MatchTypePrefix, h.handleRemoveBlacklist)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/listgroups", bot.MatchTypeExact, h.handleListGroups)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/delgroup", bot.MatchTypePrefix, h.handleRemoveGroup)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/addadmin", bot.MatchTypePrefix, h.handleAddAdmin)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/deladmin", bot.MatchTypePrefix, h.handleRemoveAdmin)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/listadmins", bot.MatchTypeExact, h.handleListAdmins)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/block", bot.MatchTypePrefix, h.handleBlock)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/unblock", bot.MatchTypePrefix, h.handleUnblock)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/settings", bot.MatchTypeExact, h.handleSettings)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/set", bot.MatchTypePrefix, h.handleSetSetting)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/notify", bot.MatchTypePrefix, h.handleNotify)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, h.handleStats)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypeExact, h.handleLogin)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/code", bot.MatchTypePrefix, h.handleCode)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/password", bot.MatchTypePrefix, h.handlePassword)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/startlisten", bot.MatchTypeExact, h.handleStartListen)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/stoplisten", bot.MatchTypeExact, h.handleStopListen)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/session", bot.MatchTypeExact, h.handleSession)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/sync", bot.MatchTypeExact, h.handleSync)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/join", bot.MatchTypePrefix, h.handleJoin)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/leave", bot.MatchTypePrefix, h.handleLeave)
}

// HandleUpdate processes updates that no command handler claimed: group
// traffic, membership changes and alert keyboard callbacks.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, b, update.CallbackQuery)
	case update.MyChatMember != nil:
		h.handleMyChatMember(ctx, b, update.MyChatMember)
	case update.Message != nil:
		h.processGroupMessage(ctx, update.Message)
	}
}

func (h *Handler) processGroupMessage(ctx context.Context, msg *models.Message) {
	if msg.Chat.Type != models.ChatTypeGroup && msg.Chat.Type != models.ChatTypeSupergroup {
		return
	}
	if msg.From == nil || msg.From.IsBot {
		return
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}

	incoming := &monitorDomain.IncomingMessage{
		ChatID:         msg.Chat.ID,
		ChatTitle:      msg.Chat.Title,
		ChatUsername:   msg.Chat.Username,
		MessageID:      int64(msg.ID),
		SenderID:       msg.From.ID,
		SenderUsername: msg.From.Username,
		SenderName:     senderName(msg.From),
		Text:           text,
		Date:           time.Unix(int64(msg.Date), 0),
		SenderRole:     monitorDomain.SenderRoleUnknown,
	}

	// Groups the bot was explicitly added to are admitted on first sight,
	// and each keyword's own match type applies.
	h.engine.Classify(ctx, incoming, monitorService.Options{
		ChannelPolicy:      monitorDomain.ChannelPolicyAutoAdmit,
		PerEntryMatchTypes: true,
	})
}

// handleMyChatMember tracks the bot's own membership: getting added to a
// group admits it into the monitored set, getting removed deactivates it.
func (h *Handler) handleMyChatMember(ctx context.Context, b *bot.Bot, upd *models.ChatMemberUpdated) {
	if upd.Chat.Type != models.ChatTypeGroup && upd.Chat.Type != models.ChatTypeSupergroup {
		return
	}

	switch upd.NewChatMember.Type {
	case models.ChatMemberTypeMember, models.ChatMemberTypeAdministrator:
		if err := h.store.UpsertMonitoredChannel(ctx, upd.Chat.ID, upd.Chat.Title, upd.Chat.Username); err != nil {
			slog.Error("Failed to admit group after being added", "chat_id", upd.Chat.ID, "error", err)
			return
		}
		slog.Info("Added to group", "chat_id", upd.Chat.ID, "title", upd.Chat.Title)
		h.notifySuperAdmins(ctx, b, fmt.Sprintf("✅ Now monitoring %q (%d)", upd.Chat.Title, upd.Chat.ID))
	case models.ChatMemberTypeLeft, models.ChatMemberTypeBanned:
		if err := h.store.RemoveGroup(ctx, upd.Chat.ID); err != nil {
			slog.Error("Failed to deactivate group after removal", "chat_id", upd.Chat.ID, "error", err)
			return
		}
		slog.Info("Removed from group", "chat_id", upd.Chat.ID, "title", upd.Chat.Title)
		h.notifySuperAdmins(ctx, b, fmt.Sprintf("⏸️ Stopped monitoring %q (%d)", upd.Chat.Title, upd.Chat.ID))
	}
}

func (h *Handler) notifySuperAdmins(ctx context.Context, b *bot.Bot, text string) {
	for _, adminID := range h.cfg.SuperAdmins {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: adminID,
			Text:   text,
		}); err != nil {
			slog.Error("Failed to notify super admin", "user_id", adminID, "error", err)
		}
	}
}

// isOperator reports whether the user may use the command surface: super
// admins from config plus admins added at runtime.
func (h *Handler) isOperator(ctx context.Context, userID int64) bool {
	if h.cfg.IsSuperAdmin(userID) {
		return true
	}
	ok, err := h.store.IsAdmin(ctx, userID)
	if err != nil {
		slog.Error("Admin lookup failed", "user_id", userID, "error", err)
		return false
	}
	return ok
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		slog.Error("Failed to send reply", "chat_id", chatID, "error", err)
	}
}

func senderName(u *models.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
