package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	rulesDomain "github.com/telewatch/telewatch/internal/modules/rules/domain"
	sharederrors "github.com/telewatch/telewatch/internal/shared/errors"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ You are not authorized to use this bot.")
		return
	}

	text := `👋 Keyword monitor bot

Keywords:
/addkw <text> [contains|exact|startswith] - Add a keyword
/delkw <text> - Remove a keyword
/togglekw <text> - Enable/disable a keyword
/listkw - List keywords

Blacklist:
/addbl <text> [contains|exact|startswith] - Add a blacklist term
/delbl <text> - Remove a blacklist term

Groups:
/listgroups - List monitored groups
/delgroup <chat_id> - Stop monitoring a group

Admins:
/addadmin <user_id> [username] - Add an admin
/deladmin <user_id> - Remove an admin
/listadmins - List admins

Senders:
/block <user_id> [reason] - Block a sender
/unblock <user_id> - Unblock a sender

Settings:
/settings - Show system settings
/set <key> <value> - Change a system setting
/notify on|off - Toggle your own alerts
/stats - Show statistics

Listener session:
/login /code <code> /password <pw> - Sign in the listener account
/startlisten /stoplisten /session - Control the listener
/sync - Sync the listener's chats into the monitored set
/join <link> - Join a chat by t.me link
/leave <chat_id> - Leave a chat`

	h.reply(ctx, b, update.Message.Chat.ID, text)
}

// parseTermArgs splits "/cmd <text...> [match_type]" where the last word is
// an optional match type. Keywords may contain spaces.
func parseTermArgs(text string) (term string, matchType rulesDomain.MatchType) {
	matchType = rulesDomain.MatchTypeContains
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return "", matchType
	}
	args := parts[1:]
	if len(args) > 1 {
		if mt, err := rulesDomain.ParseMatchType(args[len(args)-1]); err == nil {
			return strings.Join(args[:len(args)-1], " "), mt
		}
	}
	return strings.Join(args, " "), matchType
}

func (h *Handler) handleAddKeyword(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	term, matchType := parseTermArgs(update.Message.Text)
	if term == "" {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /addkw <text> [contains|exact|startswith]")
		return
	}

	err := h.store.AddKeyword(ctx, term, matchType, update.Message.From.ID)
	if errors.Is(err, sharederrors.ErrKeywordExists) {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("⚠️ Keyword %q already exists", term))
		return
	}
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to add keyword: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Keyword %q added (%s)", term, matchType))
}

func (h *Handler) handleRemoveKeyword(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	term, _ := parseTermArgs(update.Message.Text)
	if term == "" {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /delkw <text>")
		return
	}

	err := h.store.RemoveKeyword(ctx, term)
	if errors.Is(err, sharederrors.ErrKeywordNotFound) {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("⚠️ Keyword %q not found", term))
		return
	}
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to remove keyword: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Keyword %q removed", term))
}

func (h *Handler) handleToggleKeyword(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	term, _ := parseTermArgs(update.Message.Text)
	if term == "" {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /togglekw <text>")
		return
	}

	active, err := h.store.ToggleKeyword(ctx, term)
	if errors.Is(err, sharederrors.ErrKeywordNotFound) {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("⚠️ Keyword %q not found", term))
		return
	}
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to toggle keyword: %v", err))
		return
	}
	state := "disabled"
	if active {
		state = "enabled"
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Keyword %q %s", term, state))
}

func (h *Handler) handleListKeywords(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	keywords, err := h.store.Keywords(ctx, false)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to list keywords: %v", err))
		return
	}
	if len(keywords) == 0 {
		h.reply(ctx, b, update.Message.Chat.ID, "📭 No keywords yet.\nUse /addkw to add one.")
		return
	}

	var text strings.Builder
	text.WriteString("📋 Keywords:\n\n")
	for i, kw := range keywords {
		status := "✅"
		if !kw.IsActive {
			status = "⏸️"
		}
		text.WriteString(fmt.Sprintf("%s %d. %s (%s, hits: %d)\n", status, i+1, kw.Text, kw.MatchType, kw.HitCount))
	}
	h.reply(ctx, b, update.Message.Chat.ID, text.String())
}

func (h *Handler) handleAddBlacklist(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	term, matchType := parseTermArgs(update.Message.Text)
	if term == "" {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /addbl <text> [contains|exact|startswith]")
		return
	}

	if err := h.store.AddBlacklistEntry(ctx, term, matchType, update.Message.From.ID); err != nil {
		if errors.Is(err, sharederrors.ErrKeywordExists) {
			h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("⚠️ Blacklist term %q already exists", term))
			return
		}
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to add blacklist term: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Blacklist term %q added", term))
}

func (h *Handler) handleRemoveBlacklist(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	term, _ := parseTermArgs(update.Message.Text)
	if term == "" {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /delbl <text>")
		return
	}

	if err := h.store.RemoveBlacklistEntry(ctx, term); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to remove blacklist term: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Blacklist term %q removed", term))
}

func (h *Handler) handleListGroups(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	groups, err := h.store.Groups(ctx, false)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to list groups: %v", err))
		return
	}
	if len(groups) == 0 {
		h.reply(ctx, b, update.Message.Chat.ID, "📭 No groups monitored yet.\nAdd the bot to a group or /sync the listener.")
		return
	}

	var text strings.Builder
	text.WriteString("📋 Monitored groups:\n\n")
	for i, g := range groups {
		status := "✅"
		if !g.IsActive {
			status = "⏸️"
		}
		text.WriteString(fmt.Sprintf("%s %d. %s\n   ID: %d\n   Messages: %d, Hits: %d\n\n",
			status, i+1, g.Title, g.ChatID, g.MessageCount, g.HitCount))
	}
	h.reply(ctx, b, update.Message.Chat.ID, text.String())
}

func (h *Handler) handleRemoveGroup(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /delgroup <chat_id>")
		return
	}
	chatID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Invalid chat ID")
		return
	}

	if err := h.store.RemoveGroup(ctx, chatID); err != nil {
		if errors.Is(err, sharederrors.ErrGroupNotFound) {
			h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("⚠️ Group %d not found", chatID))
			return
		}
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to remove group: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Group %d removed from monitoring", chatID))
}

func (h *Handler) handleAddAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.cfg.IsSuperAdmin(update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Only super admins can manage admins")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /addadmin <user_id> [username]")
		return
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Invalid user ID")
		return
	}
	username := ""
	if len(parts) > 2 {
		username = strings.TrimPrefix(parts[2], "@")
	}

	if err := h.store.AddAdmin(ctx, userID, username, "admin", update.Message.From.ID); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to add admin: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Admin %d added", userID))
}

func (h *Handler) handleRemoveAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.cfg.IsSuperAdmin(update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Only super admins can manage admins")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /deladmin <user_id>")
		return
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Invalid user ID")
		return
	}

	if err := h.store.RemoveAdmin(ctx, userID); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to remove admin: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Admin %d removed", userID))
}

func (h *Handler) handleListAdmins(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	admins, err := h.store.ListAdmins(ctx)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to list admins: %v", err))
		return
	}

	var text strings.Builder
	text.WriteString("👥 Admins:\n\n")
	for _, id := range h.cfg.SuperAdmins {
		text.WriteString(fmt.Sprintf("⭐ %d (super admin)\n", id))
	}
	for _, a := range admins {
		if a.Username != "" {
			text.WriteString(fmt.Sprintf("• %d (@%s)\n", a.UserID, a.Username))
		} else {
			text.WriteString(fmt.Sprintf("• %d\n", a.UserID))
		}
	}
	h.reply(ctx, b, update.Message.Chat.ID, text.String())
}

func (h *Handler) handleBlock(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /block <user_id> [reason]")
		return
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Invalid user ID")
		return
	}
	reason := strings.Join(parts[2:], " ")

	if err := h.store.BlockSender(ctx, userID, "", reason, update.Message.From.ID); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to block sender: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("🚫 Sender %d blocked", userID))
}

func (h *Handler) handleUnblock(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /unblock <user_id>")
		return
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Invalid user ID")
		return
	}

	if err := h.store.UnblockSender(ctx, userID); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to unblock sender: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Sender %d unblocked", userID))
}

// settingKeys is the editable surface exposed through /set.
var settingKeys = []string{
	rulesDomain.SettingPushEnabled,
	rulesDomain.SettingKeywordMatchMode,
	rulesDomain.SettingBlacklistMode,
	rulesDomain.SettingNoRepeatDuration,
	rulesDomain.SettingFilterAdUsers,
	rulesDomain.SettingAttachHistory,
}

func (h *Handler) handleSettings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	var text strings.Builder
	text.WriteString("⚙️ System settings:\n\n")
	for _, key := range settingKeys {
		value, err := h.store.GetSystemSetting(ctx, key, rulesDomain.DefaultSystemSettings[key])
		if err != nil {
			h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to read settings: %v", err))
			return
		}
		text.WriteString(fmt.Sprintf("• %s = %s\n", key, value))
	}
	text.WriteString("\nUse /set <key> <value> to change one.")
	h.reply(ctx, b, update.Message.Chat.ID, text.String())
}

func (h *Handler) handleSetSetting(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.cfg.IsSuperAdmin(update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Only super admins can change settings")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 3 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /set <key> <value>")
		return
	}
	key, value := parts[1], parts[2]

	if _, known := rulesDomain.DefaultSystemSettings[key]; !known {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Unknown setting %q", key))
		return
	}
	switch key {
	case rulesDomain.SettingKeywordMatchMode, rulesDomain.SettingBlacklistMode:
		if _, err := rulesDomain.ParseMatchMode(value); err != nil {
			h.reply(ctx, b, update.Message.Chat.ID, "❌ Value must be exact or fuzzy")
			return
		}
	case rulesDomain.SettingNoRepeatDuration:
		if _, err := strconv.Atoi(value); err != nil {
			h.reply(ctx, b, update.Message.Chat.ID, "❌ Value must be a number of minutes")
			return
		}
	}

	if err := h.store.SetSystemSetting(ctx, key, value); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to update setting: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ %s = %s", key, value))
}

func (h *Handler) handleNotify(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 || (parts[1] != "on" && parts[1] != "off") {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /notify on|off")
		return
	}
	enabled := parts[1] == "on"

	if err := h.store.SetNotificationPreference(ctx, update.Message.From.ID, enabled); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to update preference: %v", err))
		return
	}
	if enabled {
		h.reply(ctx, b, update.Message.Chat.ID, "🔔 Alerts enabled")
	} else {
		h.reply(ctx, b, update.Message.Chat.ID, "🔕 Alerts disabled")
	}
}

func (h *Handler) handleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isOperator(ctx, update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	stats, err := h.store.Stats(ctx)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to get stats: %v", err))
		return
	}

	text := fmt.Sprintf(`📊 Statistics:

Keywords: %d (hits: %d)
Groups: %d
Messages seen: %d
Messages matched: %d
Admins: %d`,
		stats.KeywordCount, stats.KeywordHits, stats.GroupCount,
		stats.TotalMessages, stats.MatchedMessages, stats.AdminCount)

	h.reply(ctx, b, update.Message.Chat.ID, text)
}
