package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	monitorDomain "github.com/telewatch/telewatch/internal/modules/monitor/domain"
	rulesDomain "github.com/telewatch/telewatch/internal/modules/rules/domain"
	rulesRepo "github.com/telewatch/telewatch/internal/modules/rules/repository"
	"github.com/telewatch/telewatch/internal/shared/config"
)

type fakeStore struct {
	rulesRepo.Store

	admins   []rulesDomain.Admin
	disabled map[int64]bool
	settings map[string]string
	history  []rulesDomain.MatchedMessage
}

func (f *fakeStore) ListAdmins(context.Context) ([]rulesDomain.Admin, error) {
	return f.admins, nil
}

func (f *fakeStore) GetSystemSetting(_ context.Context, key, fallback string) (string, error) {
	if v, ok := f.settings[key]; ok {
		return v, nil
	}
	return fallback, nil
}

func (f *fakeStore) MessagesBySender(context.Context, int64, int) ([]rulesDomain.MatchedMessage, error) {
	return f.history, nil
}

func (f *fakeStore) GetNotificationPreference(_ context.Context, userID int64) (bool, error) {
	return !f.disabled[userID], nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []*bot.SendMessageParams
	done chan struct{}
	want int
}

func newFakeSender(want int) *fakeSender {
	return &fakeSender{done: make(chan struct{}), want: want}
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params)
	if len(f.sent) == f.want {
		close(f.done)
	}
	return &models.Message{}, nil
}

func (f *fakeSender) wait(t *testing.T) []*bot.SendMessageParams {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for deliveries")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*bot.SendMessageParams{}, f.sent...)
}

func testEvent() *monitorDomain.MatchEvent {
	return &monitorDomain.MatchEvent{
		Message: monitorDomain.IncomingMessage{
			ChatID:         -1001234567890,
			ChatTitle:      "Test <Group>",
			MessageID:      42,
			SenderID:       777,
			SenderUsername: "sender",
			SenderName:     "Some Sender",
			Text:           "the keyword appeared here",
			Date:           time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		Keyword: "keyword",
	}
}

func TestDeliverFansOutToUniqueSubscribers(t *testing.T) {
	cfg := &config.Config{SuperAdmins: []int64{1, 2}}
	store := &fakeStore{
		// Admin 2 is also a super admin and must receive one copy only.
		admins: []rulesDomain.Admin{{UserID: 2}, {UserID: 3}},
	}
	sender := newFakeSender(3)
	n := NewNotifier(cfg, store)
	n.SetSender(sender)

	n.Publish(context.Background(), testEvent())

	sent := sender.wait(t)
	recipients := make(map[any]bool)
	for _, params := range sent {
		recipients[params.ChatID] = true
		assert.Equal(t, models.ParseModeHTML, params.ParseMode)
		assert.NotNil(t, params.ReplyMarkup)
	}
	assert.Len(t, recipients, 3)
}

func TestDeliverSkipsOptedOut(t *testing.T) {
	cfg := &config.Config{SuperAdmins: []int64{1, 2}}
	store := &fakeStore{disabled: map[int64]bool{2: true}}
	sender := newFakeSender(1)
	n := NewNotifier(cfg, store)
	n.SetSender(sender)

	n.Publish(context.Background(), testEvent())

	sent := sender.wait(t)
	require.Len(t, sent, 1)
	assert.Equal(t, any(int64(1)), sent[0].ChatID)
}

func TestRenderEscapesAndTruncates(t *testing.T) {
	n := NewNotifier(&config.Config{}, &fakeStore{})

	event := testEvent()
	event.Message.Text = "<b>" + strings.Repeat("x", 300)
	text := n.render(event)

	assert.NotContains(t, text, "<b>", "message content is escaped")
	assert.Contains(t, text, "&lt;b&gt;")
	assert.Contains(t, text, "Test &lt;Group&gt;")
	assert.Contains(t, text, "...", "long previews are truncated")
	assert.Contains(t, text, `https://t.me/sender`)
	assert.Contains(t, text, "2026-08-01 12:00:00")
}

func TestRenderUnknownSenderFallsBackToProfileLink(t *testing.T) {
	n := NewNotifier(&config.Config{}, &fakeStore{})

	event := testEvent()
	event.Message.SenderUsername = ""
	event.Message.SenderName = ""
	text := n.render(event)

	assert.Contains(t, text, `tg://user?id=777`)
	assert.Contains(t, text, "Unknown")
}

func TestHistoryFooter(t *testing.T) {
	store := &fakeStore{
		history: []rulesDomain.MatchedMessage{
			{MatchedKeyword: "alpha", Content: "earlier <hit>"},
		},
	}
	n := NewNotifier(&config.Config{}, store)

	// Off by default.
	assert.Empty(t, n.historyFooter(context.Background(), testEvent()))

	store.settings = map[string]string{rulesDomain.SettingAttachHistory: "true"}
	footer := n.historyFooter(context.Background(), testEvent())
	assert.Contains(t, footer, "alpha")
	assert.Contains(t, footer, "earlier &lt;hit&gt;")
}

func TestActionKeyboardCallbackData(t *testing.T) {
	n := NewNotifier(&config.Config{}, &fakeStore{})

	markup := n.actionKeyboard(testEvent())
	require.Len(t, markup.InlineKeyboard, 2)

	first := markup.InlineKeyboard[0]
	require.Len(t, first, 3)
	assert.Equal(t, "msg_history_777", first[0].CallbackData)
	assert.Equal(t, "msg_delete_42_-1001234567890", first[1].CallbackData)
	assert.Equal(t, "msg_block_777", first[2].CallbackData)

	second := markup.InlineKeyboard[1]
	require.Len(t, second, 2)
	assert.Equal(t, "msg_userinfo_777", second[0].CallbackData)
	assert.Equal(t, "https://t.me/sender", second[1].URL)
}

func TestSanitizeDropsInvalidUTF8(t *testing.T) {
	assert.Equal(t, "ok", sanitize("ok\xff"))
	assert.Equal(t, "héllo", sanitize("héllo"))
}
