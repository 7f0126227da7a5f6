package listener

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	monitorDomain "github.com/telewatch/telewatch/internal/modules/monitor/domain"
	monitorService "github.com/telewatch/telewatch/internal/modules/monitor/service"
	rulesDomain "github.com/telewatch/telewatch/internal/modules/rules/domain"
	rulesRepo "github.com/telewatch/telewatch/internal/modules/rules/repository"
	sessionDomain "github.com/telewatch/telewatch/internal/modules/session/domain"
	sessionService "github.com/telewatch/telewatch/internal/modules/session/service"
)

type fakeStore struct {
	rulesRepo.Store

	monitored map[int64]bool
	admitted  []int64
	keywords  []rulesDomain.Keyword
	saved     int
}

func (f *fakeStore) GetSystemSetting(_ context.Context, _, fallback string) (string, error) {
	return fallback, nil
}

func (f *fakeStore) IsChannelMonitored(_ context.Context, chatID int64) (bool, error) {
	return f.monitored[chatID], nil
}

func (f *fakeStore) UpsertMonitoredChannel(_ context.Context, chatID int64, _, _ string) error {
	f.admitted = append(f.admitted, chatID)
	return nil
}

func (f *fakeStore) IncrementChannelCounters(context.Context, int64, int64, int64) error { return nil }
func (f *fakeStore) IsSenderBlocked(context.Context, int64) (bool, error)               { return false, nil }

func (f *fakeStore) ActiveBlacklistEntries(context.Context) ([]rulesDomain.BlacklistEntry, error) {
	return nil, nil
}

func (f *fakeStore) ActiveKeywords(context.Context) ([]rulesDomain.Keyword, error) {
	return f.keywords, nil
}

func (f *fakeStore) IncrementKeywordHits(context.Context, string) error { return nil }

func (f *fakeStore) SaveMatchedMessage(context.Context, *rulesDomain.MatchedMessage) error {
	f.saved++
	return nil
}

type fakeSink struct {
	events []*monitorDomain.MatchEvent
}

func (f *fakeSink) Publish(_ context.Context, event *monitorDomain.MatchEvent) {
	f.events = append(f.events, event)
}

// roleTransport only serves the member role lookup the adapter needs.
type roleTransport struct {
	sessionService.Transport

	roles map[int64]monitorDomain.SenderRole
}

func (r *roleTransport) MemberRole(_ context.Context, _, userID int64) (monitorDomain.SenderRole, error) {
	if role, ok := r.roles[userID]; ok {
		return role, nil
	}
	return monitorDomain.SenderRoleMember, nil
}

func groupEvent(senderID int64, text string) sessionDomain.RawEvent {
	return sessionDomain.RawEvent{
		Chat:      sessionDomain.ChatInfo{ID: 1234567890, Title: "Group", IsChannel: true},
		MessageID: 7,
		Sender:    &sessionDomain.SenderInfo{ID: senderID, Username: "someone", FirstName: "Some"},
		Text:      text,
		Date:      time.Now(),
	}
}

func newTestAdapter(store *fakeStore, sink *fakeSink, roles map[int64]monitorDomain.SenderRole) *Adapter {
	engine := monitorService.NewEngine(store, sink)
	return NewAdapter(&roleTransport{roles: roles}, engine)
}

func TestHandleClassifiesMemberMessage(t *testing.T) {
	chatID := monitorDomain.SupergroupChatID(1234567890)
	store := &fakeStore{
		monitored: map[int64]bool{chatID: true},
		keywords:  []rulesDomain.Keyword{{Text: "alpha", IsActive: true}},
	}
	sink := &fakeSink{}
	a := newTestAdapter(store, sink, nil)

	a.handle(context.Background(), groupEvent(777, "alpha inside"))

	assert.Len(t, sink.events, 1)
	assert.Equal(t, chatID, sink.events[0].Message.ChatID, "chat id is canonicalized")
}

func TestHandleStrictDropsUnknownChat(t *testing.T) {
	store := &fakeStore{
		monitored: map[int64]bool{},
		keywords:  []rulesDomain.Keyword{{Text: "alpha", IsActive: true}},
	}
	sink := &fakeSink{}
	a := newTestAdapter(store, sink, nil)

	a.handle(context.Background(), groupEvent(777, "alpha inside"))

	assert.Empty(t, sink.events)
	assert.Empty(t, store.admitted, "the listener path never auto-admits")
}

func TestHandleSkipsAdminsAndBots(t *testing.T) {
	chatID := monitorDomain.SupergroupChatID(1234567890)
	store := &fakeStore{
		monitored: map[int64]bool{chatID: true},
		keywords:  []rulesDomain.Keyword{{Text: "alpha", IsActive: true}},
	}
	sink := &fakeSink{}
	a := newTestAdapter(store, sink, map[int64]monitorDomain.SenderRole{
		500: monitorDomain.SenderRoleAdmin,
		501: monitorDomain.SenderRoleCreator,
	})

	a.handle(context.Background(), groupEvent(500, "alpha"))
	a.handle(context.Background(), groupEvent(501, "alpha"))

	bot := groupEvent(777, "alpha")
	bot.Sender.IsBot = true
	a.handle(context.Background(), bot)

	noSender := groupEvent(777, "alpha")
	noSender.Sender = nil
	a.handle(context.Background(), noSender)

	empty := groupEvent(777, "   ")
	a.handle(context.Background(), empty)

	assert.Empty(t, sink.events)
}

func TestHandleSkipsPrivateChats(t *testing.T) {
	store := &fakeStore{
		monitored: map[int64]bool{
			monitorDomain.SupergroupChatID(1234567890): true,
			monitorDomain.BasicGroupChatID(1234567890): true,
		},
		keywords: []rulesDomain.Keyword{{Text: "alpha", IsActive: true}},
	}
	sink := &fakeSink{}
	a := newTestAdapter(store, sink, nil)

	private := groupEvent(777, "alpha inside")
	private.Chat.IsChannel = false
	a.handle(context.Background(), private)

	assert.Empty(t, sink.events)

	basic := groupEvent(777, "alpha inside")
	basic.Chat.IsChannel = false
	basic.Chat.IsGroup = true
	a.handle(context.Background(), basic)

	assert.Len(t, sink.events, 1, "basic groups still classify")
}
