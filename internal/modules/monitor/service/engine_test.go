package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telewatch/telewatch/internal/modules/monitor/domain"
	rulesDomain "github.com/telewatch/telewatch/internal/modules/rules/domain"
	rulesRepo "github.com/telewatch/telewatch/internal/modules/rules/repository"
)

// fakeStore overrides only the methods the engine touches; anything else
// panics through the embedded nil interface.
type fakeStore struct {
	rulesRepo.Store

	settings    map[string]string
	monitored   map[int64]bool
	admitted    []int64
	blocked     map[int64]bool
	blacklist   []rulesDomain.BlacklistEntry
	keywords    []rulesDomain.Keyword
	pushAllowed bool
	pushCalls   int
	hits        []string
	msgDeltas   int64
	hitDeltas   int64
	saved       []*rulesDomain.MatchedMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		settings:    map[string]string{},
		monitored:   map[int64]bool{},
		blocked:     map[int64]bool{},
		pushAllowed: true,
	}
}

func (f *fakeStore) GetSystemSetting(_ context.Context, key, fallback string) (string, error) {
	if v, ok := f.settings[key]; ok {
		return v, nil
	}
	return fallback, nil
}

func (f *fakeStore) IsChannelMonitored(_ context.Context, chatID int64) (bool, error) {
	return f.monitored[chatID], nil
}

func (f *fakeStore) UpsertMonitoredChannel(_ context.Context, chatID int64, _, _ string) error {
	f.monitored[chatID] = true
	f.admitted = append(f.admitted, chatID)
	return nil
}

func (f *fakeStore) IncrementChannelCounters(_ context.Context, _, messageDelta, hitDelta int64) error {
	f.msgDeltas += messageDelta
	f.hitDeltas += hitDelta
	return nil
}

func (f *fakeStore) IsSenderBlocked(_ context.Context, userID int64) (bool, error) {
	return f.blocked[userID], nil
}

func (f *fakeStore) ActiveBlacklistEntries(_ context.Context) ([]rulesDomain.BlacklistEntry, error) {
	return f.blacklist, nil
}

func (f *fakeStore) ActiveKeywords(_ context.Context) ([]rulesDomain.Keyword, error) {
	return f.keywords, nil
}

func (f *fakeStore) IncrementKeywordHits(_ context.Context, keyword string) error {
	f.hits = append(f.hits, keyword)
	return nil
}

func (f *fakeStore) CheckAndRecordPush(_ context.Context, _, _ int64, _ int) (bool, error) {
	f.pushCalls++
	return f.pushAllowed, nil
}

func (f *fakeStore) SaveMatchedMessage(_ context.Context, msg *rulesDomain.MatchedMessage) error {
	f.saved = append(f.saved, msg)
	return nil
}

type fakeSink struct {
	events []*domain.MatchEvent
}

func (f *fakeSink) Publish(_ context.Context, event *domain.MatchEvent) {
	f.events = append(f.events, event)
}

func testMessage(text string) *domain.IncomingMessage {
	return &domain.IncomingMessage{
		ChatID:         -1001234567890,
		ChatTitle:      "Test Group",
		MessageID:      42,
		SenderID:       777,
		SenderUsername: "sender",
		Text:           text,
	}
}

func keyword(text string, matchType rulesDomain.MatchType) rulesDomain.Keyword {
	return rulesDomain.Keyword{Text: text, MatchType: matchType, IsActive: true}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	store := newFakeStore()
	store.monitored[-1001234567890] = true
	store.keywords = []rulesDomain.Keyword{
		keyword("alpha", rulesDomain.MatchTypeContains),
		keyword("beta", rulesDomain.MatchTypeContains),
	}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	engine.Classify(context.Background(), testMessage("alpha and beta both appear"), Options{
		ChannelPolicy: domain.ChannelPolicyStrict,
	})

	require.Len(t, sink.events, 1)
	assert.Equal(t, "alpha", sink.events[0].Keyword)
	assert.Equal(t, []string{"alpha"}, store.hits)
	assert.Equal(t, int64(1), store.msgDeltas)
	assert.Equal(t, int64(1), store.hitDeltas)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "alpha", store.saved[0].MatchedKeyword)
}

func TestClassifyPushDisabled(t *testing.T) {
	store := newFakeStore()
	store.settings[rulesDomain.SettingPushEnabled] = "false"
	store.monitored[-1001234567890] = true
	store.keywords = []rulesDomain.Keyword{keyword("alpha", rulesDomain.MatchTypeContains)}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	engine.Classify(context.Background(), testMessage("alpha"), Options{ChannelPolicy: domain.ChannelPolicyStrict})

	assert.Empty(t, sink.events)
	assert.Zero(t, store.msgDeltas)
}

func TestClassifyStrictDropsUnknownChat(t *testing.T) {
	store := newFakeStore()
	store.keywords = []rulesDomain.Keyword{keyword("alpha", rulesDomain.MatchTypeContains)}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	engine.Classify(context.Background(), testMessage("alpha"), Options{ChannelPolicy: domain.ChannelPolicyStrict})

	assert.Empty(t, sink.events)
	assert.Empty(t, store.admitted)
}

func TestClassifyAutoAdmitsUnknownChat(t *testing.T) {
	store := newFakeStore()
	store.keywords = []rulesDomain.Keyword{keyword("alpha", rulesDomain.MatchTypeContains)}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	engine.Classify(context.Background(), testMessage("alpha"), Options{ChannelPolicy: domain.ChannelPolicyAutoAdmit})

	assert.Equal(t, []int64{-1001234567890}, store.admitted)
	require.Len(t, sink.events, 1)
}

func TestClassifyBlockedSender(t *testing.T) {
	store := newFakeStore()
	store.monitored[-1001234567890] = true
	store.blocked[777] = true
	store.keywords = []rulesDomain.Keyword{keyword("alpha", rulesDomain.MatchTypeContains)}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	engine.Classify(context.Background(), testMessage("alpha"), Options{ChannelPolicy: domain.ChannelPolicyStrict})

	assert.Empty(t, sink.events)
	assert.Zero(t, store.msgDeltas)
}

func TestClassifyAdUserFilter(t *testing.T) {
	store := newFakeStore()
	store.monitored[-1001234567890] = true
	store.settings[rulesDomain.SettingFilterAdUsers] = "true"
	store.keywords = []rulesDomain.Keyword{keyword("alpha", rulesDomain.MatchTypeContains)}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	msg := testMessage("alpha")
	msg.SenderName = "cheap deals t.me/spamchan"
	engine.Classify(context.Background(), msg, Options{ChannelPolicy: domain.ChannelPolicyStrict})
	assert.Empty(t, sink.events)

	// Plain senders pass; the filter is off by default.
	engine.Classify(context.Background(), testMessage("alpha"), Options{ChannelPolicy: domain.ChannelPolicyStrict})
	assert.Len(t, sink.events, 1)
}

func TestClassifyBlacklistShortCircuits(t *testing.T) {
	store := newFakeStore()
	store.monitored[-1001234567890] = true
	store.blacklist = []rulesDomain.BlacklistEntry{{Text: "spam offer", IsActive: true}}
	store.keywords = []rulesDomain.Keyword{keyword("spam", rulesDomain.MatchTypeContains)}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	// Default blacklist mode is exact: only the full message triggers it.
	engine.Classify(context.Background(), testMessage("spam offer"), Options{ChannelPolicy: domain.ChannelPolicyStrict})
	assert.Empty(t, sink.events)
	assert.Zero(t, store.msgDeltas, "blacklisted messages are not counted")

	engine.Classify(context.Background(), testMessage("spam offer inside text"), Options{ChannelPolicy: domain.ChannelPolicyStrict})
	assert.Len(t, sink.events, 1, "exact blacklist does not match substrings")
}

func TestClassifyBlacklistFuzzyMode(t *testing.T) {
	store := newFakeStore()
	store.monitored[-1001234567890] = true
	store.settings[rulesDomain.SettingBlacklistMode] = "fuzzy"
	store.blacklist = []rulesDomain.BlacklistEntry{{Text: "spam", IsActive: true}}
	store.keywords = []rulesDomain.Keyword{keyword("offer", rulesDomain.MatchTypeContains)}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	engine.Classify(context.Background(), testMessage("a spam offer inside text"), Options{ChannelPolicy: domain.ChannelPolicyStrict})

	assert.Empty(t, sink.events)
}

func TestClassifySystemExactMode(t *testing.T) {
	store := newFakeStore()
	store.monitored[-1001234567890] = true
	store.settings[rulesDomain.SettingKeywordMatchMode] = "exact"
	store.keywords = []rulesDomain.Keyword{keyword("hello", rulesDomain.MatchTypeContains)}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	engine.Classify(context.Background(), testMessage("hello world"), Options{ChannelPolicy: domain.ChannelPolicyStrict})
	assert.Empty(t, sink.events)

	engine.Classify(context.Background(), testMessage("Hello"), Options{ChannelPolicy: domain.ChannelPolicyStrict})
	assert.Len(t, sink.events, 1, "exact match is case-insensitive")
}

func TestClassifyPerEntryStartswith(t *testing.T) {
	store := newFakeStore()
	store.monitored[-1001234567890] = true
	store.keywords = []rulesDomain.Keyword{keyword("urgent", rulesDomain.MatchTypeStartswith)}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	opts := Options{ChannelPolicy: domain.ChannelPolicyAutoAdmit, PerEntryMatchTypes: true}

	engine.Classify(context.Background(), testMessage("very urgent thing"), opts)
	assert.Empty(t, sink.events)

	engine.Classify(context.Background(), testMessage("Urgent: read this"), opts)
	assert.Len(t, sink.events, 1)
}

func TestClassifyCooldownSuppresses(t *testing.T) {
	store := newFakeStore()
	store.monitored[-1001234567890] = true
	store.settings[rulesDomain.SettingNoRepeatDuration] = "10"
	store.pushAllowed = false
	store.keywords = []rulesDomain.Keyword{
		keyword("alpha", rulesDomain.MatchTypeContains),
		keyword("beta", rulesDomain.MatchTypeContains),
	}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	engine.Classify(context.Background(), testMessage("alpha beta"), Options{ChannelPolicy: domain.ChannelPolicyStrict})

	assert.Empty(t, sink.events)
	assert.Empty(t, store.hits, "suppressed matches do not count as hits")
	assert.Equal(t, 1, store.pushCalls, "suppression stops the scan, later keywords are not retried")
}

func TestClassifyZeroCooldownSkipsLedger(t *testing.T) {
	store := newFakeStore()
	store.monitored[-1001234567890] = true
	store.keywords = []rulesDomain.Keyword{keyword("alpha", rulesDomain.MatchTypeContains)}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	engine.Classify(context.Background(), testMessage("alpha"), Options{ChannelPolicy: domain.ChannelPolicyStrict})

	assert.Zero(t, store.pushCalls)
	assert.Len(t, sink.events, 1)
}

func TestClassifyTruncatesSavedContent(t *testing.T) {
	store := newFakeStore()
	store.monitored[-1001234567890] = true
	store.keywords = []rulesDomain.Keyword{keyword("开", rulesDomain.MatchTypeContains)}
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	long := "开" + strings.Repeat("水", 700)
	engine.Classify(context.Background(), testMessage(long), Options{ChannelPolicy: domain.ChannelPolicyStrict})

	require.Len(t, store.saved, 1)
	assert.Equal(t, 500, len([]rune(store.saved[0].Content)))
	require.Len(t, sink.events, 1)
	assert.Equal(t, long, sink.events[0].Message.Text, "the event carries the full text")
}

func TestClassifyNoKeywords(t *testing.T) {
	store := newFakeStore()
	store.monitored[-1001234567890] = true
	sink := &fakeSink{}
	engine := NewEngine(store, sink)

	engine.Classify(context.Background(), testMessage("anything"), Options{ChannelPolicy: domain.ChannelPolicyStrict})

	assert.Empty(t, sink.events)
	assert.Equal(t, int64(1), store.msgDeltas, "the message still counts as seen")
}
