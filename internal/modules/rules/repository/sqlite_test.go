package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telewatch/telewatch/internal/modules/rules/domain"
	sharederrors "github.com/telewatch/telewatch/internal/shared/errors"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestKeywordLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddKeyword(ctx, "  Hello World  ", domain.MatchTypeContains, 1))

	// Stored case-folded and trimmed, identity by text.
	err := store.AddKeyword(ctx, "hello world", domain.MatchTypeExact, 2)
	assert.ErrorIs(t, err, sharederrors.ErrKeywordExists)

	keywords, err := store.ActiveKeywords(ctx)
	require.NoError(t, err)
	require.Len(t, keywords, 1)
	assert.Equal(t, "hello world", keywords[0].Text)
	assert.Equal(t, domain.MatchTypeContains, keywords[0].MatchType)

	active, err := store.ToggleKeyword(ctx, "hello world")
	require.NoError(t, err)
	assert.False(t, active)

	keywords, err = store.ActiveKeywords(ctx)
	require.NoError(t, err)
	assert.Empty(t, keywords, "inactive keywords never reach the hot path")

	all, err := store.Keywords(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, store.RemoveKeyword(ctx, "hello world"))
	assert.ErrorIs(t, store.RemoveKeyword(ctx, "hello world"), sharederrors.ErrKeywordNotFound)
}

func TestActiveKeywordsOrderedByHits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddKeyword(ctx, "cold", domain.MatchTypeContains, 1))
	require.NoError(t, store.AddKeyword(ctx, "hot", domain.MatchTypeContains, 1))
	for i := 0; i < 3; i++ {
		require.NoError(t, store.IncrementKeywordHits(ctx, "hot"))
	}

	keywords, err := store.ActiveKeywords(ctx)
	require.NoError(t, err)
	require.Len(t, keywords, 2)
	assert.Equal(t, "hot", keywords[0].Text)
	assert.Equal(t, int64(3), keywords[0].HitCount)
}

func TestMonitoredGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	monitored, err := store.IsChannelMonitored(ctx, -1001)
	require.NoError(t, err)
	assert.False(t, monitored)

	require.NoError(t, store.UpsertMonitoredChannel(ctx, -1001, "Group", "grp"))
	monitored, err = store.IsChannelMonitored(ctx, -1001)
	require.NoError(t, err)
	assert.True(t, monitored)

	require.NoError(t, store.IncrementChannelCounters(ctx, -1001, 5, 2))

	// Removal deactivates but keeps counters.
	require.NoError(t, store.RemoveGroup(ctx, -1001))
	monitored, err = store.IsChannelMonitored(ctx, -1001)
	require.NoError(t, err)
	assert.False(t, monitored)

	require.NoError(t, store.UpsertMonitoredChannel(ctx, -1001, "Group Renamed", "grp"))
	groups, err := store.Groups(ctx, true)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Group Renamed", groups[0].Title)
	assert.Equal(t, int64(5), groups[0].MessageCount)
	assert.Equal(t, int64(2), groups[0].HitCount)
}

func TestBlockedSenders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	blocked, err := store.IsSenderBlocked(ctx, 777)
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, store.BlockSender(ctx, 777, "spammer", "ads", 1))
	require.NoError(t, store.BlockSender(ctx, 777, "spammer", "ads again", 1), "re-blocking is a no-op")

	blocked, err = store.IsSenderBlocked(ctx, 777)
	require.NoError(t, err)
	assert.True(t, blocked)

	require.NoError(t, store.UnblockSender(ctx, 777))
	blocked, err = store.IsSenderBlocked(ctx, 777)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestSystemSettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Defaults are seeded on first open.
	value, err := store.GetSystemSetting(ctx, domain.SettingKeywordMatchMode, "")
	require.NoError(t, err)
	assert.Equal(t, string(domain.MatchModeFuzzy), value)

	require.NoError(t, store.SetSystemSetting(ctx, domain.SettingNoRepeatDuration, "30"))
	value, err = store.GetSystemSetting(ctx, domain.SettingNoRepeatDuration, "0")
	require.NoError(t, err)
	assert.Equal(t, "30", value)

	value, err = store.GetSystemSetting(ctx, "missing_key", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", value)
}

func TestNotificationPreferenceDefaultsOn(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	enabled, err := store.GetNotificationPreference(ctx, 42)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, store.SetNotificationPreference(ctx, 42, false))
	enabled, err = store.GetNotificationPreference(ctx, 42)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, store.SetNotificationPreference(ctx, 42, true))
	enabled, err = store.GetNotificationPreference(ctx, 42)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestCheckAndRecordPush(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Zero cooldown short-circuits without touching the ledger.
	allowed, err := store.CheckAndRecordPush(ctx, 1, -1001, 0)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = store.CheckAndRecordPush(ctx, 1, -1001, 10)
	require.NoError(t, err)
	assert.True(t, allowed, "first push for the pair is always allowed")

	allowed, err = store.CheckAndRecordPush(ctx, 1, -1001, 10)
	require.NoError(t, err)
	assert.False(t, allowed, "second push within the cooldown is suppressed")

	// Other pairs are independent.
	allowed, err = store.CheckAndRecordPush(ctx, 2, -1001, 10)
	require.NoError(t, err)
	assert.True(t, allowed)
	allowed, err = store.CheckAndRecordPush(ctx, 1, -1002, 10)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestPruneOldPushRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CheckAndRecordPush(ctx, 1, -1001, 10)
	require.NoError(t, err)

	// Backdate the record beyond the retention window.
	_, err = store.db.ExecContext(ctx,
		`UPDATE push_records SET last_push_at = ?`,
		time.Now().AddDate(0, 0, -40).Unix())
	require.NoError(t, err)

	require.NoError(t, store.PruneOldPushRecords(ctx, 30))

	allowed, err := store.CheckAndRecordPush(ctx, 1, -1001, 10)
	require.NoError(t, err)
	assert.True(t, allowed, "pruned pairs behave like first-time pushes")
}

func TestPruneKeepsRecordsWithinLongCooldowns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// 15-day cooldown, expressed in minutes as the setting stores it.
	const cooldownMinutes = 15 * 24 * 60

	_, err := store.CheckAndRecordPush(ctx, 1, -1001, cooldownMinutes)
	require.NoError(t, err)

	// Age the record to 8 days, still well inside the cooldown.
	_, err = store.db.ExecContext(ctx,
		`UPDATE push_records SET last_push_at = ?`,
		time.Now().AddDate(0, 0, -8).Unix())
	require.NoError(t, err)

	require.NoError(t, store.PruneOldPushRecords(ctx, 30))

	allowed, err := store.CheckAndRecordPush(ctx, 1, -1001, cooldownMinutes)
	require.NoError(t, err)
	assert.False(t, allowed, "pruning must not erase entries that still suppress")
}

func TestMatchedMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, store.SaveMatchedMessage(ctx, &domain.MatchedMessage{
			ChatID:         -1001,
			MessageID:      i,
			UserID:         777,
			Username:       "sender",
			Content:        "matched content",
			MatchedKeyword: "alpha",
		}))
	}
	require.NoError(t, store.SaveMatchedMessage(ctx, &domain.MatchedMessage{
		ChatID:         -1002,
		MessageID:      9,
		UserID:         888,
		Content:        "other sender",
		MatchedKeyword: "beta",
	}))

	recent, err := store.RecentMessages(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 4)

	bySender, err := store.MessagesBySender(ctx, 777, 10)
	require.NoError(t, err)
	assert.Len(t, bySender, 3)

	require.NoError(t, store.DeleteMessage(ctx, 9, -1002))
	bySender, err = store.MessagesBySender(ctx, 888, 10)
	require.NoError(t, err)
	assert.Empty(t, bySender)
}

func TestAdmins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ok, err := store.IsAdmin(ctx, 100)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.AddAdmin(ctx, 100, "first", "", 1))
	require.NoError(t, store.AddAdmin(ctx, 100, "renamed", "admin", 1), "re-adding updates in place")

	ok, err = store.IsAdmin(ctx, 100)
	require.NoError(t, err)
	assert.True(t, ok)

	admins, err := store.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "renamed", admins[0].Username)

	require.NoError(t, store.RemoveAdmin(ctx, 100))
	admins, err = store.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddKeyword(ctx, "alpha", domain.MatchTypeContains, 1))
	require.NoError(t, store.IncrementKeywordHits(ctx, "alpha"))
	require.NoError(t, store.UpsertMonitoredChannel(ctx, -1001, "Group", ""))
	require.NoError(t, store.IncrementChannelCounters(ctx, -1001, 7, 1))
	require.NoError(t, store.SaveMatchedMessage(ctx, &domain.MatchedMessage{ChatID: -1001, MessageID: 1, UserID: 777, MatchedKeyword: "alpha"}))
	require.NoError(t, store.AddAdmin(ctx, 100, "a", "admin", 1))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.KeywordCount)
	assert.Equal(t, int64(1), stats.KeywordHits)
	assert.Equal(t, int64(1), stats.GroupCount)
	assert.Equal(t, int64(7), stats.TotalMessages)
	assert.Equal(t, int64(1), stats.MatchedMessages)
	assert.Equal(t, int64(1), stats.AdminCount)
}
