package repository

import (
	"context"

	"github.com/telewatch/telewatch/internal/modules/rules/domain"
)

// Store is the rule-set persistence contract consumed by the classification
// pipeline and the admin command layer. Implementations must allow
// concurrent readers; writes to the same logical key are serialized.
// Any method may fail with a storage error; callers in the hot path treat
// that as "skip this message, log, continue".
type Store interface {
	// Classification hot path.
	IsChannelMonitored(ctx context.Context, chatID int64) (bool, error)
	UpsertMonitoredChannel(ctx context.Context, chatID int64, title, username string) error
	IncrementChannelCounters(ctx context.Context, chatID, messageDelta, hitDelta int64) error
	IsSenderBlocked(ctx context.Context, userID int64) (bool, error)
	ActiveBlacklistEntries(ctx context.Context) ([]domain.BlacklistEntry, error)
	// ActiveKeywords returns active keywords ordered by descending hit count
	// so that hotter keywords are evaluated first.
	ActiveKeywords(ctx context.Context) ([]domain.Keyword, error)
	IncrementKeywordHits(ctx context.Context, keyword string) error
	GetSystemSetting(ctx context.Context, key, fallback string) (string, error)
	SetSystemSetting(ctx context.Context, key, value string) error
	// CheckAndRecordPush is an atomic test-and-set on the (sender, chat)
	// dedup ledger: it reports whether a notification is allowed now and, if
	// allowed, records the push timestamp in the same transaction.
	CheckAndRecordPush(ctx context.Context, senderID, chatID int64, cooldownMinutes int) (bool, error)
	SaveMatchedMessage(ctx context.Context, msg *domain.MatchedMessage) error

	// Fan-out.
	ListAdmins(ctx context.Context) ([]domain.Admin, error)
	GetNotificationPreference(ctx context.Context, userID int64) (bool, error)
	SetNotificationPreference(ctx context.Context, userID int64, enabled bool) error

	// Admin command surface.
	AddKeyword(ctx context.Context, text string, matchType domain.MatchType, addedBy int64) error
	RemoveKeyword(ctx context.Context, text string) error
	Keywords(ctx context.Context, activeOnly bool) ([]domain.Keyword, error)
	ToggleKeyword(ctx context.Context, text string) (bool, error)
	AddBlacklistEntry(ctx context.Context, text string, matchType domain.MatchType, addedBy int64) error
	RemoveBlacklistEntry(ctx context.Context, text string) error
	AddAdmin(ctx context.Context, userID int64, username, role string, addedBy int64) error
	RemoveAdmin(ctx context.Context, userID int64) error
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	BlockSender(ctx context.Context, userID int64, username, reason string, blockedBy int64) error
	UnblockSender(ctx context.Context, userID int64) error
	Groups(ctx context.Context, activeOnly bool) ([]domain.MonitoredGroup, error)
	RemoveGroup(ctx context.Context, chatID int64) error
	RecentMessages(ctx context.Context, limit int) ([]domain.MatchedMessage, error)
	MessagesBySender(ctx context.Context, userID int64, limit int) ([]domain.MatchedMessage, error)
	DeleteMessage(ctx context.Context, messageID, chatID int64) error
	Stats(ctx context.Context) (*domain.Stats, error)
	PruneOldPushRecords(ctx context.Context, days int) error

	Close() error
}
