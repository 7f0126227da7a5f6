package domain

import "time"

// Keyword is a watched term. Text is stored case-folded and trimmed and is
// unique across all keywords. HitCount only ever grows.
type Keyword struct {
	ID        int64     `json:"id"`
	Text      string    `json:"keyword"`
	MatchType MatchType `json:"match_type"`
	IsActive  bool      `json:"is_active"`
	HitCount  int64     `json:"hit_count"`
	AddedBy   int64     `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}

// BlacklistEntry is a term that causes a message to be dropped before any
// keyword evaluation. Same uniqueness rule as Keyword, no hit counter.
type BlacklistEntry struct {
	ID        int64     `json:"id"`
	Text      string    `json:"keyword"`
	MatchType MatchType `json:"match_type"`
	IsActive  bool      `json:"is_active"`
	AddedBy   int64     `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}

// MonitoredGroup is a group or channel the system watches, keyed by the
// canonical signed chat ID.
type MonitoredGroup struct {
	ChatID       int64     `json:"chat_id"`
	Title        string    `json:"title"`
	Username     string    `json:"username"`
	IsActive     bool      `json:"is_active"`
	MessageCount int64     `json:"message_count"`
	HitCount     int64     `json:"hit_count"`
	JoinedAt     time.Time `json:"joined_at"`
}

// BlockedSender suppresses all matching for one sender. Presence alone
// suffices; the extra fields are bookkeeping.
type BlockedSender struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Reason    string    `json:"reason"`
	BlockedBy int64     `json:"blocked_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Admin is a notification subscriber added at runtime. Super admins come
// from config and are not stored here.
type Admin struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	AddedBy   int64     `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}

// MatchedMessage is the persisted record of a keyword hit.
type MatchedMessage struct {
	ID             int64     `json:"id"`
	ChatID         int64     `json:"chat_id"`
	MessageID      int64     `json:"message_id"`
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username"`
	Content        string    `json:"content"`
	MatchedKeyword string    `json:"matched_keyword"`
	CreatedAt      time.Time `json:"created_at"`
}

// Stats is an aggregate snapshot used by the status surfaces.
type Stats struct {
	KeywordCount    int64 `json:"keyword_count"`
	KeywordHits     int64 `json:"keyword_hits"`
	GroupCount      int64 `json:"group_count"`
	TotalMessages   int64 `json:"total_messages"`
	MatchedMessages int64 `json:"matched_messages"`
	AdminCount      int64 `json:"admin_count"`
}
