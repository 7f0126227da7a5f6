package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/oops"
	_ "modernc.org/sqlite"

	"github.com/telewatch/telewatch/internal/modules/rules/domain"
	sharederrors "github.com/telewatch/telewatch/internal/shared/errors"
)

// SQLiteStore implements Store on a single SQLite file. A single
// connection serializes writers; SQLite itself allows concurrent readers
// through WAL.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		user_id    INTEGER PRIMARY KEY,
		username   TEXT,
		role       TEXT DEFAULT 'admin',
		added_by   INTEGER,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS keywords (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		keyword    TEXT NOT NULL UNIQUE,
		match_type TEXT DEFAULT 'contains',
		is_active  INTEGER DEFAULT 1,
		hit_count  INTEGER DEFAULT 0,
		added_by   INTEGER,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS keyword_blacklist (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		keyword    TEXT NOT NULL UNIQUE,
		match_type TEXT DEFAULT 'contains',
		is_active  INTEGER DEFAULT 1,
		added_by   INTEGER,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		chat_id       INTEGER PRIMARY KEY,
		title         TEXT,
		username      TEXT,
		is_active     INTEGER DEFAULT 1,
		message_count INTEGER DEFAULT 0,
		hit_count     INTEGER DEFAULT 0,
		joined_at     INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS blocked_users (
		user_id    INTEGER PRIMARY KEY,
		username   TEXT,
		reason     TEXT,
		blocked_by INTEGER,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id         INTEGER,
		message_id      INTEGER,
		user_id         INTEGER,
		username        TEXT,
		content         TEXT,
		matched_keyword TEXT,
		created_at      INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_settings (
		user_id       INTEGER NOT NULL,
		setting_key   TEXT NOT NULL,
		setting_value TEXT,
		updated_at    INTEGER NOT NULL,
		PRIMARY KEY (user_id, setting_key)
	)`,
	`CREATE TABLE IF NOT EXISTS system_settings (
		setting_key   TEXT PRIMARY KEY,
		setting_value TEXT,
		updated_at    INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS push_records (
		user_id      INTEGER NOT NULL,
		chat_id      INTEGER NOT NULL,
		last_push_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, chat_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_keywords_hits ON keywords(hit_count)`,
}

// NewSQLiteStore opens (creating if needed) the rule database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, oops.With("dir", dir, "context", "failed to create database directory").Wrap(err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	// One connection keeps write transactions serialized without busy errors.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
		`PRAGMA foreign_keys = ON`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, oops.With("pragma", pragma).Wrap(err)
		}
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, oops.With("context", "failed to initialize schema").Wrap(err)
		}
	}

	now := time.Now().Unix()
	for key, value := range domain.DefaultSystemSettings {
		if _, err := db.Exec(
			`INSERT OR IGNORE INTO system_settings (setting_key, setting_value, updated_at) VALUES (?, ?, ?)`,
			key, value, now,
		); err != nil {
			db.Close()
			return nil, oops.With("setting_key", key).Wrap(err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// normalizeTerm applies the global case-fold/trim rule for keyword and
// blacklist text.
func normalizeTerm(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ========== Monitored groups ==========

func (s *SQLiteStore) IsChannelMonitored(ctx context.Context, chatID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM groups WHERE chat_id = ? AND is_active = 1`, chatID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, oops.With("chat_id", chatID).Wrap(err)
	}
	return true, nil
}

func (s *SQLiteStore) UpsertMonitoredChannel(ctx context.Context, chatID int64, title, username string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO groups (chat_id, title, username, is_active, joined_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			title = excluded.title,
			username = excluded.username,
			is_active = 1`,
		chatID, title, username, time.Now().Unix())
	if err != nil {
		return oops.With("chat_id", chatID, "title", title).Wrap(err)
	}
	return nil
}

func (s *SQLiteStore) IncrementChannelCounters(ctx context.Context, chatID, messageDelta, hitDelta int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE groups SET
			message_count = message_count + ?,
			hit_count = hit_count + ?
		WHERE chat_id = ?`,
		messageDelta, hitDelta, chatID)
	if err != nil {
		return oops.With("chat_id", chatID).Wrap(err)
	}
	return nil
}

func (s *SQLiteStore) Groups(ctx context.Context, activeOnly bool) ([]domain.MonitoredGroup, error) {
	query := `SELECT chat_id, title, username, is_active, message_count, hit_count, joined_at
		FROM groups ORDER BY hit_count DESC`
	if activeOnly {
		query = `SELECT chat_id, title, username, is_active, message_count, hit_count, joined_at
			FROM groups WHERE is_active = 1 ORDER BY hit_count DESC`
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, oops.Wrap(err)
	}
	defer rows.Close()

	var groups []domain.MonitoredGroup
	for rows.Next() {
		var g domain.MonitoredGroup
		var title, username sql.NullString
		var active int
		var joined int64
		if err := rows.Scan(&g.ChatID, &title, &username, &active, &g.MessageCount, &g.HitCount, &joined); err != nil {
			return nil, oops.Wrap(err)
		}
		g.Title = title.String
		g.Username = username.String
		g.IsActive = active != 0
		g.JoinedAt = time.Unix(joined, 0)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *SQLiteStore) RemoveGroup(ctx context.Context, chatID int64) error {
	// Deactivate rather than delete so counters survive a re-join.
	_, err := s.db.ExecContext(ctx, `UPDATE groups SET is_active = 0 WHERE chat_id = ?`, chatID)
	if err != nil {
		return oops.With("chat_id", chatID).Wrap(err)
	}
	return nil
}

// ========== Blocked senders ==========

func (s *SQLiteStore) IsSenderBlocked(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM blocked_users WHERE user_id = ?`, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, oops.With("user_id", userID).Wrap(err)
	}
	return true, nil
}

func (s *SQLiteStore) BlockSender(ctx context.Context, userID int64, username, reason string, blockedBy int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO blocked_users (user_id, username, reason, blocked_by, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID, username, reason, blockedBy, time.Now().Unix())
	if err != nil {
		return oops.With("user_id", userID).Wrap(err)
	}
	return nil
}

func (s *SQLiteStore) UnblockSender(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blocked_users WHERE user_id = ?`, userID)
	if err != nil {
		return oops.With("user_id", userID).Wrap(err)
	}
	return nil
}

// ========== Keywords ==========

func (s *SQLiteStore) ActiveKeywords(ctx context.Context) ([]domain.Keyword, error) {
	return s.queryKeywords(ctx, `SELECT id, keyword, match_type, is_active, hit_count, added_by, created_at
		FROM keywords WHERE is_active = 1 ORDER BY hit_count DESC`)
}

func (s *SQLiteStore) Keywords(ctx context.Context, activeOnly bool) ([]domain.Keyword, error) {
	if activeOnly {
		return s.ActiveKeywords(ctx)
	}
	return s.queryKeywords(ctx, `SELECT id, keyword, match_type, is_active, hit_count, added_by, created_at
		FROM keywords ORDER BY hit_count DESC`)
}

func (s *SQLiteStore) queryKeywords(ctx context.Context, query string) ([]domain.Keyword, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, oops.Wrap(err)
	}
	defer rows.Close()

	var keywords []domain.Keyword
	for rows.Next() {
		var kw domain.Keyword
		var matchType string
		var active int
		var addedBy sql.NullInt64
		var created int64
		if err := rows.Scan(&kw.ID, &kw.Text, &matchType, &active, &kw.HitCount, &addedBy, &created); err != nil {
			return nil, oops.Wrap(err)
		}
		kw.MatchType = domain.MatchType(matchType)
		kw.IsActive = active != 0
		kw.AddedBy = addedBy.Int64
		kw.CreatedAt = time.Unix(created, 0)
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

func (s *SQLiteStore) AddKeyword(ctx context.Context, text string, matchType domain.MatchType, addedBy int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO keywords (keyword, match_type, added_by, created_at) VALUES (?, ?, ?, ?)`,
		normalizeTerm(text), string(matchType), addedBy, time.Now().Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return sharederrors.ErrKeywordExists
		}
		return oops.With("keyword", text).Wrap(err)
	}
	return nil
}

func (s *SQLiteStore) RemoveKeyword(ctx context.Context, text string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM keywords WHERE keyword = ?`, normalizeTerm(text))
	if err != nil {
		return oops.With("keyword", text).Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sharederrors.ErrKeywordNotFound
	}
	return nil
}

func (s *SQLiteStore) ToggleKeyword(ctx context.Context, text string) (bool, error) {
	term := normalizeTerm(text)
	var active int
	err := s.db.QueryRowContext(ctx, `SELECT is_active FROM keywords WHERE keyword = ?`, term).Scan(&active)
	if err == sql.ErrNoRows {
		return false, sharederrors.ErrKeywordNotFound
	}
	if err != nil {
		return false, oops.With("keyword", text).Wrap(err)
	}
	newActive := 1 - active
	if _, err := s.db.ExecContext(ctx, `UPDATE keywords SET is_active = ? WHERE keyword = ?`, newActive, term); err != nil {
		return false, oops.With("keyword", text).Wrap(err)
	}
	return newActive != 0, nil
}

func (s *SQLiteStore) IncrementKeywordHits(ctx context.Context, keyword string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE keywords SET hit_count = hit_count + 1 WHERE keyword = ?`, keyword)
	if err != nil {
		return oops.With("keyword", keyword).Wrap(err)
	}
	return nil
}

// ========== Blacklist ==========

func (s *SQLiteStore) ActiveBlacklistEntries(ctx context.Context) ([]domain.BlacklistEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, keyword, match_type, is_active, added_by, created_at FROM keyword_blacklist WHERE is_active = 1`)
	if err != nil {
		return nil, oops.Wrap(err)
	}
	defer rows.Close()

	var entries []domain.BlacklistEntry
	for rows.Next() {
		var e domain.BlacklistEntry
		var matchType string
		var active int
		var addedBy sql.NullInt64
		var created int64
		if err := rows.Scan(&e.ID, &e.Text, &matchType, &active, &addedBy, &created); err != nil {
			return nil, oops.Wrap(err)
		}
		e.MatchType = domain.MatchType(matchType)
		e.IsActive = active != 0
		e.AddedBy = addedBy.Int64
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) AddBlacklistEntry(ctx context.Context, text string, matchType domain.MatchType, addedBy int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO keyword_blacklist (keyword, match_type, added_by, created_at) VALUES (?, ?, ?, ?)`,
		normalizeTerm(text), string(matchType), addedBy, time.Now().Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return sharederrors.ErrKeywordExists
		}
		return oops.With("keyword", text).Wrap(err)
	}
	return nil
}

func (s *SQLiteStore) RemoveBlacklistEntry(ctx context.Context, text string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM keyword_blacklist WHERE keyword = ?`, normalizeTerm(text))
	if err != nil {
		return oops.With("keyword", text).Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sharederrors.ErrKeywordNotFound
	}
	return nil
}

// ========== System and user settings ==========

func (s *SQLiteStore) GetSystemSetting(ctx context.Context, key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT setting_value FROM system_settings WHERE setting_key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return fallback, oops.With("setting_key", key).Wrap(err)
	}
	return value, nil
}

func (s *SQLiteStore) SetSystemSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_settings (setting_key, setting_value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(setting_key) DO UPDATE SET setting_value = excluded.setting_value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	if err != nil {
		return oops.With("setting_key", key).Wrap(err)
	}
	return nil
}

func (s *SQLiteStore) GetNotificationPreference(ctx context.Context, userID int64) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT setting_value FROM user_settings WHERE user_id = ? AND setting_key = ?`,
		userID, domain.UserSettingNotifyEnabled).Scan(&value)
	if err == sql.ErrNoRows {
		return true, nil // default enabled
	}
	if err != nil {
		return true, oops.With("user_id", userID).Wrap(err)
	}
	return value != "false", nil
}

func (s *SQLiteStore) SetNotificationPreference(ctx context.Context, userID int64, enabled bool) error {
	value := "true"
	if !enabled {
		value = "false"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, setting_key, setting_value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, setting_key) DO UPDATE SET setting_value = excluded.setting_value, updated_at = excluded.updated_at`,
		userID, domain.UserSettingNotifyEnabled, value, time.Now().Unix())
	if err != nil {
		return oops.With("user_id", userID).Wrap(err)
	}
	return nil
}

// ========== Dedup ledger ==========

func (s *SQLiteStore) CheckAndRecordPush(ctx context.Context, senderID, chatID int64, cooldownMinutes int) (bool, error) {
	if cooldownMinutes <= 0 {
		return true, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, oops.Wrap(err)
	}
	defer tx.Rollback()

	now := time.Now()
	var lastPush int64
	err = tx.QueryRowContext(ctx,
		`SELECT last_push_at FROM push_records WHERE user_id = ? AND chat_id = ?`,
		senderID, chatID).Scan(&lastPush)
	switch {
	case err == sql.ErrNoRows:
		// first push for this pair
	case err != nil:
		return false, oops.With("user_id", senderID, "chat_id", chatID).Wrap(err)
	default:
		elapsed := now.Sub(time.Unix(lastPush, 0))
		if elapsed < time.Duration(cooldownMinutes)*time.Minute {
			return false, nil
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO push_records (user_id, chat_id, last_push_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id, chat_id) DO UPDATE SET last_push_at = excluded.last_push_at`,
		senderID, chatID, now.Unix()); err != nil {
		return false, oops.With("user_id", senderID, "chat_id", chatID).Wrap(err)
	}

	if err := tx.Commit(); err != nil {
		return false, oops.Wrap(err)
	}
	return true, nil
}

func (s *SQLiteStore) PruneOldPushRecords(ctx context.Context, days int) error {
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	_, err := s.db.ExecContext(ctx, `DELETE FROM push_records WHERE last_push_at < ?`, cutoff)
	if err != nil {
		return oops.With("days", days).Wrap(err)
	}
	return nil
}

// ========== Matched messages ==========

func (s *SQLiteStore) SaveMatchedMessage(ctx context.Context, msg *domain.MatchedMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (chat_id, message_id, user_id, username, content, matched_keyword, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ChatID, msg.MessageID, msg.UserID, msg.Username, msg.Content, msg.MatchedKeyword, time.Now().Unix())
	if err != nil {
		return oops.With("chat_id", msg.ChatID, "message_id", msg.MessageID).Wrap(err)
	}
	return nil
}

func (s *SQLiteStore) RecentMessages(ctx context.Context, limit int) ([]domain.MatchedMessage, error) {
	return s.queryMessages(ctx,
		`SELECT id, chat_id, message_id, user_id, username, content, matched_keyword, created_at
		 FROM messages ORDER BY created_at DESC LIMIT ?`, limit)
}

func (s *SQLiteStore) MessagesBySender(ctx context.Context, userID int64, limit int) ([]domain.MatchedMessage, error) {
	return s.queryMessages(ctx,
		`SELECT id, chat_id, message_id, user_id, username, content, matched_keyword, created_at
		 FROM messages WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
}

func (s *SQLiteStore) queryMessages(ctx context.Context, query string, args ...any) ([]domain.MatchedMessage, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, oops.Wrap(err)
	}
	defer rows.Close()

	var messages []domain.MatchedMessage
	for rows.Next() {
		var m domain.MatchedMessage
		var username sql.NullString
		var created int64
		if err := rows.Scan(&m.ID, &m.ChatID, &m.MessageID, &m.UserID, &username, &m.Content, &m.MatchedKeyword, &created); err != nil {
			return nil, oops.Wrap(err)
		}
		m.Username = username.String
		m.CreatedAt = time.Unix(created, 0)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *SQLiteStore) DeleteMessage(ctx context.Context, messageID, chatID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE message_id = ? AND chat_id = ?`, messageID, chatID)
	if err != nil {
		return oops.With("message_id", messageID, "chat_id", chatID).Wrap(err)
	}
	return nil
}

// ========== Admins ==========

func (s *SQLiteStore) AddAdmin(ctx context.Context, userID int64, username, role string, addedBy int64) error {
	if role == "" {
		role = "admin"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (user_id, username, role, added_by, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET username = excluded.username, role = excluded.role`,
		userID, username, role, addedBy, time.Now().Unix())
	if err != nil {
		return oops.With("user_id", userID).Wrap(err)
	}
	return nil
}

func (s *SQLiteStore) RemoveAdmin(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admins WHERE user_id = ?`, userID)
	if err != nil {
		return oops.With("user_id", userID).Wrap(err)
	}
	return nil
}

func (s *SQLiteStore) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM admins WHERE user_id = ?`, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, oops.With("user_id", userID).Wrap(err)
	}
	return true, nil
}

func (s *SQLiteStore) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, username, role, added_by, created_at FROM admins ORDER BY created_at DESC`)
	if err != nil {
		return nil, oops.Wrap(err)
	}
	defer rows.Close()

	var admins []domain.Admin
	for rows.Next() {
		var a domain.Admin
		var username sql.NullString
		var addedBy sql.NullInt64
		var created int64
		if err := rows.Scan(&a.UserID, &username, &a.Role, &addedBy, &created); err != nil {
			return nil, oops.Wrap(err)
		}
		a.Username = username.String
		a.AddedBy = addedBy.Int64
		a.CreatedAt = time.Unix(created, 0)
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// ========== Stats ==========

func (s *SQLiteStore) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{}
	queries := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM keywords WHERE is_active = 1`, &stats.KeywordCount},
		{`SELECT COALESCE(SUM(hit_count), 0) FROM keywords`, &stats.KeywordHits},
		{`SELECT COUNT(*) FROM groups WHERE is_active = 1`, &stats.GroupCount},
		{`SELECT COALESCE(SUM(message_count), 0) FROM groups`, &stats.TotalMessages},
		{`SELECT COUNT(*) FROM messages`, &stats.MatchedMessages},
		{`SELECT COUNT(*) FROM admins`, &stats.AdminCount},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, oops.With("query", q.query).Wrap(err)
		}
	}
	return stats, nil
}
