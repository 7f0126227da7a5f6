package domain

// System setting keys. Values are stored as strings in a key/value table;
// booleans are "true"/"false", durations are decimal minutes.
const (
	SettingPushEnabled       = "push_enabled"
	SettingKeywordMatchMode  = "keyword_match_mode"
	SettingBlacklistMode     = "blacklist_match_mode"
	SettingNoRepeatDuration  = "no_repeat_duration"
	SettingFilterAdUsers     = "filter_ad_users"
	SettingAttachHistory     = "attach_search_history"
)

// Per-user setting keys.
const (
	UserSettingNotifyEnabled = "notify_enabled"
)

// DefaultSystemSettings seeds the settings table on first run.
var DefaultSystemSettings = map[string]string{
	SettingPushEnabled:      "true",
	SettingKeywordMatchMode: string(MatchModeFuzzy),
	SettingBlacklistMode:    string(MatchModeExact),
	SettingNoRepeatDuration: "0",
	SettingFilterAdUsers:    "false",
	SettingAttachHistory:    "false",
}
