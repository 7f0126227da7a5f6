package domain

import "strconv"

// SupergroupChatID converts a raw supergroup/channel id into the canonical
// signed chat id by prepending the "-100" marker, e.g. 1234567890 becomes
// -1001234567890. The conversion is digit-exact: ids shorter than ten
// digits keep their length under the marker rather than being zero-padded,
// matching how the rest of the platform derives the id.
func SupergroupChatID(raw int64) int64 {
	if raw < 0 {
		raw = -raw
	}
	id, err := strconv.ParseInt("-100"+strconv.FormatInt(raw, 10), 10, 64)
	if err != nil {
		return -raw
	}
	return id
}

// BasicGroupChatID converts a raw basic-group id into its canonical
// negative form.
func BasicGroupChatID(raw int64) int64 {
	if raw < 0 {
		return raw
	}
	return -raw
}

// IsSupergroupChatID reports whether a canonical chat id carries the
// "-100" supergroup/channel marker.
func IsSupergroupChatID(chatID int64) bool {
	s := strconv.FormatInt(chatID, 10)
	return len(s) > 4 && s[:4] == "-100"
}

// StripSupergroupMarker returns the raw id for a canonical supergroup
// chat id, used when building t.me/c/ links.
func StripSupergroupMarker(chatID int64) int64 {
	s := strconv.FormatInt(chatID, 10)
	if len(s) > 4 && s[:4] == "-100" {
		raw, err := strconv.ParseInt(s[4:], 10, 64)
		if err == nil {
			return raw
		}
	}
	return chatID
}
