//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// MatchType is the per-entry comparison stored with each keyword or
// blacklist entry. Only the bot ingestion path consults it; the listener
// path uses the system-wide MatchMode instead. Both are kept because the
// stored data carries both.
// ENUM(contains,exact,startswith)
type MatchType string

// MatchMode is the system-wide comparison policy applied uniformly at
// decision time. "fuzzy" means substring containment.
// ENUM(exact,fuzzy)
type MatchMode string
