package domain

import "time"

//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

// SenderRole is the sender's standing within the originating chat. Only
// the listener path can resolve it; the bot path leaves it unknown.
// ENUM(unknown,member,admin,creator)
type SenderRole string

// ChannelPolicy selects how the classification engine treats traffic from
// a chat that is not yet in the monitored set. The bot path auto-admits
// because the bot was explicitly added to the group; the listener path is
// strict because a user account sees far more chats than it should watch.
// ENUM(auto_admit,strict)
type ChannelPolicy string

// IncomingMessage is the canonical unit fed to classification, already
// normalized by an ingestion adapter. Immutable once constructed.
type IncomingMessage struct {
	ChatID         int64
	ChatTitle      string
	ChatUsername   string
	MessageID      int64
	SenderID       int64
	SenderUsername string
	SenderName     string
	Text           string
	Date           time.Time
	SenderRole     SenderRole
}

// MatchEvent carries one keyword hit to the notification fan-out. It is
// ephemeral and owned by the fan-out for the duration of delivery.
type MatchEvent struct {
	Message IncomingMessage
	Keyword string
}
