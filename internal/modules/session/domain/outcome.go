package domain

import (
	"errors"
	"fmt"
	"time"

	monitorDomain "github.com/telewatch/telewatch/internal/modules/monitor/domain"
)

// Sentinel errors surfaced by the session manager and transport adapters.
var (
	ErrWrongState        = errors.New("operation not allowed in current session state")
	ErrTwoFactorRequired = errors.New("two-factor password required")
	ErrCodeInvalid       = errors.New("login code invalid")
	ErrCodeExpired       = errors.New("login code expired")
	ErrAlreadyMember     = errors.New("already a member of the chat")
	ErrInviteInvalid     = errors.New("invite link invalid")
	ErrInviteExpired     = errors.New("invite link expired")
	ErrChannelPrivate    = errors.New("channel is private")
	ErrAdminRequired     = errors.New("admin approval required to join")
)

// RateLimitedError reports a server-side flood wait with the mandated pause.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// Identity describes the account behind the listener session.
type Identity struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
}

// ChatInfo is a chat as the listener transport sees it: the ID is the raw
// positive identifier, not the bot-API form.
type ChatInfo struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Username string `json:"username"`
	// Exactly one of IsGroup/IsChannel is set for classifiable chats;
	// both false means a private chat.
	IsGroup   bool `json:"is_group"`
	IsChannel bool `json:"is_channel"`
}

// CanonicalChatID converts the raw transport identifier into the bot-API
// chat id used everywhere else in the system.
func (c ChatInfo) CanonicalChatID() int64 {
	if c.IsChannel {
		return monitorDomain.SupergroupChatID(c.ID)
	}
	return monitorDomain.BasicGroupChatID(c.ID)
}

// SenderInfo identifies the author of a raw listener event.
type SenderInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsBot     bool   `json:"is_bot"`
}

// RawEvent is one new-message event emitted by the listener transport.
type RawEvent struct {
	Chat      ChatInfo    `json:"chat"`
	MessageID int64       `json:"message_id"`
	Sender    *SenderInfo `json:"sender"`
	Text      string      `json:"text"`
	Date      time.Time   `json:"date"`
}

// JoinResult is the outcome of a join-by-link attempt.
type JoinResult struct {
	Outcome    JoinOutcome   `json:"outcome"`
	Message    string        `json:"message"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
	Chat       *ChatInfo     `json:"chat,omitempty"`
}
