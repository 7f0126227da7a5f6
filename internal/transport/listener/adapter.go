package listener

import (
	"context"
	"log/slog"
	"strings"

	monitorDomain "github.com/telewatch/telewatch/internal/modules/monitor/domain"
	monitorService "github.com/telewatch/telewatch/internal/modules/monitor/service"
	sessionDomain "github.com/telewatch/telewatch/internal/modules/session/domain"
	sessionService "github.com/telewatch/telewatch/internal/modules/session/service"
)

// Adapter bridges raw listener events into the classification pipeline.
// It runs strict: unknown chats are never auto-admitted, and keyword
// evaluation uses the system-wide match mode.
type Adapter struct {
	transport sessionService.Transport
	engine    *monitorService.Engine
}

func NewAdapter(transport sessionService.Transport, engine *monitorService.Engine) *Adapter {
	return &Adapter{transport: transport, engine: engine}
}

// Run consumes events until the context is cancelled or the transport
// closes its event channel.
func (a *Adapter) Run(ctx context.Context) {
	slog.Info("Listener adapter started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("Listener adapter stopped")
			return
		case event, ok := <-a.transport.Events():
			if !ok {
				slog.Info("Listener event channel closed")
				return
			}
			a.handle(ctx, event)
		}
	}
}

func (a *Adapter) handle(ctx context.Context, event sessionDomain.RawEvent) {
	// Private chats carry neither flag; only group and channel traffic is
	// classified.
	if !event.Chat.IsGroup && !event.Chat.IsChannel {
		return
	}
	if strings.TrimSpace(event.Text) == "" {
		return
	}
	if event.Sender == nil || event.Sender.IsBot {
		return
	}

	chatID := event.Chat.CanonicalChatID()

	// Messages from the chat owner or its admins never trigger alerts.
	// If the role lookup fails we proceed as if the sender were a regular
	// member rather than dropping the message.
	role, err := a.transport.MemberRole(ctx, event.Chat.ID, event.Sender.ID)
	if err != nil {
		slog.Warn("Member role lookup failed", "chat_id", chatID, "user_id", event.Sender.ID, "error", err)
		role = monitorDomain.SenderRoleUnknown
	}
	if role == monitorDomain.SenderRoleAdmin || role == monitorDomain.SenderRoleCreator {
		return
	}

	msg := &monitorDomain.IncomingMessage{
		ChatID:         chatID,
		ChatTitle:      event.Chat.Title,
		ChatUsername:   event.Chat.Username,
		MessageID:      event.MessageID,
		SenderID:       event.Sender.ID,
		SenderUsername: event.Sender.Username,
		SenderName:     senderName(event.Sender),
		Text:           event.Text,
		Date:           event.Date,
		SenderRole:     role,
	}

	a.engine.Classify(ctx, msg, monitorService.Options{
		ChannelPolicy: monitorDomain.ChannelPolicyStrict,
	})
}

func senderName(s *sessionDomain.SenderInfo) string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name == "" {
		return s.Username
	}
	return name
}
