package listener

import (
	"context"
	"errors"

	monitorDomain "github.com/telewatch/telewatch/internal/modules/monitor/domain"
	"github.com/telewatch/telewatch/internal/modules/session/domain"
	sessionService "github.com/telewatch/telewatch/internal/modules/session/service"
)

// ErrTransportUnavailable is returned by the placeholder transport when no
// MTProto client has been linked into the build.
var ErrTransportUnavailable = errors.New("listener transport not configured: link an MTProto client and set listener_api_id/listener_api_hash")

// unconfigured satisfies the transport contract without a real client so
// the bot-only deployment keeps working. Every session operation fails
// with ErrTransportUnavailable and no events are ever delivered.
type unconfigured struct{}

// NewUnconfiguredTransport returns the placeholder transport.
func NewUnconfiguredTransport() sessionService.Transport {
	return unconfigured{}
}

func (unconfigured) Connect(context.Context) error    { return ErrTransportUnavailable }
func (unconfigured) Disconnect() error                { return nil }
func (unconfigured) IsConnected() bool                { return false }
func (unconfigured) IsAuthorized(context.Context) (bool, error) {
	return false, ErrTransportUnavailable
}

func (unconfigured) SendCode(context.Context, string) (string, error) {
	return "", ErrTransportUnavailable
}

func (unconfigured) SignInCode(context.Context, string, string, string) error {
	return ErrTransportUnavailable
}

func (unconfigured) SignInPassword(context.Context, string) error {
	return ErrTransportUnavailable
}

func (unconfigured) Me(context.Context) (*domain.Identity, error) {
	return nil, ErrTransportUnavailable
}

func (unconfigured) Dialogs(context.Context) ([]domain.ChatInfo, error) {
	return nil, ErrTransportUnavailable
}

func (unconfigured) JoinPublic(context.Context, string) (*domain.ChatInfo, error) {
	return nil, ErrTransportUnavailable
}

func (unconfigured) JoinInvite(context.Context, string) (*domain.ChatInfo, error) {
	return nil, ErrTransportUnavailable
}

func (unconfigured) Leave(context.Context, int64) error { return ErrTransportUnavailable }
func (unconfigured) CatchUp(context.Context) error      { return ErrTransportUnavailable }

func (unconfigured) MemberRole(context.Context, int64, int64) (monitorDomain.SenderRole, error) {
	return monitorDomain.SenderRoleUnknown, ErrTransportUnavailable
}

// Events returns a nil channel; receiving from it blocks forever, which is
// exactly what the adapter loop wants when there is nothing to deliver.
func (unconfigured) Events() <-chan domain.RawEvent { return nil }
