package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"

	monitorDomain "github.com/telewatch/telewatch/internal/modules/monitor/domain"
	"github.com/telewatch/telewatch/internal/modules/rules/repository"
	"github.com/telewatch/telewatch/internal/modules/session/domain"
	"github.com/telewatch/telewatch/internal/shared/config"
)

// Transport is the MTProto client behind the listener session. The concrete
// client is injected at wiring time; everything in this package talks to it
// through this contract only.
type Transport interface {
	Connect(ctx context.Context) error
	Disconnect() error
	IsConnected() bool
	IsAuthorized(ctx context.Context) (bool, error)

	// SendCode asks the server to deliver a login code to the phone and
	// returns the code hash needed to redeem it.
	SendCode(ctx context.Context, phone string) (string, error)
	// SignInCode redeems a login code. It returns ErrTwoFactorRequired when
	// the account has a cloud password, ErrCodeInvalid or ErrCodeExpired on
	// bad input.
	SignInCode(ctx context.Context, phone, codeHash, code string) error
	SignInPassword(ctx context.Context, password string) error
	Me(ctx context.Context) (*domain.Identity, error)

	// Dialogs lists the group and channel chats the account is a member of.
	Dialogs(ctx context.Context) ([]domain.ChatInfo, error)
	JoinPublic(ctx context.Context, username string) (*domain.ChatInfo, error)
	JoinInvite(ctx context.Context, hash string) (*domain.ChatInfo, error)
	// Leave takes the raw chat identifier, not the bot-API form.
	Leave(ctx context.Context, chatID int64) error

	// CatchUp replays updates missed while offline.
	CatchUp(ctx context.Context) error
	MemberRole(ctx context.Context, chatID, userID int64) (monitorDomain.SenderRole, error)
	// Events delivers new-message events for as long as the transport is
	// connected. The channel is owned by the transport. Events from
	// private chats may be delivered; the adapter filters on the chat
	// flags, so transports need not pre-filter.
	Events() <-chan domain.RawEvent
}

// Manager drives the listener session through its login and listening
// lifecycle. All state transitions go through the mutex; operations invoked
// in a state they are not valid for return domain.ErrWrongState without
// changing anything.
type Manager struct {
	cfg       *config.Config
	store     repository.Store
	transport Transport

	mu       sync.Mutex
	state    domain.State
	codeHash string
	identity *domain.Identity

	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(cfg *config.Config, store repository.Store, transport Transport) *Manager {
	return &Manager{
		cfg:       cfg,
		store:     store,
		transport: transport,
		state:     domain.StateDisconnected,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthorized reports whether the session holds valid credentials.
func (m *Manager) IsAuthorized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == domain.StateAuthorized || m.state == domain.StateListening
}

// IsListening reports whether the keepalive supervisor is running.
func (m *Manager) IsListening() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == domain.StateListening
}

// CurrentIdentity returns the account identity, or nil before authorization.
func (m *Manager) CurrentIdentity() *domain.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// RequestLoginCode connects the transport and asks for a login code. If the
// stored session is still authorized no code is needed and the manager goes
// straight to Authorized. Allowed from Disconnected, Failed and AwaitingCode
// (the latter re-sends the code).
func (m *Manager) RequestLoginCode(ctx context.Context) (domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case domain.StateDisconnected, domain.StateFailed, domain.StateAwaitingCode:
	default:
		return m.state, oops.With("state", m.state.String()).Wrap(domain.ErrWrongState)
	}

	m.state = domain.StateConnecting
	if err := m.transport.Connect(ctx); err != nil {
		m.state = domain.StateFailed
		return m.state, oops.With("context", "connecting listener transport").Wrap(err)
	}

	authorized, err := m.transport.IsAuthorized(ctx)
	if err != nil {
		m.state = domain.StateFailed
		return m.state, oops.Wrap(err)
	}
	if authorized {
		m.identity, err = m.transport.Me(ctx)
		if err != nil {
			slog.Warn("Failed to fetch listener identity", "error", err)
		}
		m.state = domain.StateAuthorized
		slog.Info("Listener session restored from saved credentials")
		return m.state, nil
	}

	codeHash, err := m.transport.SendCode(ctx, m.cfg.ListenerPhone)
	if err != nil {
		m.state = domain.StateFailed
		return m.state, oops.With("context", "requesting login code").Wrap(err)
	}
	m.codeHash = codeHash
	m.state = domain.StateAwaitingCode
	slog.Info("Login code sent", "phone", m.cfg.ListenerPhone)
	return m.state, nil
}

// SubmitCode redeems the login code. A two-factor-protected account moves to
// AwaitingTwoFactor; that is a normal transition, not an error. A bad or
// expired code keeps the manager in AwaitingCode so the user can retry.
func (m *Manager) SubmitCode(ctx context.Context, code string) (domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != domain.StateAwaitingCode {
		return m.state, oops.With("state", m.state.String()).Wrap(domain.ErrWrongState)
	}

	err := m.transport.SignInCode(ctx, m.cfg.ListenerPhone, m.codeHash, code)
	switch {
	case err == nil:
		m.codeHash = ""
		m.authorizeLocked(ctx)
		return m.state, nil
	case errors.Is(err, domain.ErrTwoFactorRequired):
		m.state = domain.StateAwaitingTwoFactor
		return m.state, nil
	case errors.Is(err, domain.ErrCodeInvalid), errors.Is(err, domain.ErrCodeExpired):
		return m.state, err
	default:
		m.state = domain.StateFailed
		return m.state, oops.With("context", "signing in with code").Wrap(err)
	}
}

// SubmitTwoFactor completes a cloud-password login. A wrong password keeps
// the manager in AwaitingTwoFactor.
func (m *Manager) SubmitTwoFactor(ctx context.Context, password string) (domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != domain.StateAwaitingTwoFactor {
		return m.state, oops.With("state", m.state.String()).Wrap(domain.ErrWrongState)
	}

	if err := m.transport.SignInPassword(ctx, password); err != nil {
		return m.state, oops.With("context", "two-factor sign in").Wrap(err)
	}
	m.authorizeLocked(ctx)
	return m.state, nil
}

func (m *Manager) authorizeLocked(ctx context.Context) {
	identity, err := m.transport.Me(ctx)
	if err != nil {
		slog.Warn("Failed to fetch listener identity", "error", err)
	} else {
		m.identity = identity
	}
	m.state = domain.StateAuthorized
	slog.Info("Listener session authorized",
		"user_id", identityID(m.identity))
}

func identityID(id *domain.Identity) int64 {
	if id == nil {
		return 0
	}
	return id.ID
}

// StartListening starts the keepalive supervisor. Calling it while already
// listening is a no-op. Missed updates are replayed on a best-effort basis
// before the supervisor starts.
func (m *Manager) StartListening(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == domain.StateListening {
		return nil
	}
	if m.state != domain.StateAuthorized {
		return oops.With("state", m.state.String()).Wrap(domain.ErrWrongState)
	}

	if err := m.transport.CatchUp(ctx); err != nil {
		slog.Warn("Catch-up of missed updates failed", "error", err)
	}

	superCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.keepalive(superCtx, m.done)

	m.state = domain.StateListening
	slog.Info("Listener started", "keepalive_interval", m.cfg.KeepaliveInterval)
	return nil
}

// StopListening stops the keepalive supervisor and waits for it to exit.
// The session stays authorized.
func (m *Manager) StopListening(ctx context.Context) error {
	m.mu.Lock()
	if m.state != domain.StateListening {
		m.mu.Unlock()
		return oops.With("state", m.state.String()).Wrap(domain.ErrWrongState)
	}
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.state = domain.StateAuthorized
	m.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-ctx.Done():
		return oops.With("context", "waiting for listener supervisor to stop").Wrap(ctx.Err())
	}
	slog.Info("Listener stopped")
	return nil
}

// keepalive periodically verifies the transport connection and reconnects
// if it dropped. A reconnect failure is logged and retried on the next tick;
// the supervisor never exits on its own.
func (m *Manager) keepalive(ctx context.Context, done chan struct{}) {
	defer close(done)

	interval := time.Duration(m.cfg.KeepaliveInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.transport.IsConnected() {
				continue
			}
			slog.Warn("Listener transport disconnected, reconnecting")
			if err := m.transport.Connect(ctx); err != nil {
				slog.Error("Listener reconnect failed", "error", err)
				continue
			}
			if err := m.transport.CatchUp(ctx); err != nil {
				slog.Warn("Catch-up after reconnect failed", "error", err)
			}
			slog.Info("Listener transport reconnected")
		}
	}
}

// SyncChannels walks the account's dialogs and admits every group or channel
// into the monitored set, refreshing titles for ones already known. It
// returns how many chats were added and how many updated.
func (m *Manager) SyncChannels(ctx context.Context) (added, updated int, err error) {
	if !m.IsAuthorized() {
		return 0, 0, oops.With("state", m.State().String()).Wrap(domain.ErrWrongState)
	}

	dialogs, err := m.transport.Dialogs(ctx)
	if err != nil {
		return 0, 0, oops.With("context", "listing dialogs").Wrap(err)
	}

	for _, chat := range dialogs {
		chatID := chat.CanonicalChatID()
		known, err := m.store.IsChannelMonitored(ctx, chatID)
		if err != nil {
			slog.Error("Failed to look up monitored channel", "chat_id", chatID, "error", err)
			continue
		}
		if err := m.store.UpsertMonitoredChannel(ctx, chatID, chat.Title, chat.Username); err != nil {
			slog.Error("Failed to upsert monitored channel", "chat_id", chatID, "error", err)
			continue
		}
		if known {
			updated++
		} else {
			added++
		}
	}

	slog.Info("Channel sync finished", "added", added, "updated", updated)
	return added, updated, nil
}

// JoinByInviteLink joins the chat behind a t.me link and admits it into the
// monitored set. Expected transport failures are folded into the JoinResult
// outcome; the error return is reserved for wrong-state and transport-level
// faults.
func (m *Manager) JoinByInviteLink(ctx context.Context, link string) (*domain.JoinResult, error) {
	if !m.IsAuthorized() {
		return nil, oops.With("state", m.State().String()).Wrap(domain.ErrWrongState)
	}

	parsed, ok := domain.ParseInviteLink(link)
	if !ok {
		return &domain.JoinResult{
			Outcome: domain.JoinOutcomeInvalidLink,
			Message: "unrecognized link format",
		}, nil
	}

	var (
		chat *domain.ChatInfo
		err  error
	)
	if parsed.Kind == domain.LinkKindPublic {
		chat, err = m.transport.JoinPublic(ctx, parsed.Target)
	} else {
		chat, err = m.transport.JoinInvite(ctx, parsed.Target)
	}
	if err != nil {
		return joinFailure(err), nil
	}

	result := &domain.JoinResult{Outcome: domain.JoinOutcomeJoined, Chat: chat}
	if chat != nil {
		chatID := chat.CanonicalChatID()
		if err := m.store.UpsertMonitoredChannel(ctx, chatID, chat.Title, chat.Username); err != nil {
			slog.Error("Joined chat but failed to admit it", "chat_id", chatID, "error", err)
		}
		slog.Info("Joined chat via link", "chat_id", chatID, "title", chat.Title)
	}
	return result, nil
}

func joinFailure(err error) *domain.JoinResult {
	var rateLimited *domain.RateLimitedError
	switch {
	case errors.Is(err, domain.ErrAlreadyMember):
		return &domain.JoinResult{Outcome: domain.JoinOutcomeAlreadyMember, Message: err.Error()}
	case errors.Is(err, domain.ErrInviteInvalid):
		return &domain.JoinResult{Outcome: domain.JoinOutcomeInvalidLink, Message: err.Error()}
	case errors.Is(err, domain.ErrInviteExpired):
		return &domain.JoinResult{Outcome: domain.JoinOutcomeExpiredLink, Message: err.Error()}
	case errors.Is(err, domain.ErrChannelPrivate):
		return &domain.JoinResult{Outcome: domain.JoinOutcomePrivateNoAccess, Message: err.Error()}
	case errors.Is(err, domain.ErrAdminRequired):
		return &domain.JoinResult{Outcome: domain.JoinOutcomeAdminRequired, Message: err.Error()}
	case errors.As(err, &rateLimited):
		return &domain.JoinResult{
			Outcome:    domain.JoinOutcomeRateLimited,
			Message:    err.Error(),
			RetryAfter: rateLimited.RetryAfter,
		}
	default:
		return &domain.JoinResult{Outcome: domain.JoinOutcomeFailed, Message: err.Error()}
	}
}

// LeaveChannel leaves the chat and deactivates it in the monitored set.
// The chat ID is the bot-API form used everywhere else.
func (m *Manager) LeaveChannel(ctx context.Context, chatID int64) error {
	if !m.IsAuthorized() {
		return oops.With("state", m.State().String()).Wrap(domain.ErrWrongState)
	}

	if err := m.transport.Leave(ctx, monitorDomain.StripSupergroupMarker(chatID)); err != nil {
		return oops.With("chat_id", chatID).Wrap(err)
	}
	if err := m.store.RemoveGroup(ctx, chatID); err != nil {
		slog.Error("Left chat but failed to deactivate it", "chat_id", chatID, "error", err)
	}
	slog.Info("Left chat", "chat_id", chatID)
	return nil
}

// Shutdown stops listening if needed and disconnects the transport.
func (m *Manager) Shutdown(ctx context.Context) error {
	if m.IsListening() {
		if err := m.StopListening(ctx); err != nil {
			slog.Warn("Failed to stop listener cleanly", "error", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == domain.StateDisconnected {
		return nil
	}
	m.state = domain.StateDisconnected
	return m.transport.Disconnect()
}
