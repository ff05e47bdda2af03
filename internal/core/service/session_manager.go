package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// SessionManager owns the current authentication state for one loaded client
// instance. The last-observed session always wins: change notifications that
// arrive after the startup restore supersede its result.
type SessionManager struct {
	provider ports.AuthProvider
	log      zerolog.Logger

	mu        sync.Mutex
	current   *domain.Session
	seq       uint64 // bumps on every observed change; restore only applies at seq it started with
	listeners []func(*domain.Session)
	unsub     func()
}

func NewSessionManager(provider ports.AuthProvider, log zerolog.Logger) *SessionManager {
	return &SessionManager{provider: provider, log: log}
}

// Start registers with the provider's change channel and performs the one
// startup restore. It never returns an error: failure to reach the backend
// resolves to the logged-out state.
func (m *SessionManager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.unsub == nil {
		m.unsub = m.provider.OnChange(m.observe)
	}
	startSeq := m.seq
	m.mu.Unlock()

	sess, err := m.provider.Restore(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("session restore failed, starting logged out")
		return
	}

	m.mu.Lock()
	// A change notification raced ahead of the restore; it wins.
	if m.seq != startSeq {
		m.mu.Unlock()
		return
	}
	m.applyLocked(sess)
	listeners := append(make([]func(*domain.Session), 0, len(m.listeners)), m.listeners...)
	m.mu.Unlock()

	// Restored sessions fan out like any other transition, so listeners
	// registered before Start see the initial state.
	for _, fn := range listeners {
		fn(sess)
	}
}

// Stop unregisters the provider change listener.
func (m *SessionManager) Stop() {
	m.mu.Lock()
	unsub := m.unsub
	m.unsub = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Current returns the session last observed, or nil when logged out.
func (m *SessionManager) Current() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe registers a session-transition listener. Listeners fire on every
// observed change, including the transition to logged out.
func (m *SessionManager) Subscribe(fn func(*domain.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// SignIn delegates to the provider. Tenant scoping is enforced server-side by
// the tenant id embedded in the issued session.
func (m *SessionManager) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	m.observe(sess)
	return sess, nil
}

// SignOut invalidates the session. A second call observes "already no
// session" and returns domain.ErrNoSession.
func (m *SessionManager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	logged := m.current != nil
	m.mu.Unlock()
	if !logged {
		return domain.ErrNoSession
	}

	if err := m.provider.SignOut(ctx); err != nil {
		return err
	}
	m.observe(nil)
	return nil
}

// observe applies a session change and fans it out to listeners.
func (m *SessionManager) observe(sess *domain.Session) {
	m.mu.Lock()
	m.applyLocked(sess)
	listeners := make([]func(*domain.Session), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(sess)
	}
}

func (m *SessionManager) applyLocked(sess *domain.Session) {
	m.seq++
	m.current = sess
}
