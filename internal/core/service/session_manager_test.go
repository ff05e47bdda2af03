package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// stubAuthProvider drives the session manager in tests. Restore can be parked
// on a gate to model slow backends racing with change notifications.
type stubAuthProvider struct {
	mu          sync.Mutex
	restoreSess *domain.Session
	restoreErr  error
	restoreGate chan struct{}
	signInErr   error
	signOutErr  error
	listeners   []func(*domain.Session)
}

func (p *stubAuthProvider) Restore(_ context.Context) (*domain.Session, error) {
	if p.restoreGate != nil {
		<-p.restoreGate
	}
	return p.restoreSess, p.restoreErr
}

func (p *stubAuthProvider) SignIn(_ context.Context, email, _ string) (*domain.Session, error) {
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	return &domain.Session{Token: "t", UserID: "u-" + email, Email: email}, nil
}

func (p *stubAuthProvider) SignOut(_ context.Context) error {
	return p.signOutErr
}

func (p *stubAuthProvider) OnChange(fn func(*domain.Session)) func() {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	idx := len(p.listeners) - 1
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		p.listeners[idx] = nil
		p.mu.Unlock()
	}
}

func (p *stubAuthProvider) push(sess *domain.Session) {
	p.mu.Lock()
	listeners := append(make([]func(*domain.Session), 0, len(p.listeners)), p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		if fn != nil {
			fn(sess)
		}
	}
}

func TestSessionManager_RestoreFailureStartsLoggedOut(t *testing.T) {
	provider := &stubAuthProvider{restoreErr: errors.New("backend unreachable")}
	m := NewSessionManager(provider, zerolog.Nop())

	m.Start(context.Background())
	if m.Current() != nil {
		t.Errorf("expected logged-out state after restore failure")
	}
}

func TestSessionManager_RestoreYieldsSession(t *testing.T) {
	provider := &stubAuthProvider{restoreSess: &domain.Session{UserID: "u1", Email: "a@b.c"}}
	m := NewSessionManager(provider, zerolog.Nop())

	m.Start(context.Background())
	if cur := m.Current(); cur == nil || cur.UserID != "u1" {
		t.Errorf("restored session not applied: %+v", cur)
	}
}

func TestSessionManager_RestoreNotifiesSubscribers(t *testing.T) {
	provider := &stubAuthProvider{restoreSess: &domain.Session{UserID: "u1", Email: "a@b.c"}}
	m := NewSessionManager(provider, zerolog.Nop())

	var seen []*domain.Session
	m.Subscribe(func(s *domain.Session) {
		seen = append(seen, s)
	})

	m.Start(context.Background())
	if len(seen) != 1 {
		t.Fatalf("subscriber fired %d times, want 1", len(seen))
	}
	if seen[0] == nil || seen[0].UserID != "u1" {
		t.Errorf("subscriber saw %+v, want restored session u1", seen[0])
	}
}

func TestSessionManager_ChangeNotificationSupersedesSlowRestore(t *testing.T) {
	gate := make(chan struct{})
	provider := &stubAuthProvider{
		restoreSess: &domain.Session{UserID: "stale"},
		restoreGate: gate,
	}
	m := NewSessionManager(provider, zerolog.Nop())

	started := make(chan struct{})
	go func() {
		close(started)
		m.Start(context.Background())
	}()
	<-started

	// A change notification lands while restore is still pending.
	fresh := &domain.Session{UserID: "fresh"}
	for {
		provider.mu.Lock()
		registered := len(provider.listeners) == 1
		provider.mu.Unlock()
		if registered {
			break
		}
	}
	provider.push(fresh)

	close(gate) // restore now resolves with the stale session

	// Last-observed wins: the stale restore result must not clobber it.
	for i := 0; i < 100; i++ {
		if cur := m.Current(); cur != nil && cur.UserID == "fresh" {
			return
		}
	}
	t.Errorf("stale restore result overwrote a newer change notification: %+v", m.Current())
}

func TestSessionManager_SignOutTwiceIsNoSessionError(t *testing.T) {
	provider := &stubAuthProvider{}
	m := NewSessionManager(provider, zerolog.Nop())

	if _, err := m.SignIn(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if err := m.SignOut(context.Background()); err != nil {
		t.Fatalf("first sign out failed: %v", err)
	}
	if err := m.SignOut(context.Background()); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("second sign out = %v, want ErrNoSession", err)
	}
}

func TestSessionManager_SubscribersSeeTransitions(t *testing.T) {
	provider := &stubAuthProvider{}
	m := NewSessionManager(provider, zerolog.Nop())
	m.Start(context.Background())

	var observed []*domain.Session
	m.Subscribe(func(s *domain.Session) { observed = append(observed, s) })

	if _, err := m.SignIn(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if err := m.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}

	if len(observed) != 2 {
		t.Fatalf("observed %d transitions, want 2", len(observed))
	}
	if observed[0] == nil || observed[1] != nil {
		t.Errorf("transitions out of order: %+v", observed)
	}
}

func TestSessionManager_StopUnregistersListener(t *testing.T) {
	provider := &stubAuthProvider{}
	m := NewSessionManager(provider, zerolog.Nop())
	m.Start(context.Background())
	m.Stop()

	provider.push(&domain.Session{UserID: "ghost"})
	if m.Current() != nil {
		t.Errorf("change delivered after Stop")
	}
}
