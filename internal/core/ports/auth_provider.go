package ports

import (
	"context"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// AuthProvider is the external identity backend the session manager delegates
// to. Implementations own token issuance and validation; the core only tracks
// the currently observed Session.
type AuthProvider interface {
	// Restore returns the currently valid session, or (nil, nil) when there
	// is none. Transport failures surface as errors; callers degrade to the
	// logged-out state rather than blocking.
	Restore(ctx context.Context) (*domain.Session, error)

	SignIn(ctx context.Context, email, password string) (*domain.Session, error)

	// SignOut invalidates the current session. Signing out twice yields
	// domain.ErrNoSession, never a crash.
	SignOut(ctx context.Context) error

	// OnChange registers for asynchronous session-change notifications
	// (sign-in elsewhere, token refresh, expiry push). The returned function
	// unregisters the listener and must be called on teardown.
	OnChange(fn func(*domain.Session)) (unsubscribe func())
}
