// Package auth implements the identity backend: bcrypt credential checks,
// HS256 token issuance, and a Redis-backed revocation list so sign-out takes
// effect before token expiry.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// UserStore is the account surface the provider needs.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Revocations tracks tokens invalidated before their natural expiry.
type Revocations interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Provider implements ports.AuthProvider against the user store and the
// revocation list. It holds the currently observed session and fans out
// change notifications to registered listeners.
type Provider struct {
	users       UserStore
	revocations Revocations
	jwtSecret   string
	tokenTTL    time.Duration
	log         zerolog.Logger

	mu        sync.Mutex
	current   *domain.Session
	nextID    int
	listeners map[int]func(*domain.Session)
}

func NewProvider(users UserStore, revocations Revocations, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *Provider {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Provider{
		users:       users,
		revocations: revocations,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		log:         log,
		listeners:   make(map[int]func(*domain.Session)),
	}
}

// Register creates an account with a bcrypt-hashed password.
func (p *Provider) Register(ctx context.Context, email, password, tenantID string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return p.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		TenantID:     tenantID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// SignIn verifies credentials, issues a token, and publishes the new session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := p.generateToken(user)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{Token: token, UserID: user.ID, Email: user.Email}
	p.publish(session)
	return session, nil
}

// SignOut revokes the current token for its remaining lifetime and publishes
// the logged-out state. A second call finds no session and reports that.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	session := p.current
	p.mu.Unlock()
	if session == nil {
		return domain.ErrNoSession
	}

	ttl := p.remainingLifetime(session.Token)
	if err := p.revocations.Revoke(ctx, session.Token, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	p.publish(nil)
	return nil
}

// Restore revalidates the currently held session, if any. An expired or
// revoked token degrades to the logged-out state rather than an error; only
// the revocation backend failing is surfaced.
func (p *Provider) Restore(ctx context.Context) (*domain.Session, error) {
	p.mu.Lock()
	session := p.current
	p.mu.Unlock()
	if session == nil {
		return nil, nil
	}

	if _, err := p.parseToken(session.Token); err != nil {
		p.publish(nil)
		return nil, nil
	}

	revoked, err := p.revocations.IsRevoked(ctx, session.Token)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if revoked {
		p.publish(nil)
		return nil, nil
	}
	return session, nil
}

// OnChange registers a listener for session transitions. The returned
// function unregisters it.
func (p *Provider) OnChange(fn func(*domain.Session)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// Verify parses and validates a bearer token, checks the revocation list, and
// returns the corresponding session. Used by the API middleware.
func (p *Provider) Verify(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := p.parseToken(token)
	if err != nil {
		return nil, domain.ErrSessionExpired
	}

	revoked, err := p.revocations.IsRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if revoked {
		return nil, domain.ErrSessionExpired
	}

	userID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	return &domain.Session{Token: token, UserID: userID, Email: email}, nil
}

func (p *Provider) publish(session *domain.Session) {
	p.mu.Lock()
	p.current = session
	fns := make([]func(*domain.Session), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
}

func (p *Provider) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"email":     user.Email,
		"tenant_id": user.TenantID,
		"exp":       time.Now().Add(p.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(p.jwtSecret))
}

func (p *Provider) parseToken(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(p.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrSessionExpired
	}
	return claims, nil
}

func (p *Provider) remainingLifetime(token string) time.Duration {
	claims, err := p.parseToken(token)
	if err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return time.Until(exp.Time)
}
