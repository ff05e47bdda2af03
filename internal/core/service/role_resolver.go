package service

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// RoleResolver maps an authenticated identity to exactly one role. The
// backend profile role is untrusted input: it is validated against the closed
// role set and the email-domain heuristic applies on any validation failure,
// lookup error, or missing record. The heuristic never yields staff; only an
// explicit profile record can (known product asymmetry, preserved verbatim).
type RoleResolver struct {
	profiles       ports.ProfileRepository
	promoterSuffix string // e.g. "@promo.nightflow.com"
	log            zerolog.Logger

	mu    sync.Mutex
	cache map[string]domain.Role // user id -> resolved role, one entry per session lifetime
}

func NewRoleResolver(profiles ports.ProfileRepository, promoterSuffix string, log zerolog.Logger) *RoleResolver {
	return &RoleResolver{
		profiles:       profiles,
		promoterSuffix: promoterSuffix,
		log:            log,
		cache:          make(map[string]domain.Role),
	}
}

// Resolve returns the role for the session, querying the profile record at
// most once per session lifetime. Re-resolving on every read is wasteful;
// callers invoke this on session-establishment transitions only, and the
// cache keeps repeated calls cheap.
func (r *RoleResolver) Resolve(ctx context.Context, sess *domain.Session) domain.Role {
	r.mu.Lock()
	if role, ok := r.cache[sess.UserID]; ok {
		r.mu.Unlock()
		return role
	}
	r.mu.Unlock()

	role := r.lookup(ctx, sess)

	r.mu.Lock()
	r.cache[sess.UserID] = role
	r.mu.Unlock()
	return role
}

// Forget drops the cached role, to be called when the session ends so the
// next sign-in re-resolves.
func (r *RoleResolver) Forget(userID string) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
}

func (r *RoleResolver) lookup(ctx context.Context, sess *domain.Session) domain.Role {
	profile, err := r.profiles.FindByUserID(ctx, sess.UserID)
	if err == nil {
		if role, ok := domain.ParseRole(profile.Role); ok {
			return role
		}
		r.log.Debug().Str("user_id", sess.UserID).Str("raw_role", profile.Role).
			Msg("profile role missing or invalid, using email heuristic")
	} else {
		r.log.Warn().Err(err).Str("user_id", sess.UserID).
			Msg("profile lookup failed, using email heuristic")
	}

	if strings.HasSuffix(strings.ToLower(sess.Email), strings.ToLower(r.promoterSuffix)) {
		return domain.RolePromoter
	}
	return domain.RoleAdmin
}
