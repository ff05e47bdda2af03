package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// referralParam is the query parameter carrying the promoter referral code on
// shared links.
const referralParam = "ref"

// ReferralTracker captures a referral code from the load URL and persists it
// for later sale attribution. Capture runs once per load regardless of
// session state: a shared link must attribute even for visitors who have not
// logged in yet.
type ReferralTracker struct {
	store    ports.ReferralStore
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewReferralTracker(store ports.ReferralStore, notifier ports.Notifier, log zerolog.Logger) *ReferralTracker {
	return &ReferralTracker{store: store, notifier: notifier, log: log}
}

// Capture inspects rawURL for the referral parameter. When present the code
// is persisted under the fixed key, overwriting any previous value, and a
// confirmation notification is raised. Returns the captured code, or "" when
// the URL carries none.
func (t *ReferralTracker) Capture(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("referral capture: %w", err)
	}

	code := u.Query().Get(referralParam)
	if code == "" {
		return "", nil
	}

	if err := t.store.Save(ctx, code); err != nil {
		return "", fmt.Errorf("referral capture: %w", err)
	}

	t.log.Info().Str("ref_code", code).Msg("referral code captured")
	t.notifier.Notify(fmt.Sprintf("Referral %s applied to this visit", code))
	return code, nil
}

// Stored returns the last persisted referral code, or "" when none exists.
func (t *ReferralTracker) Stored(ctx context.Context) string {
	code, err := t.store.Load(ctx)
	if err != nil {
		t.log.Warn().Err(err).Msg("referral lookup failed")
		return ""
	}
	return code
}
