package ports

import (
	"context"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// Completion is the structured result of one upsell-engine call.
type Completion struct {
	Message    string
	Suggestion domain.UpsellSuggestion
}

// Completer is the hosted language-model collaborator. Implementations are
// contracted to always return a usable Completion: on any underlying failure
// they degrade to a fallback assistant message instead of returning an error.
type Completer interface {
	Complete(ctx context.Context, userText string) (Completion, error)
}
