package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/pkg/metrics"
	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

const chatGreeting = "Hi! I'm the NightFlow upsell engine. How can I help with tonight's orders?"

// SaleCommitter is the unified commit path confirmed suggestions funnel into.
// Both the chat flow and the entrance direct-sale flow converge here, so the
// live feed remains the single channel that moves the metrics snapshot.
type SaleCommitter interface {
	CommitSale(ctx context.Context, amount float64, saleType domain.SaleType) error
}

// ChatSession holds one ordered, append-only upsell conversation. A single
// model request is in flight at a time; overlapping sends are rejected, not
// queued. History is discarded with the session.
type ChatSession struct {
	completer ports.Completer
	committer SaleCommitter
	log       zerolog.Logger

	mu       sync.Mutex
	messages []domain.ChatMessage
	busy     bool
}

func NewChatSession(completer ports.Completer, committer SaleCommitter, log zerolog.Logger) *ChatSession {
	s := &ChatSession{completer: completer, committer: committer, log: log}
	s.messages = append(s.messages, domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.ChatRoleAssistant,
		Content:   chatGreeting,
		Timestamp: time.Now().UTC(),
	})
	return s
}

// Send appends the user message, invokes the completion engine, and appends
// the assistant reply with any upsell metadata. Blank input and calls made
// while a prior request is outstanding are rejected with the list unchanged.
// The completer is contracted to degrade to a fallback message on failure, so
// the conversation never shows a raw error.
func (s *ChatSession) Send(ctx context.Context, text string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, domain.ErrChatBusy
	}
	s.busy = true
	s.messages = append(s.messages, domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.ChatRoleUser,
		Content:   text,
		Timestamp: time.Now().UTC(),
	})
	s.mu.Unlock()

	metrics.ChatRequestsTotal.Inc()
	start := time.Now()
	result, err := s.completer.Complete(ctx, text)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ChatCompletionDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		// The completer contract forbids surfacing errors; substitute the
		// fallback locally if an implementation returns one anyway.
		s.log.Error().Err(err).Msg("completer returned an error despite fallback contract")
		result = ports.Completion{Message: "I hit a short processing delay. Could you repeat your order?"}
	}

	reply := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.ChatRoleAssistant,
		Content:   result.Message,
		Timestamp: time.Now().UTC(),
	}
	if result.Suggestion.Suggested {
		suggestion := result.Suggestion
		reply.Suggestion = &suggestion
	}

	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.busy = false
	s.mu.Unlock()
	return &reply, nil
}

// ConfirmSuggestion commits the suggested upsell as a sale and appends a
// confirmation message. The chat confirmation is cosmetic and is appended
// regardless of the commit outcome; the authoritative result is the
// notification raised by the commit path itself.
func (s *ChatSession) ConfirmSuggestion(ctx context.Context, sug domain.UpsellSuggestion) (*domain.ChatMessage, error) {
	err := s.committer.CommitSale(ctx, sug.TotalValue, domain.SaleTypeUpsell)
	if err != nil {
		s.log.Warn().Err(err).Str("item", sug.ItemName).Msg("upsell commit failed")
	}

	confirmation := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.ChatRoleAssistant,
		Content:   "Order confirmed and sent to the register!",
		Timestamp: time.Now().UTC(),
	}
	s.mu.Lock()
	s.messages = append(s.messages, confirmation)
	s.mu.Unlock()
	return &confirmation, err
}

// Messages returns a copy of the conversation history in append order.
func (s *ChatSession) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}
