// Package llm implements the upsell completion engine against a hosted
// chat-completion endpoint. The client always yields a usable Completion: any
// transport, decoding, or model failure degrades to a fallback message.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

const (
	defaultTimeout  = 30 * time.Second
	fallbackMessage = "I hit a short processing delay. Could you repeat your order?"
)

// systemPrompt fixes the menu and the response contract. The model must answer
// with a single JSON object matching completionResponse.
const systemPrompt = `You are the upsell assistant for a nightclub operations dashboard.
Prices are fixed: floor ticket $50, Single Combo $85 (entry + 2 drinks),
Group Combo $250 (4 entries + bottle), VIP booth $2000.
When the guest's request maps to a sellable item, propose it.
Respond ONLY with a JSON object:
{"message": string, "suggested": bool, "item_name": string, "total_value": number}`

// Client calls the completion endpoint over HTTP. It implements
// ports.Completer.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
	log      zerolog.Logger
}

func NewClient(endpoint, apiKey, model string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionEnvelope struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type completionResponse struct {
	Message    string  `json:"message"`
	Suggested  bool    `json:"suggested"`
	ItemName   string  `json:"item_name"`
	TotalValue float64 `json:"total_value"`
}

// Complete sends the user text to the model and parses the structured reply.
// Failures are logged and converted to the fallback completion; the returned
// error is always nil.
func (c *Client) Complete(ctx context.Context, userText string) (ports.Completion, error) {
	parsed, err := c.call(ctx, userText)
	if err != nil {
		c.log.Warn().Err(err).Msg("completion failed, serving fallback")
		return ports.Completion{Message: fallbackMessage}, nil
	}

	return ports.Completion{
		Message: parsed.Message,
		Suggestion: domain.UpsellSuggestion{
			Suggested:  parsed.Suggested,
			ItemName:   parsed.ItemName,
			TotalValue: parsed.TotalValue,
		},
	}, nil
}

func (c *Client) call(ctx context.Context, userText string) (*completionResponse, error) {
	payload, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completion status %d", resp.StatusCode)
	}

	var envelope completionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return nil, fmt.Errorf("empty completion")
	}

	var parsed completionResponse
	if err := json.Unmarshal([]byte(envelope.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("decode completion content: %w", err)
	}
	if parsed.Message == "" {
		return nil, fmt.Errorf("blank completion message")
	}
	return &parsed, nil
}
