package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func respond(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := `{"choices":[{"message":{"role":"assistant","content":` + content + `}}]}`
		_, _ = w.Write([]byte(body))
	}
}

func TestComplete_ParsesStructuredReply(t *testing.T) {
	srv := httptest.NewServer(respond(t,
		`"{\"message\":\"A Group Combo covers all four of you.\",\"suggested\":true,\"item_name\":\"Group Combo\",\"total_value\":250}"`))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model", time.Second, zerolog.Nop())
	got, err := c.Complete(context.Background(), "table for four with drinks")
	if err != nil {
		t.Fatalf("complete returned error: %v", err)
	}
	if !got.Suggestion.Suggested {
		t.Fatal("expected a suggestion")
	}
	if got.Suggestion.ItemName != "Group Combo" {
		t.Errorf("item = %q, want Group Combo", got.Suggestion.ItemName)
	}
	if got.Suggestion.TotalValue != 250 {
		t.Errorf("total = %v, want 250", got.Suggestion.TotalValue)
	}
}

func TestComplete_ServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model", time.Second, zerolog.Nop())
	got, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("fallback must not surface an error, got %v", err)
	}
	if got.Message != fallbackMessage {
		t.Errorf("message = %q, want fallback", got.Message)
	}
	if got.Suggestion.Suggested {
		t.Error("fallback must not carry a suggestion")
	}
}

func TestComplete_MalformedContentFallsBack(t *testing.T) {
	srv := httptest.NewServer(respond(t, `"not json at all"`))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model", time.Second, zerolog.Nop())
	got, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("fallback must not surface an error, got %v", err)
	}
	if got.Message != fallbackMessage {
		t.Errorf("message = %q, want fallback", got.Message)
	}
}

func TestComplete_UnreachableEndpointFallsBack(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "test-key", "test-model", 100*time.Millisecond, zerolog.Nop())
	got, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("fallback must not surface an error, got %v", err)
	}
	if got.Message != fallbackMessage {
		t.Errorf("message = %q, want fallback", got.Message)
	}
}
