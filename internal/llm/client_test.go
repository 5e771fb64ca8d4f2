package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/halvard/nertune/internal/config"
	"github.com/halvard/nertune/internal/domain"
	"github.com/halvard/nertune/internal/retry"
)

func testConfig(url string) config.LLMConfig {
	return config.LLMConfig{
		URL:            url,
		APIKey:         "test-key",
		Model:          "test-model",
		MaxTokens:      64,
		Temperature:    0,
		AllowAnonymous: false,
	}
}

func TestNewClientMissingCredential(t *testing.T) {
	cfg := testConfig("https://api.openai.com/v1")
	cfg.APIKey = ""

	_, err := NewClient(cfg)
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Errorf("err = %v, want ErrMissingCredential", err)
	}

	cfg.AllowAnonymous = true
	if _, err := NewClient(cfg); err != nil {
		t.Errorf("anonymous client: %v", err)
	}
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}

		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": `["John","Smith"]`}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	content, err := client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "extract"}})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if content != `["John","Smith"]` {
		t.Errorf("content = %q", content)
	}
}

func TestChatServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "x"}})
	if !errors.Is(err, domain.ErrLLMRequestFailed) {
		t.Errorf("err = %v, want ErrLLMRequestFailed", err)
	}
}

func TestChatRetriesExhausted(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.retryConfig = retry.BackoffConfig{
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		MaxRetries:      1,
		Multiplier:      1,
	}

	_, err = client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "x"}})
	if !errors.Is(err, domain.ErrLLMRequestFailed) {
		t.Errorf("err = %v, want ErrLLMRequestFailed", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
