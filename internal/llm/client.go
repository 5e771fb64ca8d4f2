// Package llm implements an OpenAI-compatible chat completions client used as
// the prompt/model transport.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/halvard/nertune/internal/config"
	"github.com/halvard/nertune/internal/domain"
	"github.com/halvard/nertune/internal/retry"
)

// ChatMessage represents a message in the OpenAI chat format
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is an OpenAI-compatible LLM client
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	retryConfig retry.BackoffConfig
}

// NewClient creates a new LLM client. A missing API key fails immediately
// unless the endpoint explicitly allows anonymous access.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" && !cfg.AllowAnonymous {
		return nil, domain.NewDomainError(domain.ErrMissingCredential,
			"set NERTUNE_LLM_API_KEY or OPENAI_API_KEY, or enable allow_anonymous for self-hosted endpoints")
	}

	baseURL := strings.TrimSuffix(cfg.URL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/v1")

	return &Client{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		retryConfig: retry.DefaultConfig(),
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// ChatCompletionRequest represents the request to the chat completions API
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

// ChatCompletionResponse represents the response from the chat completions API
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat sends a non-streaming chat completion request
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	reqBody := ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Stream:      false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	endpoint, err := url.JoinPath(c.baseURL, "v1", "chat", "completions")
	if err != nil {
		return "", fmt.Errorf("build chat endpoint: %w", err)
	}

	var content string
	err = retry.WithBackoff(ctx, c.retryConfig, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
		if err != nil {
			return err
		}

		if resp.StatusCode != http.StatusOK {
			if retryErr := retry.StatusError(resp.StatusCode); retryErr != nil {
				return retryErr
			}
			return domain.NewDomainError(domain.ErrLLMRequestFailed,
				fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(body), 200)))
		}

		var chatResp ChatCompletionResponse
		if err := json.Unmarshal(body, &chatResp); err != nil {
			return domain.NewDomainError(domain.ErrLLMRequestFailed, "unparseable chat response")
		}
		if len(chatResp.Choices) == 0 {
			return domain.NewDomainError(domain.ErrLLMRequestFailed, "chat response has no choices")
		}

		content = chatResp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrLLMRequestFailed) {
			return "", err
		}
		return "", domain.NewDomainError(domain.ErrLLMRequestFailed, err.Error())
	}
	return content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
