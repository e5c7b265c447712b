// internal/adapters/openai/client.go
package openaiad

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"concierge/internal/adapters/observability"
)

const (
	defaultModel = "gpt-4o-mini"
	maxAttempts  = 3
)

// Client is a chat-completion client with client-side rate limiting and
// retries on 429/5xx. Implements domain.Completer.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
	rl        *rate.Limiter
}

type Options struct {
	BaseURL   string // empty = api.openai.com
	Model     string
	MaxTokens int
	RPS       int
}

func New(key string, opt Options) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if opt.RPS <= 0 {
		opt.RPS = 5
	}
	if opt.Model == "" {
		opt.Model = defaultModel
	}
	if opt.MaxTokens <= 0 {
		opt.MaxTokens = 150
	}
	cfg := openai.DefaultConfig(key)
	if opt.BaseURL != "" {
		cfg.BaseURL = opt.BaseURL
	}
	// per-attempt deadline comes from ctx; this only guards a missing one
	cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}

	return &Client{
		api:       openai.NewClientWithConfig(cfg),
		model:     opt.Model,
		maxTokens: opt.MaxTokens,
		rl:        rate.NewLimiter(rate.Limit(opt.RPS), opt.RPS),
	}, nil
}

// Complete sends one system + user exchange and returns the first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: c.maxTokens,
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		start := time.Now()
		resp, err := c.api.CreateChatCompletion(ctx, req)
		status := statusOf(err)
		observability.ObserveExternal("openai", "chat_completions", status, time.Since(start))

		if err == nil {
			if len(resp.Choices) == 0 {
				return "", errors.New("openai: no choices")
			}
			return resp.Choices[0].Message.Content, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		if !retryable(status) {
			return "", err
		}
		if i < maxAttempts-1 && !sleepCtx(ctx, backoff(i)) {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

// statusOf extracts the HTTP status from go-openai errors; 0 for transport
// errors, 200 for success.
func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func retryable(status int) bool {
	switch status {
	case 0, http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
