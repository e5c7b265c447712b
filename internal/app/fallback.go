package app

import (
	"context"
	"strings"
	"time"

	"concierge/internal/domain"
)

const ConciergePersona = "You are a helpful concierge for a short-term rental."

// FallbackResponder answers free-text questions through the generative
// provider. Every call is bounded by timeout.
type FallbackResponder struct {
	llm     domain.Completer
	timeout time.Duration
}

func NewFallbackResponder(c domain.Completer, timeout time.Duration) *FallbackResponder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FallbackResponder{llm: c, timeout: timeout}
}

// Respond returns the trimmed completion, or a *domain.ProviderError.
func (f *FallbackResponder) Respond(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	out, err := f.llm.Complete(ctx, ConciergePersona, query)
	if err != nil {
		if ctx.Err() != nil {
			// report the deadline rather than whatever the transport wrapped it in
			return "", &domain.ProviderError{Op: "complete", Err: ctx.Err()}
		}
		return "", &domain.ProviderError{Op: "complete", Err: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", &domain.ProviderError{Op: "complete", Err: domain.ErrEmptyCompletion}
	}
	return out, nil
}
