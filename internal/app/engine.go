package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"concierge/internal/adapters/observability"
	"concierge/internal/domain"
)

// ApologyReply is sent when the generative fallback cannot answer.
const ApologyReply = "Sorry, I can't answer that right now. Please try again in a few minutes or contact your host directly."

type Source string

const (
	SourceStructured Source = "structured"
	SourceFallback   Source = "fallback"
	SourceApology    Source = "apology"
)

type Reply struct {
	Text   string
	Source Source
	Field  domain.FieldKey // set only for SourceStructured
}

type Directory interface {
	Lookup(ctx context.Context, phone string) (domain.Property, bool, error)
}

type Responder interface {
	Respond(ctx context.Context, query string) (string, error)
}

// Engine resolves an inbound (phone, message) pair into a reply. It keeps no
// state between calls and is safe for concurrent use.
type Engine struct {
	dir      Directory
	matcher  Matcher
	fallback Responder
}

func NewEngine(d Directory, m Matcher, f Responder) *Engine {
	if m == nil {
		m = KeywordMatcher{}
	}
	return &Engine{dir: d, matcher: m, fallback: f}
}

// Resolve always produces a reply. Structured facts take precedence and never
// reach the provider; provider failures become ApologyReply.
func (e *Engine) Resolve(ctx context.Context, phone, query string) Reply {
	p, found, err := e.dir.Lookup(ctx, phone)
	if err != nil {
		// storage trouble should not leave the guest unanswered
		log.Warn().Err(err).Str("phone", phone).Msg("property lookup failed; using fallback")
		found = false
	}

	if found {
		if key, val, ok := e.matcher.Match(query, p); ok {
			observability.ObserveResolution(string(SourceStructured))
			return Reply{Text: val, Source: SourceStructured, Field: key}
		}
	}

	text, err := e.fallback.Respond(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("phone", phone).Msg("fallback responder failed")
		observability.ObserveResolution(string(SourceApology))
		return Reply{Text: ApologyReply, Source: SourceApology}
	}
	observability.ObserveResolution(string(SourceFallback))
	return Reply{Text: text, Source: SourceFallback}
}
