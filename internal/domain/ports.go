package domain

import "context"

type PropertyRepository interface {
	// Write path; fails with ErrDuplicateKey instead of overwriting.
	Register(ctx context.Context, p Property) error

	// Read path; a missing phone number is (Property{}, false, nil).
	Lookup(ctx context.Context, phone string) (Property, bool, error)
}

// Completer is the external generative-text provider.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
