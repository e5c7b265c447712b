package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned by Register when the phone number already
	// has a property. The existing record is left untouched.
	ErrDuplicateKey = errors.New("property already registered")
	// ErrPhoneRequired rejects registrations without a phone number.
	ErrPhoneRequired = errors.New("phone number is required")
	// ErrEmptyCompletion means the provider answered without any text.
	ErrEmptyCompletion = errors.New("provider returned no completion")
)

// ProviderError wraps any failure of the generative fallback: transport
// errors, timeouts and empty completions.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
