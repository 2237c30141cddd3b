package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or store backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// Retrieval Errors.

	// ErrSectionNotFound indicates no stored section has the requested URL.
	ErrSectionNotFound = errors.New("section not found")

	// ErrStoreUnavailable indicates no collection exists yet.
	// Lookups and searches treat it as an empty result.
	ErrStoreUnavailable = errors.New("vector store has no collection")

	// ErrRootAnchorNotFound indicates a configured root anchor is absent
	// from a document. Extraction for that document yields nothing.
	ErrRootAnchorNotFound = errors.New("root anchor not found")

	// Provider Errors.

	// ErrProviderUnavailable indicates a backend cannot serve requests,
	// for example because its API key is not configured.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderExhausted indicates every backend in a provider chain failed.
	ErrProviderExhausted = errors.New("provider chain exhausted")

	// ErrEmptyResult indicates a backend answered without usable data.
	ErrEmptyResult = errors.New("empty result")
)

// AttemptError records one failed backend call within a provider chain.
type AttemptError struct {
	Backend string
	Err     error
}

// Error implements error.
func (e *AttemptError) Error() string {
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

// Unwrap returns the backend error.
func (e *AttemptError) Unwrap() error {
	return e.Err
}

// ProviderExhaustedError is returned when every backend of a chain failed.
// It matches ErrProviderExhausted and unwraps to the last backend's error.
type ProviderExhaustedError struct {
	// Chain names the chain ("embedding" or "generation").
	Chain string

	// Attempts holds every failure in the order the backends were tried.
	Attempts []AttemptError
}

// Error implements error.
func (e *ProviderExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("%s: %s: no backends configured", e.Chain, ErrProviderExhausted)
	}
	parts := make([]string, len(e.Attempts))
	for i := range e.Attempts {
		parts[i] = e.Attempts[i].Error()
	}
	return fmt.Sprintf("%s: %s after %d attempts (%s)",
		e.Chain, ErrProviderExhausted, len(e.Attempts), strings.Join(parts, "; "))
}

// Is reports whether target is ErrProviderExhausted.
func (e *ProviderExhaustedError) Is(target error) bool {
	return target == ErrProviderExhausted
}

// Unwrap returns the error of the last attempted backend.
func (e *ProviderExhaustedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// LastBackend returns the name of the last attempted backend.
func (e *ProviderExhaustedError) LastBackend() string {
	if len(e.Attempts) == 0 {
		return ""
	}
	return e.Attempts[len(e.Attempts)-1].Backend
}
