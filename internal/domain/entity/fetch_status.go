package entity

import (
	"context"
	"errors"
)

// FetchStatus tags the outcome of an external lookup.
type FetchStatus string

const (
	StatusOK               FetchStatus = "ok"
	StatusNotConfigured    FetchStatus = "not_configured"
	StatusTransientFailure FetchStatus = "transient_failure"
	StatusNotFound         FetchStatus = "not_found"
)

var (
	// ErrNotConfigured is returned when a provider lacks credentials or an endpoint.
	ErrNotConfigured = errors.New("provider not configured")
	// ErrSymbolNotFound is returned when a provider does not know the requested symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrMalformedResponse is returned when a provider answers with an unexpected shape.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrUnusableToken is returned when a token contract's metadata cannot be used for valuation.
	ErrUnusableToken = errors.New("unusable token metadata")
)

// ClassifyError maps a fetch error onto a FetchStatus.
func ClassifyError(err error) FetchStatus {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrNotConfigured):
		return StatusNotConfigured
	case errors.Is(err, ErrSymbolNotFound):
		return StatusNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return StatusTransientFailure
	default:
		return StatusTransientFailure
	}
}
