package geosuggest

import (
	"errors"

	"github.com/kailas-cloud/geosuggest/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNoMatches           = domain.ErrNoMatches
	ErrMalformedPayload    = domain.ErrMalformedPayload
	ErrUpstreamUnavailable = domain.ErrUpstreamUnavailable
	ErrRateLimited         = domain.ErrRateLimited
	ErrMatchNotFound       = domain.ErrMatchNotFound
)

// errDropped marks operations that were deliberately ignored rather than failed.
var errDropped = errors.New("dropped")
