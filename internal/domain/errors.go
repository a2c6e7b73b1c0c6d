package domain

import "errors"

// KeyPrefix is the namespace for every key geosuggest writes to the KV store.
const KeyPrefix = "geosuggest:"

var (
	// ErrEmptyQuery signals a query that is empty after trimming.
	ErrEmptyQuery = errors.New("empty query")
	// ErrNoMatches signals a search without any matching place.
	ErrNoMatches = errors.New("no matches")
	// ErrMalformedPayload signals a response body that is neither JSON nor JSONP with a matches list.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUpstreamUnavailable signals a failing upstream search backend.
	ErrUpstreamUnavailable = errors.New("upstream search unavailable")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrMatchNotFound signals a selection of a name absent from the cached matches.
	ErrMatchNotFound = errors.New("match not found")
)
