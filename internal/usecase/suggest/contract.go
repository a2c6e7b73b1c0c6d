package suggest

import (
	"context"

	"github.com/kailas-cloud/geosuggest/internal/domain/match"
)

// Searcher looks up place matches for a query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (match.List, error)
}
