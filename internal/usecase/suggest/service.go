package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/geosuggest/internal/domain"
	"github.com/kailas-cloud/geosuggest/internal/domain/match"
	"github.com/kailas-cloud/geosuggest/internal/metrics"
)

// Service answers place suggestion queries.
type Service struct {
	searcher     Searcher
	maxMatches   int
	defaultLimit int
}

// New creates a suggest service. maxMatches caps every answer;
// defaultLimit applies when the caller passes no limit.
func New(searcher Searcher, maxMatches, defaultLimit int) *Service {
	if maxMatches <= 0 {
		maxMatches = 10
	}
	if defaultLimit <= 0 || defaultLimit > maxMatches {
		defaultLimit = maxMatches
	}
	return &Service{searcher: searcher, maxMatches: maxMatches, defaultLimit: defaultLimit}
}

// Suggest returns matches for the trimmed query.
// Returns domain.ErrEmptyQuery for a blank query and domain.ErrNoMatches
// when nothing matched.
func (s *Service) Suggest(ctx context.Context, query string, limit int) (match.List, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	limit = s.clamp(limit)

	list, err := s.searcher.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if len(list) == 0 {
		return nil, domain.ErrNoMatches
	}

	list = list.Truncate(limit)
	metrics.SuggestMatchesReturned.Observe(float64(len(list)))
	return list, nil
}

// MaxMatches reports the per-answer cap.
func (s *Service) MaxMatches() int {
	return s.maxMatches
}

func (s *Service) clamp(limit int) int {
	switch {
	case limit <= 0:
		return s.defaultLimit
	case limit > s.maxMatches:
		return s.maxMatches
	default:
		return limit
	}
}
