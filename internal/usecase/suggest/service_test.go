package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/geosuggest/internal/domain"
	"github.com/kailas-cloud/geosuggest/internal/domain/match"
)

// --- Mocks ---

type mockSearcher struct {
	list      match.List
	err       error
	calls     int
	lastQuery string
	lastLimit int
}

func (m *mockSearcher) Search(_ context.Context, query string, limit int) (match.List, error) {
	m.calls++
	m.lastQuery = query
	m.lastLimit = limit
	return m.list, m.err
}

func places(n int) match.List {
	list := make(match.List, n)
	for i := range list {
		list[i] = match.New("place", float64(i), float64(i))
	}
	return list
}

// --- Tests ---

func TestSuggest_TrimsQuery(t *testing.T) {
	m := &mockSearcher{list: match.List{match.New("Trier", 49.75, 6.64)}}
	svc := New(m, 10, 10)

	list, err := svc.Suggest(context.Background(), "  Trier \t", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.lastQuery != "Trier" {
		t.Errorf("searcher saw %q", m.lastQuery)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 match, got %d", len(list))
	}
}

func TestSuggest_EmptyQuery(t *testing.T) {
	m := &mockSearcher{}
	svc := New(m, 10, 10)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Suggest(context.Background(), q, 0)
		if !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("Suggest(%q) err = %v, want ErrEmptyQuery", q, err)
		}
	}
	if m.calls != 0 {
		t.Errorf("searcher should not be called for blank queries, got %d calls", m.calls)
	}
}

func TestSuggest_NoMatches(t *testing.T) {
	svc := New(&mockSearcher{list: match.List{}}, 10, 10)

	_, err := svc.Suggest(context.Background(), "Atlantis", 0)
	if !errors.Is(err, domain.ErrNoMatches) {
		t.Errorf("expected ErrNoMatches, got %v", err)
	}
}

func TestSuggest_SearcherError(t *testing.T) {
	svc := New(&mockSearcher{err: domain.ErrUpstreamUnavailable}, 10, 10)

	_, err := svc.Suggest(context.Background(), "Trier", 0)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestSuggest_LimitClamping(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default", 0, 5},
		{"negative", -3, 5},
		{"within range", 7, 7},
		{"above max", 50, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockSearcher{list: places(30)}
			svc := New(m, 10, 5)

			list, err := svc.Suggest(context.Background(), "p", tc.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.lastLimit != tc.wantLimit {
				t.Errorf("searcher limit = %d, want %d", m.lastLimit, tc.wantLimit)
			}
			if len(list) != tc.wantLimit {
				t.Errorf("returned %d matches, want %d", len(list), tc.wantLimit)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	svc := New(&mockSearcher{}, 0, 0)
	if svc.MaxMatches() != 10 {
		t.Errorf("MaxMatches() = %d, want 10", svc.MaxMatches())
	}
	if svc.clamp(0) != 10 {
		t.Errorf("default limit = %d, want 10", svc.clamp(0))
	}
}
