package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geosuggest/internal/domain"
	"github.com/kailas-cloud/geosuggest/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterSuggestMetrics()
	os.Exit(m.Run())
}

func newTestClient(t *testing.T, h http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL + "/search", Logger: zap.NewNop()}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("expected error for empty base URL")
	}
	if _, err := NewClient(Config{BaseURL: "http://x", RPS: -1}); err == nil {
		t.Error("expected error for negative rps")
	}
	if _, err := NewClient(Config{BaseURL: "http://x"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSearch_JSON(t *testing.T) {
	before := testutil.ToFloat64(metrics.UpstreamRequestsTotal.WithLabelValues("ok"))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Bad Ems" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "2" {
			t.Errorf("limit = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"matches": [["Bad Ems", 50.33, 7.71], ["Bad Ems Nord", 50.34, 7.72], ["extra", 1, 2]]}`))
	})

	list, err := c.Search(context.Background(), "Bad Ems", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(list))
	}
	if list[0].Name() != "Bad Ems" || list[0].Lat() != 50.33 {
		t.Errorf("unexpected first match: %+v", list[0])
	}

	after := testutil.ToFloat64(metrics.UpstreamRequestsTotal.WithLabelValues("ok"))
	if after-before != 1 {
		t.Errorf("expected ok counter +1, got %v", after-before)
	}
}

func TestSearch_JSONPBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`queryServerCallback({"matches": [["Trier", 49.75, 6.64]]});`))
	})

	list, err := c.Search(context.Background(), "Trier", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Name() != "Trier" {
		t.Errorf("unexpected list: %v", list.Names())
	}
}

func TestSearch_NoLimitParam(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("limit") {
			t.Error("limit should be omitted when zero")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	list, err := c.Search(context.Background(), "x", 0)
	if err != nil || list != nil {
		t.Errorf("expected empty result, got %v, %v", list, err)
	}
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, "", domain.ErrRateLimited},
		{"server error", http.StatusInternalServerError, "", domain.ErrUpstreamUnavailable},
		{"not found", http.StatusNotFound, "", domain.ErrUpstreamUnavailable},
		{"malformed", http.StatusOK, "<!doctype html>", domain.ErrMalformedPayload},
		{"wrong shape", http.StatusOK, `{"matches": [[1, 2, 3]]}`, domain.ErrMalformedPayload},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := c.Search(context.Background(), "x", 10)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSearch_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, func(cfg *Config) { cfg.Timeout = 50 * time.Millisecond })

	_, err := c.Search(context.Background(), "slow", 10)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestSearch_RateLimiterHonoursContext(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}, func(cfg *Config) { cfg.RPS = 0.1 })

	if _, err := c.Search(context.Background(), "first", 10); err != nil {
		t.Fatalf("first request: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Search(ctx, "second", 10)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 upstream call, got %d", n)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"bad request still reachable", http.StatusBadRequest, false},
		{"server error", http.StatusServiceUnavailable, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			})
			err := c.HealthCheck(context.Background())
			if (err != nil) != tc.wantErr {
				t.Errorf("HealthCheck() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestHealthCheck_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.HealthCheck(context.Background()); err == nil {
		t.Error("expected error for closed server")
	}
}
