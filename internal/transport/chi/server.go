// Package chi is the HTTP surface of the geosuggest host server.
package chi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geosuggest/internal/domain"
	"github.com/kailas-cloud/geosuggest/internal/domain/match"
	logpkg "github.com/kailas-cloud/geosuggest/internal/logger"
	"github.com/kailas-cloud/geosuggest/internal/transport/jsonp"
	healthuc "github.com/kailas-cloud/geosuggest/internal/usecase/health"
)

// Suggester answers place queries.
type Suggester interface {
	Suggest(ctx context.Context, query string, limit int) (match.List, error)
	MaxMatches() int
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Options configures the routes mounted by Server.Routes.
type Options struct {
	// APIKeys protect /api/v1. Empty disables authentication.
	APIKeys []string
	// Static serves every other GET path. Nil answers 404.
	Static http.Handler
}

// Server serves the JSONP search endpoint, the JSON API, health and metrics.
type Server struct {
	suggest       Suggester
	health        HealthChecker
	callback      string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP server. An empty callback selects jsonp.DefaultCallback.
func NewServer(suggest Suggester, health HealthChecker, callback string, logger *zap.Logger) (*Server, error) {
	if callback == "" {
		callback = jsonp.DefaultCallback
	}
	if !jsonp.ValidCallback(callback) {
		return nil, fmt.Errorf("invalid callback name %q", callback)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		suggest:  suggest,
		health:   health,
		callback: callback,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrUpstreamUnavailable, http.StatusBadGateway, ErrorCodeUpstreamUnavailable),
		sentinelHandler(domain.ErrMalformedPayload, http.StatusBadGateway, ErrorCodeUpstreamUnavailable),
	}
	return s, nil
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router, opts Options) {
	static := opts.Static
	if static == nil {
		static = http.NotFoundHandler()
	}

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(opts.APIKeys))
		r.Get("/api/v1/suggest", s.SuggestJSON)
	})
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("q") {
			s.SuggestScript(w, r)
			return
		}
		static.ServeHTTP(w, r)
	})
}

// SuggestScript handles GET /?q=<query>, the endpoint the page loads as a
// script. Empty queries and queries without matches answer 204 with no body.
func (s *Server) SuggestScript(w http.ResponseWriter, r *http.Request) {
	query := scriptQuery(r.URL)

	list, err := s.suggest.Suggest(r.Context(), query, s.suggest.MaxMatches())
	if err != nil {
		status := upstreamStatus(err)
		if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
			logpkg.FromContext(r.Context()).Warn("suggest failed", zap.String("query", query), zap.Error(err))
		}
		w.WriteHeader(status)
		return
	}

	body, err := jsonp.Encode(s.callback, match.Payload{Matches: list})
	if err != nil {
		s.logger.Error("encode jsonp answer", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// SuggestJSON handles GET /api/v1/suggest?q=<query>&limit=<n>.
func (s *Server) SuggestJSON(w http.ResponseWriter, r *http.Request) {
	var query string
	if err := runtime.BindQueryParameter("form", true, true, "q", r.URL.Query(), &query); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request: "+err.Error())
		return
	}

	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request: "+err.Error())
		return
	}
	n := 0
	if limit != nil {
		if *limit <= 0 || *limit > s.suggest.MaxMatches() {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("limit must be between 1 and %d", s.suggest.MaxMatches()))
			return
		}
		n = *limit
	}

	list, err := s.suggest.Suggest(r.Context(), query, n)
	if err != nil && !errors.Is(err, domain.ErrNoMatches) {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SuggestItem, len(list))
	for i, m := range list {
		items[i] = SuggestItem{Name: m.Name(), Lat: m.Lat(), Lon: m.Lon()}
	}
	if n == 0 {
		n = s.suggest.MaxMatches()
	}

	writeJSON(w, http.StatusOK, SuggestResponse{
		Query: strings.TrimSpace(query),
		Items: items,
		Limit: n,
		Total: len(items),
	})
}

// HealthCheck handles GET /health. A degraded report still answers 200.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

// scriptQuery extracts q the way the page sends it: unencoded, so anything
// after a literal '&' is already lost. The decoded value is trimmed.
func scriptQuery(u *url.URL) string {
	return strings.TrimSpace(u.Query().Get("q"))
}
