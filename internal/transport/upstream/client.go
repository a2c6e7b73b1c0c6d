// Package upstream is the outbound client for the place search service the
// host server delegates queries to.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/geosuggest/internal/domain"
	"github.com/kailas-cloud/geosuggest/internal/domain/match"
	"github.com/kailas-cloud/geosuggest/internal/metrics"
	"github.com/kailas-cloud/geosuggest/internal/transport/jsonp"
)

const maxBodyBytes = 1 << 20

// HTTPDoer executes HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the upstream client settings.
type Config struct {
	// BaseURL of the search endpoint, e.g. http://search.internal/search
	BaseURL string
	// HealthURL is probed by HealthCheck. Defaults to BaseURL.
	HealthURL string
	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration
	// RPS caps outgoing requests per second. Zero means unlimited.
	RPS    float64
	Client HTTPDoer
	Logger *zap.Logger
}

// Client queries the upstream search service.
type Client struct {
	baseURL   *url.URL
	healthURL string
	timeout   time.Duration
	client    HTTPDoer
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewClient validates cfg and creates a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("empty base URL")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if cfg.RPS < 0 {
		return nil, errors.New("rps must not be negative")
	}

	c := &Client{
		baseURL:   u,
		healthURL: cfg.HealthURL,
		timeout:   cfg.Timeout,
		client:    cfg.Client,
		logger:    cfg.Logger,
	}
	if c.healthURL == "" {
		c.healthURL = cfg.BaseURL
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if cfg.RPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}
	return c, nil
}

// Search returns up to limit matches for query. A 204 response is an empty
// list, 429 maps to domain.ErrRateLimited, any other failure to
// domain.ErrUpstreamUnavailable or domain.ErrMalformedPayload.
func (c *Client) Search(ctx context.Context, query string, limit int) (match.List, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query, limit), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/javascript")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe("error", start)
		return nil, fmt.Errorf("upstream request: %v: %w", err, domain.ErrUpstreamUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		c.observe("empty", start)
		return nil, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		c.observe("rate_limited", start)
		return nil, fmt.Errorf("upstream status %d: %w", resp.StatusCode, domain.ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.observe("error", start)
		return nil, fmt.Errorf("upstream status %d: %w", resp.StatusCode, domain.ErrUpstreamUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.observe("error", start)
		return nil, fmt.Errorf("read upstream body: %v: %w", err, domain.ErrUpstreamUnavailable)
	}

	_, payload, err := jsonp.Decode(body)
	if err != nil {
		c.observe("error", start)
		return nil, fmt.Errorf("upstream payload: %w", err)
	}

	status := "ok"
	if len(payload.Matches) == 0 {
		status = "empty"
	}
	c.observe(status, start)

	c.logger.Debug("Upstream search completed",
		zap.String("query", query),
		zap.Int("limit", limit),
		zap.Int("matches", len(payload.Matches)),
		zap.Duration("duration", time.Since(start)),
	)

	return payload.Matches.Truncate(limit), nil
}

// HealthCheck verifies the upstream answers at all. Any status below 500
// counts as reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upstream health: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("upstream health status %d: %w", resp.StatusCode, domain.ErrUpstreamUnavailable)
	}
	return nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	start := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("upstream limiter: %v: %w", err, domain.ErrRateLimited)
	}
	metrics.UpstreamLimiterWait.Observe(time.Since(start).Seconds())
	return nil
}

func (c *Client) searchURL(query string, limit int) string {
	u := *c.baseURL
	q := u.Query()
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) observe(status string, start time.Time) {
	metrics.UpstreamRequestsTotal.WithLabelValues(status).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}
