package jsonp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geosuggest/internal/domain"
	"github.com/kailas-cloud/geosuggest/pkg/geosuggest"
)

const maxBodyBytes = 1 << 20

// Compile-time check: Fetcher implements geosuggest.Transport.
var _ geosuggest.Transport = (*Fetcher)(nil)

// HTTPDoer executes HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher is a Go-side stand-in for the browser script loader: it GETs the
// request URL, decodes the JSONP body and delivers the payload on its own
// goroutine. There is no timeout and no retry beyond what ctx imposes.
type Fetcher struct {
	client   HTTPDoer
	callback string
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewFetcher creates a fetcher expecting scripts that invoke callback.
// An empty callback accepts any function name.
func NewFetcher(client HTTPDoer, callback string, logger *zap.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, callback: callback, logger: logger}
}

// Send implements geosuggest.Transport.
func (f *Fetcher) Send(ctx context.Context, req geosuggest.Request, deliver func(geosuggest.Response)) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		deliver(f.fetch(ctx, req))
	}()
}

// Wait blocks until every sent request has been delivered.
func (f *Fetcher) Wait() {
	f.wg.Wait()
}

func (f *Fetcher) fetch(ctx context.Context, req geosuggest.Request) geosuggest.Response {
	resp := geosuggest.Response{Seq: req.Seq}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, ScriptURL(req.URL), http.NoBody)
	if err != nil {
		resp.Err = fmt.Errorf("build request: %w", err)
		return resp
	}

	httpResp, err := f.client.Do(httpReq)
	if err != nil {
		resp.Err = fmt.Errorf("fetch %s: %w", req.URL, err)
		return resp
	}
	defer func() { _ = httpResp.Body.Close() }()

	f.logger.Debug("jsonp response",
		zap.Uint64("seq", req.Seq),
		zap.String("url", req.URL),
		zap.Int("status", httpResp.StatusCode),
	)

	switch {
	case httpResp.StatusCode == http.StatusNoContent:
		resp.Err = domain.ErrNoMatches
		return resp
	case httpResp.StatusCode < 200 || httpResp.StatusCode > 299:
		resp.Err = fmt.Errorf("status %d: %w", httpResp.StatusCode, domain.ErrUpstreamUnavailable)
		return resp
	}

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		resp.Err = fmt.Errorf("read body: %w", err)
		return resp
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		// An empty script never calls back.
		resp.Err = domain.ErrNoMatches
		return resp
	}

	callback, payload, err := Decode(body)
	if err != nil {
		resp.Err = err
		return resp
	}
	if f.callback != "" && callback != f.callback {
		resp.Err = fmt.Errorf("%w: script calls %q, page defines %q", domain.ErrMalformedPayload, callback, f.callback)
		return resp
	}
	resp.Payload = payload
	return resp
}

// ScriptURL escapes a raw request URL the way a browser does before loading
// a script src: spaces, quotes, angle brackets, backticks, control bytes and
// non-ASCII bytes are percent-encoded. Reserved characters such as '&', '='
// and '#' keep their meaning.
func ScriptURL(raw string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c <= 0x20, c >= 0x7f, c == '"', c == '<', c == '>', c == '`':
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
