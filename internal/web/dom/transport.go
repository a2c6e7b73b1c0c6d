//go:build js && wasm

package dom

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"syscall/js"

	"github.com/kailas-cloud/geosuggest/internal/domain"
	"github.com/kailas-cloud/geosuggest/internal/transport/jsonp"
	"github.com/kailas-cloud/geosuggest/pkg/geosuggest"
)

const seqAttr = "data-geosuggest-seq"

// ScriptTransport issues queries as injected <script> tags. The backend
// answers with a call to a global callback; document.currentScript tells
// which request the answer belongs to.
type ScriptTransport struct {
	doc    js.Value
	post   func(func())
	logger *slog.Logger

	mu       sync.Mutex
	requests map[uint64]*scriptRequest
	callback js.Func
}

type scriptRequest struct {
	el      js.Value
	deliver func(geosuggest.Response)
	onload  js.Func
	onerror js.Func
	done    chan struct{}
}

var _ geosuggest.Transport = (*ScriptTransport)(nil)

// NewScriptTransport installs window[callback]. Deliveries are handed to post.
func NewScriptTransport(doc js.Value, callback string, post func(func()), logger *slog.Logger) *ScriptTransport {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t := &ScriptTransport{
		doc:      doc,
		post:     post,
		logger:   logger,
		requests: make(map[uint64]*scriptRequest),
	}
	t.callback = js.FuncOf(t.onCallback)
	js.Global().Set(callback, t.callback)
	return t
}

// Send appends the script tag and returns immediately.
func (t *ScriptTransport) Send(ctx context.Context, req geosuggest.Request, deliver func(geosuggest.Response)) {
	seq := req.Seq
	r := &scriptRequest{
		el:      t.doc.Call("createElement", "script"),
		deliver: deliver,
		done:    make(chan struct{}),
	}
	// A script that ran without calling back means the server had nothing to say.
	r.onload = js.FuncOf(func(js.Value, []js.Value) any {
		t.post(func() {
			t.finish(seq, geosuggest.Response{Seq: seq, Err: domain.ErrNoMatches})
		})
		return nil
	})
	r.onerror = js.FuncOf(func(js.Value, []js.Value) any {
		t.post(func() {
			t.finish(seq, geosuggest.Response{
				Seq: seq,
				Err: fmt.Errorf("%w: script load failed", domain.ErrUpstreamUnavailable),
			})
		})
		return nil
	})

	r.el.Call("setAttribute", seqAttr, strconv.FormatUint(seq, 10))
	r.el.Set("async", true)
	r.el.Set("onload", r.onload)
	r.el.Set("onerror", r.onerror)

	t.mu.Lock()
	t.requests[seq] = r
	t.mu.Unlock()

	r.el.Set("src", req.URL)
	t.doc.Get("head").Call("appendChild", r.el)

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				t.post(func() {
					t.finish(seq, geosuggest.Response{Seq: seq, Err: ctx.Err()})
				})
			case <-r.done:
			}
		}()
	}
}

// Pending returns the number of scripts still in flight.
func (t *ScriptTransport) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}

func (t *ScriptTransport) onCallback(_ js.Value, args []js.Value) any {
	seq := t.currentSeq()
	resp := geosuggest.Response{Seq: seq}
	if len(args) == 0 {
		resp.Err = fmt.Errorf("%w: callback without argument", domain.ErrMalformedPayload)
	} else {
		body := js.Global().Get("JSON").Call("stringify", args[0]).String()
		_, payload, err := jsonp.Decode([]byte(body))
		resp.Payload, resp.Err = payload, err
	}
	t.post(func() { t.finish(seq, resp) })
	return nil
}

func (t *ScriptTransport) currentSeq() uint64 {
	cur := t.doc.Get("currentScript")
	if !cur.Truthy() {
		return 0
	}
	seq, err := strconv.ParseUint(Attr(cur, seqAttr), 10, 64)
	if err != nil {
		return 0
	}
	return seq
}

// finish delivers the first outcome of a request and drops the rest.
func (t *ScriptTransport) finish(seq uint64, resp geosuggest.Response) {
	t.mu.Lock()
	r, ok := t.requests[seq]
	delete(t.requests, seq)
	t.mu.Unlock()

	if !ok {
		if seq == 0 {
			t.logger.Warn("callback from an unknown script", "err", resp.Err)
		}
		return
	}

	r.el.Set("onload", js.Null())
	r.el.Set("onerror", js.Null())
	r.el.Call("remove")
	r.onload.Release()
	r.onerror.Release()
	close(r.done)

	r.deliver(resp)
}
