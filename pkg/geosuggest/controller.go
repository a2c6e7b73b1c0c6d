package geosuggest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/geosuggest/internal/domain/match"
)

// Phase is the coarse interaction state of the page.
type Phase int

const (
	// PhaseIdle means no request is in flight and no dropdown is open.
	PhaseIdle Phase = iota
	// PhaseQueryPending means at least one request is in flight.
	PhaseQueryPending
	// PhaseResultsShown means the latest applied response is on screen.
	PhaseResultsShown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseQueryPending:
		return "query_pending"
	case PhaseResultsShown:
		return "results_shown"
	default:
		return "unknown"
	}
}

// Controller owns all client-side state of one page: map handle and flags,
// cached matches, request sequence. Construct it once at page load.
//
// Every method is safe for concurrent use; calls are serialized the way a
// browser event loop would run them. Surfaces are invoked with the
// controller lock held and must not call back into it synchronously.
type Controller struct {
	mu sync.Mutex

	variant   Variant
	input     Input
	transport Transport

	mapView    *mapAdapter
	dispatcher *queryDispatcher
	results    *resultCache
	renderer   *suggestionRenderer // nil for VariantSimple
	persist    *persistenceShim    // nil for VariantSimple

	pending int
	phase   Phase

	obs *observer
}

// New creates a Controller from the given surfaces.
func New(opts ...Option) (*Controller, error) {
	cfg := &controllerConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		variant:    cfg.variant,
		input:      cfg.input,
		transport:  cfg.transport,
		mapView:    newMapAdapter(cfg.widget),
		dispatcher: &queryDispatcher{location: cfg.location, encode: cfg.encodeQuery},
		results:    &resultCache{policy: cfg.policy},
		obs:        obs,
	}
	if cfg.variant == VariantExtended {
		c.renderer = &suggestionRenderer{box: cfg.box}
		c.persist = &persistenceShim{store: cfg.store}
	}
	return c, nil
}

func validate(cfg *controllerConfig) error {
	if cfg.variant != VariantSimple && cfg.variant != VariantExtended {
		return fmt.Errorf("geosuggest: unknown variant %d", cfg.variant)
	}
	if cfg.policy != LastResponseWins && cfg.policy != NewestRequestWins {
		return fmt.Errorf("geosuggest: unknown apply policy %d", cfg.policy)
	}
	if cfg.input == nil {
		return errors.New("geosuggest: input surface required (use WithInput)")
	}
	if cfg.widget == nil {
		return errors.New("geosuggest: map widget required (use WithMap)")
	}
	if cfg.transport == nil {
		return errors.New("geosuggest: transport required (use WithTransport)")
	}
	if cfg.location == nil {
		return errors.New("geosuggest: page location required (use WithHost or WithLocation)")
	}
	if cfg.variant == VariantExtended {
		if cfg.box == nil {
			return errors.New("geosuggest: extended variant requires a suggestion box (use WithSuggestionBox)")
		}
		if cfg.store == nil {
			return errors.New("geosuggest: extended variant requires a query store (use WithQueryStore)")
		}
	}
	return nil
}

// Variant returns the configured behaviour.
func (c *Controller) Variant() Variant { return c.variant }

// Start runs the page-ready hook: the extended variant restores the last
// persisted query into the input field.
func (c *Controller) Start(_ context.Context) {
	if c.persist == nil {
		return
	}
	start := time.Now()
	c.mu.Lock()
	restored := c.persist.restore(c.input)
	c.mu.Unlock()

	var err error
	if !restored {
		err = fmt.Errorf("%w: no persisted query", errDropped)
	}
	c.obs.observe("restore", start, err)
}

// InitMap is the map widget's ready callback. It places the map on its
// default center and marks it ready.
func (c *Controller) InitMap() {
	start := time.Now()
	c.mu.Lock()
	created := c.mapView.initialize()
	c.mu.Unlock()

	var err error
	if !created {
		err = fmt.Errorf("%w: map already initialized", errDropped)
	}
	c.obs.observe("init_map", start, err)
}

// DisplayPosition moves the marker to (lat, lon) and reveals the map.
// Before InitMap it does nothing and returns false.
func (c *Controller) DisplayPosition(lat, lon float64) bool {
	start := time.Now()
	c.mu.Lock()
	shown := c.mapView.setPosition(Coordinate{Lat: lat, Lon: lon})
	c.mu.Unlock()

	c.obs.observe("display", start, displayErr(shown), "lat", lat, "lon", lon)
	return shown
}

func displayErr(shown bool) error {
	if shown {
		return nil
	}
	return fmt.Errorf("%w: map not ready", errDropped)
}

// SubmitQuery reads the input and dispatches it to the page host. It never
// waits for the answer: the response, if any, arrives through the transport.
// Overlapping requests are not cancelled.
func (c *Controller) SubmitQuery(ctx context.Context) Request {
	start := time.Now()

	c.mu.Lock()
	query := c.input.Value()
	if c.renderer != nil && isBlank(query) {
		c.renderer.remove()
		c.phase = PhaseIdle
	}
	req := c.dispatcher.next(query)
	c.pending++
	pending := c.pending
	var saveErr error
	if c.persist != nil {
		saveErr = c.persist.save(query)
	}
	c.mu.Unlock()

	c.obs.queriesInFlight(pending)
	c.transport.Send(ctx, req, c.deliver)

	if saveErr != nil {
		c.obs.observe("persist", start, fmt.Errorf("save last query: %w", saveErr))
	}
	c.obs.observe("submit", start, nil, "seq", req.Seq, "url", req.URL)
	return req
}

// deliver is handed to the transport with every request.
func (c *Controller) deliver(resp Response) {
	if resp.Err != nil {
		start := time.Now()
		c.mu.Lock()
		c.settle()
		c.results.settle(resp.Seq)
		pending := c.pending
		c.mu.Unlock()

		c.obs.queriesInFlight(pending)
		// Network and decoding failures leave the page as it is.
		c.obs.observe("result", start, fmt.Errorf("query %d: %w", resp.Seq, resp.Err), "seq", resp.Seq)
		return
	}
	c.onResult(resp.Seq, resp.Payload, true)
}

// OnResult is the page callback: it replaces the cached matches and either
// displays the first one (simple) or renders the dropdown (extended).
// It returns false if the response was rejected as stale.
func (c *Controller) OnResult(seq uint64, payload Payload) bool {
	return c.onResult(seq, payload, false)
}

func (c *Controller) onResult(seq uint64, payload Payload, fromTransport bool) bool {
	start := time.Now()

	c.mu.Lock()
	if fromTransport {
		c.settle()
	}
	applied := c.results.replace(seq, payload.Matches)
	if applied {
		c.present(payload.Matches)
	}
	pending := c.pending
	c.mu.Unlock()

	if fromTransport {
		c.obs.queriesInFlight(pending)
	}

	var err error
	if !applied {
		err = fmt.Errorf("%w: stale response %d", errDropped, seq)
	}
	c.obs.observe("result", start, err, "seq", seq, "matches", len(payload.Matches))
	return applied
}

// present must run with mu held.
func (c *Controller) present(list match.List) {
	if c.renderer == nil {
		first, ok := list.First()
		if !ok {
			return
		}
		c.mapView.setPosition(Coordinate{Lat: first.Lat(), Lon: first.Lon()})
		return
	}
	c.renderer.render(list, func(name string) { c.Select(name) })
	c.phase = PhaseResultsShown
}

// settle accounts for one finished request; must run with mu held.
func (c *Controller) settle() {
	if c.pending > 0 {
		c.pending--
	}
}

// Matches returns a copy of the cached match list.
func (c *Controller) Matches() []Match {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results.snapshot()
}

// MapState returns the map adapter flags.
func (c *Controller) MapState() MapState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mapView.state
}

// Phase returns the interaction state.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending > 0 {
		return PhaseQueryPending
	}
	return c.phase
}

// Pending returns the number of requests without a delivered response.
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
