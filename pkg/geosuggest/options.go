package geosuggest

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Variant selects which of the two page behaviours the Controller implements.
type Variant int

const (
	// VariantExtended renders a suggestion dropdown and persists the last query.
	VariantExtended Variant = iota
	// VariantSimple auto-displays the first match of every response.
	VariantSimple
)

func (v Variant) String() string {
	switch v {
	case VariantSimple:
		return "simple"
	case VariantExtended:
		return "extended"
	default:
		return "unknown"
	}
}

// ParseVariant maps "simple" and "extended" to a Variant.
func ParseVariant(s string) (Variant, bool) {
	switch s {
	case "simple":
		return VariantSimple, true
	case "extended", "":
		return VariantExtended, true
	default:
		return 0, false
	}
}

// ApplyPolicy decides which responses may replace the cached matches when
// requests overlap.
type ApplyPolicy int

const (
	// LastResponseWins applies every response in arrival order.
	LastResponseWins ApplyPolicy = iota
	// NewestRequestWins drops a response whose request is older than the one
	// behind the currently applied matches.
	NewestRequestWins
)

func (p ApplyPolicy) String() string {
	switch p {
	case LastResponseWins:
		return "last_response"
	case NewestRequestWins:
		return "newest_request"
	default:
		return "unknown"
	}
}

// ParseApplyPolicy maps "last_response" and "newest_request" to an ApplyPolicy.
func ParseApplyPolicy(s string) (ApplyPolicy, bool) {
	switch s {
	case "last_response", "":
		return LastResponseWins, true
	case "newest_request":
		return NewestRequestWins, true
	default:
		return 0, false
	}
}

// Option configures the Controller.
type Option interface {
	apply(*controllerConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*controllerConfig)

func (f optionFunc) apply(c *controllerConfig) { f(c) }

type controllerConfig struct {
	variant     Variant
	policy      ApplyPolicy
	encodeQuery bool

	input     Input
	widget    MapWidget
	box       SuggestionBox
	store     QueryStore
	transport Transport
	location  Location

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithVariant selects the simple or extended behaviour. Default: extended.
func WithVariant(v Variant) Option {
	return optionFunc(func(c *controllerConfig) {
		c.variant = v
	})
}

// WithApplyPolicy sets how overlapping responses are applied.
// Default: LastResponseWins.
func WithApplyPolicy(p ApplyPolicy) Option {
	return optionFunc(func(c *controllerConfig) {
		c.policy = p
	})
}

// WithQueryEncoding percent-encodes the query in the request URL.
// Off by default: the query is embedded verbatim.
func WithQueryEncoding(enabled bool) Option {
	return optionFunc(func(c *controllerConfig) {
		c.encodeQuery = enabled
	})
}

// WithInput sets the query field.
func WithInput(in Input) Option {
	return optionFunc(func(c *controllerConfig) {
		c.input = in
	})
}

// WithMap sets the map widget.
func WithMap(w MapWidget) Option {
	return optionFunc(func(c *controllerConfig) {
		c.widget = w
	})
}

// WithSuggestionBox sets the dropdown container. Required for the extended variant.
func WithSuggestionBox(b SuggestionBox) Option {
	return optionFunc(func(c *controllerConfig) {
		c.box = b
	})
}

// WithQueryStore sets the last-query persistence. Required for the extended variant.
func WithQueryStore(s QueryStore) Option {
	return optionFunc(func(c *controllerConfig) {
		c.store = s
	})
}

// WithTransport sets the JSONP transport.
func WithTransport(t Transport) Option {
	return optionFunc(func(c *controllerConfig) {
		c.transport = t
	})
}

// WithLocation sets the source of the page host.
func WithLocation(l Location) Option {
	return optionFunc(func(c *controllerConfig) {
		c.location = l
	})
}

// WithHost fixes the page host, e.g. "localhost:8888".
func WithHost(host string) Option {
	return optionFunc(func(c *controllerConfig) {
		c.location = staticLocation(host)
	})
}

// WithLogger enables structured logging for controller operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *controllerConfig) {
		c.logger = l
	})
}

// WithPrometheus registers controller metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *controllerConfig) {
		c.metricsReg = reg
	})
}
