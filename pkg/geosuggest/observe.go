package geosuggest

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// controllerMetrics holds prometheus metrics registered for the controller.
type controllerMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	inFlight   prometheus.Gauge
}

func newControllerMetrics(reg prometheus.Registerer) (*controllerMetrics, error) {
	m := &controllerMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geosuggest",
			Subsystem: "client",
			Name:      "operations_total",
			Help:      "Controller operations (submit, result, select, display, restore, init_map, persist) by status: ok, dropped (stale, unknown name, no matches, map not ready) or error.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "geosuggest",
			Subsystem: "client",
			Name:      "operation_duration_seconds",
			Help:      "Controller operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "geosuggest",
			Subsystem: "client",
			Name:      "queries_in_flight",
			Help:      "Dispatched queries whose response has not been delivered.",
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.inFlight); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("geosuggest: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("geosuggest: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for controller operations.
type observer struct {
	logger  *slog.Logger
	metrics *controllerMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *controllerMetrics
	if reg != nil {
		var err error
		m, err = newControllerMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errDropped), errors.Is(err, ErrMatchNotFound), errors.Is(err, ErrNoMatches):
		return "dropped"
	default:
		return "error"
	}
}

// queriesInFlight publishes the pending request count.
func (o *observer) queriesInFlight(n int) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.inFlight.Set(float64(n))
}

func (o *observer) observe(
	op string, start time.Time, err error, attrs ...any,
) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := statusOf(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(
			dur.Seconds(),
		)
	}

	if o.logger == nil {
		return
	}
	args := append([]any{"op", op, "duration", dur}, attrs...)
	switch status {
	case "ok":
		o.logger.Debug("operation completed", args...)
	case "dropped":
		o.logger.Debug("operation ignored", append(args, "reason", err)...)
	default:
		o.logger.Warn("operation failed", append(args, "error", err)...)
	}
}
