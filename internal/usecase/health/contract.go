package health

import "context"

// CachePinger checks suggest cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker checks the upstream search service.
type UpstreamChecker interface {
	HealthCheck(ctx context.Context) error
}
