package suggestcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geosuggest/internal/db"
	"github.com/kailas-cloud/geosuggest/internal/domain"
	"github.com/kailas-cloud/geosuggest/internal/domain/match"
)

var cacheKeyPrefix = domain.KeyPrefix + "suggest:"

// Searcher is the decorated search backend.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (match.List, error)
}

// store is the consumer interface for the suggest cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedSearcher caches search answers in a key-value store. Empty answers
// are cached as well so repeated misses do not reach the upstream.
type CachedSearcher struct {
	inner      Searcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"error"), passed explicitly.
func New(
	inner Searcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns a cached answer or calls the inner searcher.
// Store failures are logged and fall through to the inner searcher.
func (c *CachedSearcher) Search(ctx context.Context, query string, limit int) (match.List, error) {
	key := cacheKey(query, limit)

	if list, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return list, nil
	}

	c.incCache("miss")

	list, err := c.inner.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search upstream: %w", err)
	}

	c.putToCache(ctx, key, list)
	return list, nil
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey ignores surrounding space only; the upstream decides whether
// case matters, so "Trier" and "trier" are cached apart.
func cacheKey(query string, limit int) string {
	normalized := strings.TrimSpace(query)
	h := sha256.Sum256([]byte(normalized + "\x00" + strconv.Itoa(limit)))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) (match.List, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.incCache("error")
			c.logger.Warn("Failed to get cached suggestions", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var payload match.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.logger.Warn("Dropping unreadable cached suggestions", zap.String("key", key), zap.Error(err))
		if delErr := c.store.Del(ctx, key); delErr != nil {
			c.logger.Warn("Failed to drop cached suggestions", zap.String("key", key), zap.Error(delErr))
		}
		return nil, false
	}

	return payload.Matches, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, list match.List) {
	if list == nil {
		list = match.List{}
	}
	data, err := json.Marshal(match.Payload{Matches: list})
	if err != nil {
		c.logger.Warn("Failed to encode suggestions for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.incCache("error")
		c.logger.Warn("Failed to cache suggestions", zap.String("key", key), zap.Error(err))
	}
}
