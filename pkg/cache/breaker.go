package cache

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
)

// BreakerConfig configures the circuit breaker around a remote cache.
type BreakerConfig struct {
	Name string
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval after which closed-state counts reset.
	Interval time.Duration
	// Timeout spent open before probing again.
	Timeout time.Duration
	// ConsecutiveFailures that trip the breaker.
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig returns settings suited to a cache on the request path.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:                name,
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// BreakerCache guards a remote Cache with a circuit breaker. Backend errors
// never reach the caller: failed or rejected Gets are misses and failed Sets
// are dropped, so a cache outage slows layouts down without failing them.
type BreakerCache struct {
	inner  Cache
	cb     *gobreaker.CircuitBreaker
	logger *log.Logger
}

// NewBreakerCache wraps inner. A nil logger discards.
func NewBreakerCache(inner Cache, cfg BreakerConfig, logger *log.Logger) *BreakerCache {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &BreakerCache{inner: inner, cb: cb, logger: logger}
}

type getResult struct {
	data []byte
	ok   bool
}

// Get implements Cache.
func (c *BreakerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.cb.Execute(func() (any, error) {
		data, ok, err := c.inner.Get(ctx, key)
		return getResult{data, ok}, err
	})
	if err != nil {
		c.logger.Debug("cache get degraded to miss", "err", err)
		return nil, false, nil
	}
	r := v.(getResult)
	return r.data, r.ok, nil
}

// Set implements Cache.
func (c *BreakerCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.inner.Set(ctx, key, data, ttl)
	})
	if err != nil {
		c.logger.Debug("cache set dropped", "err", err)
	}
	return nil
}

// Delete implements Cache. Unlike Get and Set it reports errors, since a
// caller that deletes wants to know.
func (c *BreakerCache) Delete(ctx context.Context, key string) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.inner.Delete(ctx, key)
	})
	return err
}

// State returns the breaker state.
func (c *BreakerCache) State() gobreaker.State { return c.cb.State() }

// Close closes the wrapped cache.
func (c *BreakerCache) Close() error { return c.inner.Close() }

var _ Cache = (*BreakerCache)(nil)
