package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/threadmap/pkg/observability"
)

// Instrumented reports every operation on the wrapped cache to the
// registered observability cache hooks.
type Instrumented struct {
	inner Cache
}

// NewInstrumented wraps inner.
func NewInstrumented(inner Cache) *Instrumented {
	return &Instrumented{inner: inner}
}

// Get implements Cache.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	kt := KeyType(key)
	switch {
	case err != nil:
		observability.Cache().OnCacheError(ctx, kt, "get", err)
	case ok:
		observability.Cache().OnCacheHit(ctx, kt)
	default:
		observability.Cache().OnCacheMiss(ctx, kt)
	}
	return data, ok, err
}

// Set implements Cache.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err != nil {
		observability.Cache().OnCacheError(ctx, KeyType(key), "set", err)
	} else {
		observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	}
	return err
}

// Delete implements Cache.
func (c *Instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Close implements Cache.
func (c *Instrumented) Close() error { return c.inner.Close() }

// KeyType returns the key kind ("layout" or "artifact") of a key built by
// DefaultKeyer, looking past any scope prefix. Other keys are "other".
func KeyType(key string) string {
	for part := range strings.SplitSeq(key, ":") {
		switch part {
		case "layout", "artifact":
			return part
		}
	}
	return "other"
}

var _ Cache = (*Instrumented)(nil)
