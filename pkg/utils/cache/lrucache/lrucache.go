package lrucache

import (
	"strconv"

	"github.com/racelogtools/telemetry-pivot-go/log"
	"github.com/racelogtools/telemetry-pivot-go/pkg/model"
	"github.com/racelogtools/telemetry-pivot-go/pkg/repository/api"
	"github.com/racelogtools/telemetry-pivot-go/pkg/utils/cache"
)

type (
	// CachedStore decorates a TelemetryStore with a bounded LRU over
	// (vehicleId, lap) lookups. It satisfies the same contract as the inner
	// store; callers compose it explicitly.
	CachedStore struct {
		inner api.TelemetryStore
		lru   *cache.LRU[string, []*model.TelemetryFrame]
		l     *log.Logger
	}
	Option func(*CachedStore)
)

var _ api.TelemetryStore = (*CachedStore)(nil)

func WithLogger(arg *log.Logger) Option {
	return func(c *CachedStore) {
		c.l = arg
	}
}

func New(inner api.TelemetryStore, maxSize int, opts ...Option) *CachedStore {
	ret := &CachedStore{
		inner: inner,
		lru:   cache.NewLRU[string, []*model.TelemetryFrame](maxSize),
		l:     log.Default().Named("cache.lru"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func cacheKey(vehicleID string, lap int) string {
	return vehicleID + "|" + strconv.Itoa(lap)
}

func (c *CachedStore) Get(vehicleID string, lap int) []*model.TelemetryFrame {
	key := cacheKey(vehicleID, lap)
	if frames, ok := c.lru.Get(key); ok {
		return frames
	}
	frames := c.inner.Get(vehicleID, lap)
	c.lru.Put(key, frames)
	c.l.Debug("cache miss", log.String("key", key), log.Int("size", c.lru.Len()))
	return frames
}

// GetByTimeRange always delegates; the parameter space is too large to cache.
func (c *CachedStore) GetByTimeRange(
	vehicleID string,
	fromMS, toMS int64,
) []*model.TelemetryFrame {
	return c.inner.GetByTimeRange(vehicleID, fromMS, toMS)
}

func (c *CachedStore) VehicleIDs() []string {
	return c.inner.VehicleIDs()
}

func (c *CachedStore) MaxLap(vehicleID string) int {
	return c.inner.MaxLap(vehicleID)
}

// Save flushes the whole cache: any write may affect any cached key.
func (c *CachedStore) Save(frames []*model.TelemetryFrame) {
	c.inner.Save(frames)
	c.lru.Purge()
}

func (c *CachedStore) Clear() {
	c.inner.Clear()
	c.lru.Purge()
}

func (c *CachedStore) Stats() model.StoreStats {
	return c.inner.Stats()
}

// CacheStats reports the cache fill state for the UI collaborator.
func (c *CachedStore) CacheStats() model.CacheStats {
	return model.CacheStats{
		Size:        c.lru.Len(),
		MaxSize:     c.lru.MaxSize(),
		Utilization: float64(c.lru.Len()) / float64(c.lru.MaxSize()),
	}
}
