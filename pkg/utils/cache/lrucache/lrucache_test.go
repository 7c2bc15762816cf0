package lrucache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/racelogtools/telemetry-pivot-go/pkg/model"
	"github.com/racelogtools/telemetry-pivot-go/pkg/repository/api"
	"github.com/racelogtools/telemetry-pivot-go/testsupport/basedata"
)

// countingStore records how often each read reached the inner store.
type countingStore struct {
	api.TelemetryStore
	getCalls   int
	rangeCalls int
}

func newCountingStore() *countingStore {
	return &countingStore{TelemetryStore: newInnerRepo()}
}

func (s *countingStore) Get(vehicleID string, lap int) []*model.TelemetryFrame {
	s.getCalls++
	return s.TelemetryStore.Get(vehicleID, lap)
}

func (s *countingStore) GetByTimeRange(
	vehicleID string,
	fromMS, toMS int64,
) []*model.TelemetryFrame {
	s.rangeCalls++
	return s.TelemetryStore.GetByTimeRange(vehicleID, fromMS, toMS)
}

// newInnerRepo is a minimal in-memory TelemetryStore for decoration.
type innerRepo struct {
	frames map[string]map[int][]*model.TelemetryFrame
}

func newInnerRepo() *innerRepo {
	return &innerRepo{frames: map[string]map[int][]*model.TelemetryFrame{}}
}

func (r *innerRepo) Get(vehicleID string, lap int) []*model.TelemetryFrame {
	return r.frames[vehicleID][lap]
}

func (r *innerRepo) GetByTimeRange(
	vehicleID string,
	fromMS, toMS int64,
) []*model.TelemetryFrame {
	ret := []*model.TelemetryFrame{}
	for _, frames := range r.frames[vehicleID] {
		for _, f := range frames {
			if f.TimestampMS >= fromMS && f.TimestampMS < toMS {
				ret = append(ret, f)
			}
		}
	}
	return ret
}

func (r *innerRepo) VehicleIDs() []string {
	ret := []string{}
	for k := range r.frames {
		ret = append(ret, k)
	}
	return ret
}

func (r *innerRepo) MaxLap(vehicleID string) int {
	ret := -1
	for lap := range r.frames[vehicleID] {
		if lap > ret {
			ret = lap
		}
	}
	return ret
}

func (r *innerRepo) Save(frames []*model.TelemetryFrame) {
	for _, f := range frames {
		if r.frames[f.VehicleID] == nil {
			r.frames[f.VehicleID] = map[int][]*model.TelemetryFrame{}
		}
		r.frames[f.VehicleID][f.Lap] = append(r.frames[f.VehicleID][f.Lap], f)
	}
}

func (r *innerRepo) Clear() {
	r.frames = map[string]map[int][]*model.TelemetryFrame{}
}

func (r *innerRepo) Stats() model.StoreStats {
	ret := model.StoreStats{TotalVehicles: len(r.frames)}
	for _, laps := range r.frames {
		ret.TotalLaps += len(laps)
		for _, frames := range laps {
			ret.TotalFrames += len(frames)
		}
	}
	return ret
}

func TestCachedStore_GetCachesLookups(t *testing.T) {
	inner := newCountingStore()
	store := New(inner, 8)
	store.Save([]*model.TelemetryFrame{basedata.SampleFrame(1000, "V1", 1, 100)})

	first := store.Get("V1", 1)
	second := store.Get("V1", 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.getCalls)
}

func TestCachedStore_EmptyResultsCachedToo(t *testing.T) {
	inner := newCountingStore()
	store := New(inner, 8)
	store.Get("V1", 99)
	store.Get("V1", 99)
	assert.Equal(t, 1, inner.getCalls)
}

func TestCachedStore_RangeQueriesNeverCached(t *testing.T) {
	inner := newCountingStore()
	store := New(inner, 8)
	store.GetByTimeRange("V1", 0, 1000)
	store.GetByTimeRange("V1", 0, 1000)
	assert.Equal(t, 2, inner.rangeCalls)
}

func TestCachedStore_SaveInvalidates(t *testing.T) {
	inner := newCountingStore()
	store := New(inner, 8)
	store.Save([]*model.TelemetryFrame{basedata.SampleFrame(1000, "V1", 1, 100)})

	assert.Len(t, store.Get("V1", 1), 1)
	store.Save([]*model.TelemetryFrame{basedata.SampleFrame(2000, "V1", 1, 101)})
	// stale entry must be gone after the write
	assert.Len(t, store.Get("V1", 1), 2)
	assert.Equal(t, 2, inner.getCalls)
}

func TestCachedStore_ClearInvalidates(t *testing.T) {
	inner := newCountingStore()
	store := New(inner, 8)
	store.Save([]*model.TelemetryFrame{basedata.SampleFrame(1000, "V1", 1, 100)})
	store.Get("V1", 1)

	store.Clear()
	assert.Empty(t, store.Get("V1", 1))
	assert.Equal(t, model.StoreStats{}, store.Stats())
}

func TestCachedStore_Delegation(t *testing.T) {
	inner := newCountingStore()
	store := New(inner, 8)
	store.Save([]*model.TelemetryFrame{
		basedata.SampleFrame(1000, "V1", 1, 100),
		basedata.SampleFrame(2000, "V1", 5, 100),
	})
	assert.Equal(t, []string{"V1"}, store.VehicleIDs())
	assert.Equal(t, 5, store.MaxLap("V1"))
	assert.Equal(t, model.StoreStats{
		TotalVehicles: 1, TotalLaps: 2, TotalFrames: 2,
	}, store.Stats())
}

func TestCachedStore_CacheStats(t *testing.T) {
	store := New(newCountingStore(), 4)
	assert.Equal(t, model.CacheStats{MaxSize: 4}, store.CacheStats())

	store.Get("V1", 1)
	store.Get("V1", 2)
	got := store.CacheStats()
	assert.Equal(t, 2, got.Size)
	assert.Equal(t, 4, got.MaxSize)
	assert.InDelta(t, 0.5, got.Utilization, 0.001)
}

func TestCachedStore_BoundedByMaxSize(t *testing.T) {
	inner := newCountingStore()
	store := New(inner, 2)
	store.Get("V1", 1)
	store.Get("V1", 2)
	store.Get("V1", 3)
	assert.Equal(t, 2, store.CacheStats().Size)

	// lap 1 was evicted, a repeat lookup reaches the inner store again
	store.Get("V1", 1)
	assert.Equal(t, 4, inner.getCalls)
}
