package telemetry

import (
	"cmp"
	"slices"
	"sort"

	"github.com/samber/lo"

	"github.com/racelogtools/telemetry-pivot-go/pkg/model"
	"github.com/racelogtools/telemetry-pivot-go/pkg/repository/api"
)

// Repository is the in-memory telemetry store: vehicle -> lap -> frames.
// Only fully pivoted frames are stored, never partial rows.
type Repository struct {
	data map[string]map[int][]*model.TelemetryFrame
}

var _ api.TelemetryStore = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{
		data: make(map[string]map[int][]*model.TelemetryFrame),
	}
}

func (r *Repository) Get(vehicleID string, lap int) []*model.TelemetryFrame {
	if laps, ok := r.data[vehicleID]; ok {
		if frames, ok := laps[lap]; ok {
			return frames
		}
	}
	return []*model.TelemetryFrame{}
}

func (r *Repository) GetByTimeRange(
	vehicleID string,
	fromMS, toMS int64,
) []*model.TelemetryFrame {
	ret := make([]*model.TelemetryFrame, 0)
	for _, frames := range r.data[vehicleID] {
		for _, f := range frames {
			if f.TimestampMS >= fromMS && f.TimestampMS < toMS {
				ret = append(ret, f)
			}
		}
	}
	slices.SortStableFunc(ret, func(a, b *model.TelemetryFrame) int {
		return cmp.Compare(a.TimestampMS, b.TimestampMS)
	})
	return ret
}

func (r *Repository) VehicleIDs() []string {
	ret := lo.Keys(r.data)
	sort.Strings(ret)
	return ret
}

func (r *Repository) MaxLap(vehicleID string) int {
	laps, ok := r.data[vehicleID]
	if !ok || len(laps) == 0 {
		return -1
	}
	return lo.Max(lo.Keys(laps))
}

// Save upserts frames into the nested store, appending per (vehicle, lap)
// and re-sorting that lap's frames by timestamp.
func (r *Repository) Save(frames []*model.TelemetryFrame) {
	touched := make(map[string]map[int]bool)
	for _, f := range frames {
		laps, ok := r.data[f.VehicleID]
		if !ok {
			laps = make(map[int][]*model.TelemetryFrame)
			r.data[f.VehicleID] = laps
		}
		laps[f.Lap] = append(laps[f.Lap], f)
		if touched[f.VehicleID] == nil {
			touched[f.VehicleID] = make(map[int]bool)
		}
		touched[f.VehicleID][f.Lap] = true
	}
	for vehicleID, laps := range touched {
		for lap := range laps {
			slices.SortStableFunc(r.data[vehicleID][lap],
				func(a, b *model.TelemetryFrame) int {
					return cmp.Compare(a.TimestampMS, b.TimestampMS)
				})
		}
	}
}

func (r *Repository) Clear() {
	r.data = make(map[string]map[int][]*model.TelemetryFrame)
}

func (r *Repository) Stats() model.StoreStats {
	ret := model.StoreStats{TotalVehicles: len(r.data)}
	for _, laps := range r.data {
		ret.TotalLaps += len(laps)
		for _, frames := range laps {
			ret.TotalFrames += len(frames)
		}
	}
	return ret
}
