package lap

import (
	"cmp"
	"slices"
	"sort"

	"github.com/samber/lo"

	"github.com/racelogtools/telemetry-pivot-go/pkg/model"
	"github.com/racelogtools/telemetry-pivot-go/pkg/repository/api"
)

// Repository is the in-memory lap store: vehicle -> laps ordered by number.
// Saving a lap that already exists for (vehicle, lapNumber) replaces it.
type Repository struct {
	data map[string][]*model.Lap
}

var _ api.LapStore = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{data: make(map[string][]*model.Lap)}
}

func (r *Repository) Get(vehicleID string) []*model.Lap {
	if laps, ok := r.data[vehicleID]; ok {
		return laps
	}
	return []*model.Lap{}
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
	// kept sorted by Save
	return laps[len(laps)-1].Number
}

func (r *Repository) Save(laps []*model.Lap) {
	touched := make(map[string]bool)
	for _, l := range laps {
		vehicleID := l.Vehicle.ID()
		existing := r.data[vehicleID]
		idx := slices.IndexFunc(existing, func(item *model.Lap) bool {
			return item.Number == l.Number
		})
		if idx != -1 {
			existing[idx] = l
		} else {
			r.data[vehicleID] = append(existing, l)
		}
		touched[vehicleID] = true
	}
	for vehicleID := range touched {
		slices.SortStableFunc(r.data[vehicleID], func(a, b *model.Lap) int {
			return cmp.Compare(a.Number, b.Number)
		})
	}
}

func (r *Repository) Clear() {
	r.data = make(map[string][]*model.Lap)
}

func (r *Repository) Stats() model.StoreStats {
	ret := model.StoreStats{TotalVehicles: len(r.data)}
	for _, laps := range r.data {
		ret.TotalLaps += len(laps)
	}
	return ret
}
