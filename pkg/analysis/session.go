package analysis

import (
	"cmp"
	"slices"
	"sort"

	"github.com/samber/lo"

	"github.com/racelogtools/telemetry-pivot-go/pkg/model"
)

// RaceSession is the aggregate over all laps of one session and the distinct
// vehicles referenced by them. A lap is only ever attributed to the vehicle
// embedded in it; adding a lap of an unseen vehicle registers that vehicle.
type RaceSession struct {
	laps     map[string][]*model.Lap
	vehicles map[string]model.Vehicle
}

func NewRaceSession() *RaceSession {
	return &RaceSession{
		laps:     make(map[string][]*model.Lap),
		vehicles: make(map[string]model.Vehicle),
	}
}

func (s *RaceSession) AddLap(l *model.Lap) {
	id := l.Vehicle.ID()
	if _, ok := s.vehicles[id]; !ok {
		s.vehicles[id] = l.Vehicle
	}
	existing := s.laps[id]
	idx := slices.IndexFunc(existing, func(item *model.Lap) bool {
		return item.Number == l.Number
	})
	if idx != -1 {
		existing[idx] = l
		return
	}
	s.laps[id] = append(existing, l)
	slices.SortStableFunc(s.laps[id], func(a, b *model.Lap) int {
		return cmp.Compare(a.Number, b.Number)
	})
}

func (s *RaceSession) AddLaps(laps []*model.Lap) {
	for _, l := range laps {
		s.AddLap(l)
	}
}

// Vehicles returns the registered vehicles sorted by id.
func (s *RaceSession) Vehicles() []model.Vehicle {
	ids := lo.Keys(s.vehicles)
	sort.Strings(ids)
	return lo.Map(ids, func(id string, _ int) model.Vehicle {
		return s.vehicles[id]
	})
}

// LapsFor returns the vehicle's laps ordered by lap number, empty if unknown.
func (s *RaceSession) LapsFor(vehicleID string) []*model.Lap {
	if laps, ok := s.laps[vehicleID]; ok {
		return laps
	}
	return []*model.Lap{}
}

func (s *RaceSession) TotalLaps() int {
	ret := 0
	for _, laps := range s.laps {
		ret += len(laps)
	}
	return ret
}
