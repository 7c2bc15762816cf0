package api

import (
	"errors"

	"github.com/racelogtools/telemetry-pivot-go/pkg/model"
)

// ErrNoData marks operations whose preconditions require non-empty data.
// Plain lookups never return it; they yield empty sequences instead.
var ErrNoData = errors.New("no data for selection")

// TelemetryStore keeps fully pivoted frames per (vehicle, lap). Stores are
// caller-owned; there is no process-wide instance. Writers must be
// externally serialized, readers may run sequentially in between.
type TelemetryStore interface {
	// Get returns the frames of one lap, empty if absent.
	Get(vehicleID string, lap int) []*model.TelemetryFrame
	// GetByTimeRange returns the vehicle's frames within [fromMS, toMS),
	// sorted by timestamp.
	GetByTimeRange(vehicleID string, fromMS, toMS int64) []*model.TelemetryFrame
	VehicleIDs() []string
	// MaxLap returns the highest stored lap of the vehicle, -1 if none.
	MaxLap(vehicleID string) int
	Save(frames []*model.TelemetryFrame)
	Clear()
	Stats() model.StoreStats
}

// LapStore keeps reconstructed lap intervals per vehicle, upserted by lap
// number.
type LapStore interface {
	// Get returns the vehicle's laps ordered by lap number, empty if absent.
	Get(vehicleID string) []*model.Lap
	VehicleIDs() []string
	// MaxLap returns the highest stored lap of the vehicle, -1 if none.
	MaxLap(vehicleID string) int
	Save(laps []*model.Lap)
	Clear()
	Stats() model.StoreStats
}
