package analysis

import (
	"fmt"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/racelogtools/telemetry-pivot-go/pkg/model"
	"github.com/racelogtools/telemetry-pivot-go/pkg/repository/api"
)

// LapSummary holds the simple aggregates over one lap's frames.
type LapSummary struct {
	VehicleID  string  `json:"vehicleId"`
	Lap        int     `json:"lap"`
	FrameCount int     `json:"frameCount"`
	MeanSpeed  float64 `json:"meanSpeed"`
	MaxSpeed   float64 `json:"maxSpeed"`
}

// Summarize computes the aggregates; frames must belong to one lap.
func Summarize(frames []*model.TelemetryFrame) LapSummary {
	if len(frames) == 0 {
		return LapSummary{}
	}
	speeds := lo.Map(frames, func(f *model.TelemetryFrame, _ int) float64 {
		return f.Speed
	})
	return LapSummary{
		VehicleID:  frames[0].VehicleID,
		Lap:        frames[0].Lap,
		FrameCount: len(frames),
		MeanSpeed:  stat.Mean(speeds, nil),
		MaxSpeed:   lo.Max(speeds),
	}
}

// LapComparison relates two laps of the same vehicle.
type LapComparison struct {
	A              LapSummary `json:"a"`
	B              LapSummary `json:"b"`
	MeanSpeedDelta float64    `json:"meanSpeedDelta"`
	MaxSpeedDelta  float64    `json:"maxSpeedDelta"`
}

// CompareLaps fails fast when either lap has no frames in the store.
func CompareLaps(
	store api.TelemetryStore,
	vehicleID string,
	lapA, lapB int,
) (*LapComparison, error) {
	framesA := store.Get(vehicleID, lapA)
	if len(framesA) == 0 {
		return nil, fmt.Errorf("lap %d of vehicle %s: %w",
			lapA, vehicleID, api.ErrNoData)
	}
	framesB := store.Get(vehicleID, lapB)
	if len(framesB) == 0 {
		return nil, fmt.Errorf("lap %d of vehicle %s: %w",
			lapB, vehicleID, api.ErrNoData)
	}
	a := Summarize(framesA)
	b := Summarize(framesB)
	return &LapComparison{
		A:              a,
		B:              b,
		MeanSpeedDelta: b.MeanSpeed - a.MeanSpeed,
		MaxSpeedDelta:  b.MaxSpeed - a.MaxSpeed,
	}, nil
}
