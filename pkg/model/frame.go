package model

import (
	"errors"
)

var (
	ErrMissingTimestamp = errors.New("missing or invalid timestamp")
	ErrMissingVehicle   = errors.New("missing vehicle id")
	ErrInvalidLap       = errors.New("invalid lap number")
)

// TelemetryFrame is one fully pivoted, wide-format sample at a single instant.
// Frames are immutable once constructed; bounded fields are clamped into
// range by the constructor.
type TelemetryFrame struct {
	TimestampMS   int64    `json:"timestamp"`
	VehicleID     string   `json:"vehicleId"`
	Lap           int      `json:"lap"`
	Speed         float64  `json:"speed"`
	ThrottlePos   float64  `json:"throttlePos"`
	BrakePos      float64  `json:"brakePos"`
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	SteeringAngle *float64 `json:"steeringAngle,omitempty"`
	Gear          *int     `json:"gear,omitempty"`
}

// FrameArgs collects the raw inputs for a frame.
type FrameArgs struct {
	TimestampMS   int64
	VehicleID     string
	Lap           int
	Speed         float64
	ThrottlePos   float64
	BrakePos      float64
	Lat           float64
	Lon           float64
	SteeringAngle *float64
	Gear          *int
}

// NewTelemetryFrame validates the required fields, normalizes the vehicle id
// and clamps speed, throttle and brake into their valid ranges.
func NewTelemetryFrame(args FrameArgs) (*TelemetryFrame, error) {
	if args.TimestampMS <= 0 {
		return nil, ErrMissingTimestamp
	}
	vehicleID := NormalizeVehicleID(args.VehicleID)
	if vehicleID == "" {
		return nil, ErrMissingVehicle
	}
	if args.Lap < 0 {
		return nil, ErrInvalidLap
	}
	return &TelemetryFrame{
		TimestampMS:   args.TimestampMS,
		VehicleID:     vehicleID,
		Lap:           args.Lap,
		Speed:         clampMin(args.Speed, 0),
		ThrottlePos:   clamp(args.ThrottlePos, 0, 100),
		BrakePos:      clamp(args.BrakePos, 0, 100),
		Lat:           args.Lat,
		Lon:           args.Lon,
		SteeringAngle: args.SteeringAngle,
		Gear:          args.Gear,
	}, nil
}

// FrameData is the plain serialization form of a TelemetryFrame.
type FrameData struct {
	Timestamp     int64    `json:"timestamp"`
	VehicleID     string   `json:"vehicleId"`
	Lap           int      `json:"lap"`
	Speed         float64  `json:"speed"`
	ThrottlePos   float64  `json:"throttlePos"`
	BrakePos      float64  `json:"brakePos"`
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	SteeringAngle *float64 `json:"steeringAngle,omitempty"`
	Gear          *int     `json:"gear,omitempty"`
}

func (f *TelemetryFrame) Data() FrameData {
	return FrameData{
		Timestamp:     f.TimestampMS,
		VehicleID:     f.VehicleID,
		Lap:           f.Lap,
		Speed:         f.Speed,
		ThrottlePos:   f.ThrottlePos,
		BrakePos:      f.BrakePos,
		Lat:           f.Lat,
		Lon:           f.Lon,
		SteeringAngle: f.SteeringAngle,
		Gear:          f.Gear,
	}
}

func FrameFromData(d FrameData) (*TelemetryFrame, error) {
	return NewTelemetryFrame(FrameArgs{
		TimestampMS:   d.Timestamp,
		VehicleID:     d.VehicleID,
		Lap:           d.Lap,
		Speed:         d.Speed,
		ThrottlePos:   d.ThrottlePos,
		BrakePos:      d.BrakePos,
		Lat:           d.Lat,
		Lon:           d.Lon,
		SteeringAngle: d.SteeringAngle,
		Gear:          d.Gear,
	})
}

func clamp(val, low, high float64) float64 {
	if val < low {
		return low
	}
	if val > high {
		return high
	}
	return val
}

func clampMin(val, low float64) float64 {
	if val < low {
		return low
	}
	return val
}
