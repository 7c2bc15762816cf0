package model

import (
	"errors"
	"fmt"
)

var ErrInvalidLapInterval = errors.New("lap end must be after start")

// Lap is the reconstructed [start,end) interval of one lap of one vehicle.
// Laps are immutable; re-saving a (vehicle, lapNumber) key replaces the value.
type Lap struct {
	Number      int              `json:"lapNumber"`
	Vehicle     Vehicle          `json:"vehicle"`
	StartMS     int64            `json:"start"`
	EndMS       int64            `json:"end"`
	SectorTimes map[string]int64 `json:"sectorTimes,omitempty"`
}

func NewLap(
	number int,
	vehicle Vehicle,
	startMS, endMS int64,
	sectorTimes map[string]int64,
) (*Lap, error) {
	if number < 0 {
		return nil, ErrInvalidLap
	}
	if endMS <= startMS {
		return nil, fmt.Errorf("lap %d [%d,%d): %w",
			number, startMS, endMS, ErrInvalidLapInterval)
	}
	ret := &Lap{
		Number:  number,
		Vehicle: vehicle,
		StartMS: startMS,
		EndMS:   endMS,
	}
	if len(sectorTimes) > 0 {
		ret.SectorTimes = make(map[string]int64, len(sectorTimes))
		for k, v := range sectorTimes {
			ret.SectorTimes[k] = v
		}
	}
	return ret, nil
}

// DurationMS is derived, not stored.
func (l *Lap) DurationMS() int64 {
	return l.EndMS - l.StartMS
}

// FormattedTime renders the lap duration as m:ss.mmm
func (l *Lap) FormattedTime() string {
	d := l.DurationMS()
	return fmt.Sprintf("%d:%02d.%03d", d/60000, (d%60000)/1000, d%1000)
}

// LapData is the plain serialization form of a Lap.
type LapData struct {
	LapNumber   int              `json:"lapNumber"`
	Vehicle     Vehicle          `json:"vehicle"`
	Start       int64            `json:"start"`
	End         int64            `json:"end"`
	SectorTimes map[string]int64 `json:"sectorTimes,omitempty"`
}

func (l *Lap) Data() LapData {
	var sectors map[string]int64
	if len(l.SectorTimes) > 0 {
		sectors = make(map[string]int64, len(l.SectorTimes))
		for k, v := range l.SectorTimes {
			sectors[k] = v
		}
	}
	return LapData{
		LapNumber:   l.Number,
		Vehicle:     l.Vehicle,
		Start:       l.StartMS,
		End:         l.EndMS,
		SectorTimes: sectors,
	}
}

func LapFromData(d LapData) (*Lap, error) {
	return NewLap(d.LapNumber, d.Vehicle, d.Start, d.End, d.SectorTimes)
}
