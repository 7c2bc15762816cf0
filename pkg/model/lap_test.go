package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestNewLap_IntervalEnforced(t *testing.T) {
	vehicle := Vehicle{ChassisCode: "ABC", CarNumber: 12}
	_, err := NewLap(1, vehicle, 2000, 2000, nil)
	assert.True(t, errors.Is(err, ErrInvalidLapInterval))
	_, err = NewLap(1, vehicle, 3000, 2000, nil)
	assert.True(t, errors.Is(err, ErrInvalidLapInterval))
	_, err = NewLap(-1, vehicle, 1000, 2000, nil)
	assert.True(t, errors.Is(err, ErrInvalidLap))
}

func TestLap_DerivedValues(t *testing.T) {
	vehicle := Vehicle{ChassisCode: "ABC", CarNumber: 12}
	lap, err := NewLap(2, vehicle, 60_000, 151_234, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(91_234), lap.DurationMS())
	assert.Equal(t, "1:31.234", lap.FormattedTime())
}

func TestLap_SectorTimesCopied(t *testing.T) {
	sectors := map[string]int64{"sector_1": 30_000, "IM2": 45_000}
	lap, err := NewLap(1, Vehicle{ChassisCode: "ABC"}, 0, 120_000, sectors)
	assert.NoError(t, err)
	sectors["sector_1"] = 1
	assert.Equal(t, int64(30_000), lap.SectorTimes["sector_1"])
}

func TestLap_DataRoundTrip(t *testing.T) {
	lap, err := NewLap(3, Vehicle{ChassisCode: "ABC", CarNumber: 7},
		100_000, 215_500, map[string]int64{"sector_1": 40_000})
	assert.NoError(t, err)
	restored, err := LapFromData(lap.Data())
	assert.NoError(t, err)
	if diff := cmp.Diff(lap, restored); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, lap.DurationMS(), restored.DurationMS())
}
