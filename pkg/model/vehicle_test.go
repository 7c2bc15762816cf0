package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVehicleID(t *testing.T) {
	assert.Equal(t, "ABC-12", NormalizeVehicleID(VendorPrefix+"ABC-12"))
	assert.Equal(t, "ABC-12", NormalizeVehicleID("ABC-12"))
	assert.Equal(t, "V1", NormalizeVehicleID(" V1"))
}

func TestParseVehicleID(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want Vehicle
	}{
		{"chassis and number", "ABC-12", Vehicle{ChassisCode: "ABC", CarNumber: 12}},
		{"vendor prefix stripped", VendorPrefix + "ABC-12", Vehicle{ChassisCode: "ABC", CarNumber: 12}},
		{"no number", "V1", Vehicle{ChassisCode: "V1", CarNumber: UnassignedCarNumber}},
		{"non-numeric suffix", "ABC-XY", Vehicle{ChassisCode: "ABC-XY", CarNumber: UnassignedCarNumber}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVehicleID(tt.arg))
		})
	}
}

func TestVehicle_IDRoundTrip(t *testing.T) {
	for _, id := range []string{"ABC-12", "V1"} {
		assert.Equal(t, id, ParseVehicleID(id).ID())
	}
}

func TestVehicle_EqualByChassisOnly(t *testing.T) {
	a := Vehicle{ChassisCode: "ABC", CarNumber: 12}
	b := Vehicle{ChassisCode: "ABC", CarNumber: 33}
	c := Vehicle{ChassisCode: "XYZ", CarNumber: 12}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
