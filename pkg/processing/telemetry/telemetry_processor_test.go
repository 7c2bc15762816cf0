//nolint:funlen // ok for tests
package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/racelogtools/telemetry-pivot-go/pkg/model"
)

func rawRow(ts, vehicle, lap, name, value string) RawRow {
	return RawRow{
		"timestamp":       ts,
		"vehicle_id":      vehicle,
		"lap":             lap,
		"telemetry_name":  name,
		"telemetry_value": value,
	}
}

func TestNormalize_Aliases(t *testing.T) {
	row := RawRow{
		"Time":      "1000",
		"vehicleId": "V1",
		"lapNumber": "3",
		"Parameter": "Speed",
		"Value":     "120.5",
	}
	got, ok := Normalize(row)
	assert.True(t, ok)
	assert.Equal(t, "1000", got.Timestamp)
	assert.Equal(t, "V1", got.VehicleID)
	assert.Equal(t, 3, got.Lap)
	assert.Equal(t, "Speed", got.Name)
	assert.Equal(t, "120.5", got.Value)
}

func TestNormalize_Validity(t *testing.T) {
	tests := []struct {
		name string
		row  RawRow
		ok   bool
	}{
		{"complete row", rawRow("1000", "V1", "3", "Speed", "120.5"), true},
		{"zero is a valid value", rawRow("1000", "V1", "3", "pBrake_F", "0"), true},
		{"missing name", rawRow("1000", "V1", "3", "", "120.5"), false},
		{"missing value", rawRow("1000", "V1", "3", "Speed", ""), false},
		{"missing timestamp", rawRow("", "V1", "3", "Speed", "120.5"), false},
		{"missing vehicle", rawRow("1000", "", "3", "Speed", "120.5"), false},
		{"non-numeric lap", rawRow("1000", "V1", "x", "Speed", "120.5"), false},
		{"negative lap", rawRow("1000", "V1", "-1", "Speed", "120.5"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Normalize(tt.row)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func normalizeAll(t *testing.T, rows []RawRow) []NormalizedRow {
	t.Helper()
	ret := make([]NormalizedRow, 0, len(rows))
	for _, row := range rows {
		nr, ok := Normalize(row)
		if !ok {
			t.Fatalf("row unexpectedly invalid: %v", row)
		}
		ret = append(ret, nr)
	}
	return ret
}

func TestProcessor_Pivot_SingleFrame(t *testing.T) {
	rows := normalizeAll(t, []RawRow{
		rawRow("1714302612000", "V1", "3", "Speed", "120.5"),
		rawRow("1714302612000", "V1", "3", "aTH", "85.2"),
		rawRow("1714302612000", "V1", "3", "pBrake_F", "0"),
	})
	frames := NewProcessor().Pivot(rows)
	assert.Len(t, frames, 1)
	f := frames[0]
	assert.Equal(t, int64(1714302612000), f.TimestampMS)
	assert.Equal(t, "V1", f.VehicleID)
	assert.Equal(t, 3, f.Lap)
	assert.Equal(t, 120.5, f.Speed)
	assert.Equal(t, 85.2, f.ThrottlePos)
	assert.Equal(t, 0.0, f.BrakePos)
	assert.Nil(t, f.Gear)
	assert.Nil(t, f.SteeringAngle)
}

func TestProcessor_Pivot_OrderWithinGroupIrrelevant(t *testing.T) {
	forward := normalizeAll(t, []RawRow{
		rawRow("1000", "V1", "1", "speed", "100"),
		rawRow("1000", "V1", "1", "speed_can", "90"),
		rawRow("1000", "V1", "1", "throttle", "50"),
	})
	reversed := []NormalizedRow{forward[2], forward[1], forward[0]}

	a := NewProcessor().Pivot(forward)
	b := NewProcessor().Pivot(reversed)
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
	assert.Equal(t, a[0], b[0])
	// precedence: speed beats speed_can
	assert.Equal(t, 100.0, a[0].Speed)
}

func TestProcessor_Pivot_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		rows   []RawRow
		checks func(tt *testing.T, f *model.TelemetryFrame)
	}{
		{
			name: "speed falls back to speed_can",
			rows: []RawRow{rawRow("1000", "V1", "1", "Speed_CAN", "90")},
			checks: func(tt *testing.T, f *model.TelemetryFrame) {
				assert.Equal(tt, 90.0, f.Speed)
			},
		},
		{
			name: "throttle precedence aTH over throttle_pos",
			rows: []RawRow{
				rawRow("1000", "V1", "1", "throttle_pos", "40"),
				rawRow("1000", "V1", "1", "aTH", "60"),
			},
			checks: func(tt *testing.T, f *model.TelemetryFrame) {
				assert.Equal(tt, 60.0, f.ThrottlePos)
			},
		},
		{
			name: "brake is max over channels",
			rows: []RawRow{
				rawRow("1000", "V1", "1", "pBrake_F", "30"),
				rawRow("1000", "V1", "1", "pBrake_R", "55"),
			},
			checks: func(tt *testing.T, f *model.TelemetryFrame) {
				assert.Equal(tt, 55.0, f.BrakePos)
			},
		},
		{
			name: "throttle and brake are clamped",
			rows: []RawRow{
				rawRow("1000", "V1", "1", "aTH", "140"),
				rawRow("1000", "V1", "1", "pBrake_F", "250"),
			},
			checks: func(tt *testing.T, f *model.TelemetryFrame) {
				assert.Equal(tt, 100.0, f.ThrottlePos)
				assert.Equal(tt, 100.0, f.BrakePos)
			},
		},
		{
			name: "gps and optional fields",
			rows: []RawRow{
				rawRow("1000", "V1", "1", "GPS_Lat", "52.1"),
				rawRow("1000", "V1", "1", "GPS_Lon", "-1.02"),
				rawRow("1000", "V1", "1", "Gear", "4"),
				rawRow("1000", "V1", "1", "aSteering", "-12.5"),
			},
			checks: func(tt *testing.T, f *model.TelemetryFrame) {
				assert.Equal(tt, 52.1, f.Lat)
				assert.Equal(tt, -1.02, f.Lon)
				if assert.NotNil(tt, f.Gear) {
					assert.Equal(tt, 4, *f.Gear)
				}
				if assert.NotNil(tt, f.SteeringAngle) {
					assert.Equal(tt, -12.5, *f.SteeringAngle)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := NewProcessor().Pivot(normalizeAll(t, tt.rows))
			if assert.Len(t, frames, 1) {
				tt.checks(t, frames[0])
			}
		})
	}
}

func TestProcessor_Pivot_RawIdGrouping(t *testing.T) {
	// both ids normalize to ABC-12 but must stay separate frames
	rows := normalizeAll(t, []RawRow{
		rawRow("1000", model.VendorPrefix+"ABC-12", "1", "speed", "100"),
		rawRow("1000", "ABC-12", "1", "speed", "110"),
	})
	frames := NewProcessor().Pivot(rows)
	assert.Len(t, frames, 2)
	assert.Equal(t, "ABC-12", frames[0].VehicleID)
	assert.Equal(t, "ABC-12", frames[1].VehicleID)
}

func TestProcessor_Pivot_SortedByTimestamp(t *testing.T) {
	rows := normalizeAll(t, []RawRow{
		rawRow("3000", "V1", "1", "speed", "103"),
		rawRow("1000", "V1", "1", "speed", "101"),
		rawRow("2000", "V1", "1", "speed", "102"),
	})
	frames := NewProcessor().Pivot(rows)
	assert.Len(t, frames, 3)
	for i := 1; i < len(frames); i++ {
		assert.LessOrEqual(t, frames[i-1].TimestampMS, frames[i].TimestampMS)
	}
}

func TestProcessor_Pivot_MalformedGroupDropped(t *testing.T) {
	p := NewProcessor()
	frames := p.Pivot(normalizeAll(t, []RawRow{
		rawRow("not-a-time", "V1", "1", "speed", "100"),
		rawRow("1000", "V1", "1", "speed", "101"),
	}))
	assert.Len(t, frames, 1)
	assert.Equal(t, 1, p.DroppedGroups())
}
