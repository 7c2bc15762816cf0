package basedata

import (
	"strconv"

	"github.com/racelogtools/telemetry-pivot-go/pkg/model"
	lapproc "github.com/racelogtools/telemetry-pivot-go/pkg/processing/lap"
	"github.com/racelogtools/telemetry-pivot-go/pkg/processing/telemetry"
)

// TestTimeMS is an arbitrary instant (2024-04-28T11:10:12Z) used as a base
// for generated timestamps.
const TestTimeMS int64 = 1714302612000

// SampleRawRow builds one long-format record in canonical column naming.
func SampleRawRow(tsMS int64, vehicleID string, lap int, name, value string) telemetry.RawRow {
	return telemetry.RawRow{
		"timestamp":       strconv.FormatInt(tsMS, 10),
		"vehicle_id":      vehicleID,
		"lap":             strconv.Itoa(lap),
		"telemetry_name":  name,
		"telemetry_value": value,
	}
}

// SampleFrameRows returns rows pivoting into a single frame.
func SampleFrameRows(tsMS int64, vehicleID string, lap int) []telemetry.RawRow {
	return []telemetry.RawRow{
		SampleRawRow(tsMS, vehicleID, lap, "Speed", "120.5"),
		SampleRawRow(tsMS, vehicleID, lap, "aTH", "85.2"),
		SampleRawRow(tsMS, vehicleID, lap, "pBrake_F", "0"),
	}
}

func SampleFrame(tsMS int64, vehicleID string, lap int, speed float64) *model.TelemetryFrame {
	ret, err := model.NewTelemetryFrame(model.FrameArgs{
		TimestampMS: tsMS,
		VehicleID:   vehicleID,
		Lap:         lap,
		Speed:       speed,
	})
	if err != nil {
		panic(err)
	}
	return ret
}

func SampleTimingRow(vehicleID string, lap int, tsMS int64, value float64) lapproc.TimingRow {
	return lapproc.TimingRow{
		VehicleID:   vehicleID,
		Lap:         lap,
		TimestampMS: tsMS,
		Value:       value,
		Extra:       map[string]string{},
	}
}

func SampleLap(vehicleID string, number int, startMS, endMS int64) *model.Lap {
	ret, err := model.NewLap(number, model.ParseVehicleID(vehicleID),
		startMS, endMS, nil)
	if err != nil {
		panic(err)
	}
	return ret
}
