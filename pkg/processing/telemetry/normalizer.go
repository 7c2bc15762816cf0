package telemetry

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// RawRow is one record of a long-format telemetry log, keyed by header name.
// Column naming is inconsistent across logger versions, so fields are
// resolved through alias lists instead of fixed positions.
type RawRow map[string]string

// NormalizedRow is the canonical shape of a raw record. The original record
// is kept around for metric and sector lookups.
type NormalizedRow struct {
	// Timestamp is kept verbatim; it is part of the pivot grouping key.
	Timestamp string
	// VehicleID is the raw id, vendor prefix still attached.
	VehicleID string
	Lap       int
	Name      string
	Value     string
	Raw       RawRow
}

var (
	TimestampAliases = []string{"timestamp", "Time", "time"}
	VehicleAliases   = []string{"vehicle_id", "VehicleId", "vehicleId"}
	LapAliases       = []string{"lap", "Lap", "lapNumber"}
	NameAliases      = []string{"telemetry_name", "name", "Parameter", "signal"}
	ValueAliases     = []string{"telemetry_value", "value", "Value", "result"}
)

// ResolveAlias returns the first non-empty value among the given aliases.
func ResolveAlias(row RawRow, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && v != "" {
			return v
		}
	}
	return ""
}

// Normalize maps a raw record onto the canonical shape. ok is false when the
// record fails the validity predicate: name, value, timestamp and vehicle id
// must be non-empty and lap must be numeric. A value of "0" is a valid value.
func Normalize(row RawRow) (ret NormalizedRow, ok bool) {
	ret = NormalizedRow{
		Timestamp: ResolveAlias(row, TimestampAliases),
		VehicleID: ResolveAlias(row, VehicleAliases),
		Name:      ResolveAlias(row, NameAliases),
		Value:     ResolveAlias(row, ValueAliases),
		Raw:       row,
	}
	if ret.Name == "" || ret.Value == "" || ret.Timestamp == "" || ret.VehicleID == "" {
		return ret, false
	}
	lapRaw := ResolveAlias(row, LapAliases)
	if lapRaw == "" {
		return ret, false
	}
	lap, err := cast.ToIntE(lapRaw)
	if err != nil || lap < 0 {
		return ret, false
	}
	ret.Lap = lap
	return ret, true
}

// ParseTimestampMS accepts epoch milliseconds (integral or fractional)
// or RFC3339 instants.
func ParseTimestampMS(raw string) (int64, error) {
	if ms, err := cast.ToInt64E(raw); err == nil {
		return ms, nil
	}
	if f, err := cast.ToFloat64E(raw); err == nil {
		return int64(f), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UnixMilli(), nil
	}
	return 0, fmt.Errorf("unsupported timestamp format: %q", raw)
}
