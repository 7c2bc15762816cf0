package lap

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/racelogtools/telemetry-pivot-go/log"
	"github.com/racelogtools/telemetry-pivot-go/pkg/model"
	"github.com/racelogtools/telemetry-pivot-go/pkg/processing/telemetry"
)

// DefaultLapDuration is assumed for the first lap of a vehicle, where no
// previous boundary exists, and as fallback when the data would produce a
// non-positive duration.
const DefaultLapDuration = 2 * time.Minute

// TimingRow is one raw lap-timing record: the timestamp marks the completion
// of the lap. Value is unreliable and only used to break duplicates.
type TimingRow struct {
	VehicleID   string
	Lap         int
	TimestampMS int64
	Value       float64
	Extra       map[string]string
}

// TimingRowFromRaw resolves the canonical fields through the shared alias
// lists. All remaining columns end up in Extra for sector extraction.
func TimingRowFromRaw(raw telemetry.RawRow) (*TimingRow, bool) {
	tsRaw := telemetry.ResolveAlias(raw, telemetry.TimestampAliases)
	vehicleID := telemetry.ResolveAlias(raw, telemetry.VehicleAliases)
	lapRaw := telemetry.ResolveAlias(raw, telemetry.LapAliases)
	if tsRaw == "" || vehicleID == "" || lapRaw == "" {
		return nil, false
	}
	lapNo, err := cast.ToIntE(lapRaw)
	if err != nil || lapNo < 0 {
		return nil, false
	}
	ts, err := telemetry.ParseTimestampMS(tsRaw)
	if err != nil {
		return nil, false
	}
	// value is best-effort, a missing or garbled one stays 0
	value, _ := cast.ToFloat64E(
		telemetry.ResolveAlias(raw, telemetry.ValueAliases))

	extra := make(map[string]string)
	for k, v := range raw {
		if !canonicalColumns[k] {
			extra[k] = v
		}
	}
	return &TimingRow{
		VehicleID:   vehicleID,
		Lap:         lapNo,
		TimestampMS: ts,
		Value:       value,
		Extra:       extra,
	}, true
}

var canonicalColumns = func() map[string]bool {
	ret := make(map[string]bool)
	for _, aliases := range [][]string{
		telemetry.TimestampAliases, telemetry.VehicleAliases,
		telemetry.LapAliases, telemetry.NameAliases, telemetry.ValueAliases,
	} {
		for _, alias := range aliases {
			ret[alias] = true
		}
	}
	return ret
}()

type (
	// DuplicatePolicy decides which of two rows for the same lap survives.
	DuplicatePolicy func(a, b TimingRow) TimingRow
	Processor       struct {
		l             *log.Logger
		defaultLapMS  int64
		pickDuplicate DuplicatePolicy
	}
	Option func(*Processor)
)

// LargerValueWins is the default duplicate policy. It is a heuristic about
// the source data, not a guaranteed-correct rule.
func LargerValueWins(a, b TimingRow) TimingRow {
	if b.Value > a.Value {
		return b
	}
	return a
}

func WithLogger(arg *log.Logger) Option {
	return func(p *Processor) {
		p.l = arg
	}
}

func WithDefaultLapDuration(arg time.Duration) Option {
	return func(p *Processor) {
		p.defaultLapMS = arg.Milliseconds()
	}
}

func WithDuplicatePolicy(arg DuplicatePolicy) Option {
	return func(p *Processor) {
		p.pickDuplicate = arg
	}
}

func NewProcessor(opts ...Option) *Processor {
	ret := &Processor{
		l:             log.Default().Named("processing.lap"),
		defaultLapMS:  DefaultLapDuration.Milliseconds(),
		pickDuplicate: LargerValueWins,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Reconstruct converts raw timing rows into ordered, non-overlapping lap
// intervals, keyed by normalized vehicle id. Raw id variants normalizing to
// the same vehicle are merged before deduplication.
func (p *Processor) Reconstruct(rows []TimingRow) map[string][]*model.Lap {
	byVehicle := lo.GroupBy(rows, func(r TimingRow) string {
		return model.NormalizeVehicleID(r.VehicleID)
	})
	ret := make(map[string][]*model.Lap, len(byVehicle))
	for vehicleID, vehicleRows := range byVehicle {
		laps := p.reconstructVehicle(vehicleID, vehicleRows)
		if len(laps) > 0 {
			ret[vehicleID] = laps
		}
	}
	return ret
}

func (p *Processor) reconstructVehicle(
	vehicleID string,
	rows []TimingRow,
) []*model.Lap {
	unique := make(map[int]TimingRow, len(rows))
	for _, row := range rows {
		if current, ok := unique[row.Lap]; ok {
			unique[row.Lap] = p.pickDuplicate(current, row)
		} else {
			unique[row.Lap] = row
		}
	}
	ordered := lo.Values(unique)
	slices.SortFunc(ordered, func(a, b TimingRow) int {
		return cmp.Compare(a.Lap, b.Lap)
	})

	vehicle := model.ParseVehicleID(vehicleID)
	ret := make([]*model.Lap, 0, len(ordered))
	prevEnd := int64(0)
	havePrev := false
	for _, row := range ordered {
		end := row.TimestampMS
		start := end - p.defaultLapMS
		if havePrev {
			start = prevEnd
		}
		if start >= end {
			// source data contradicts the previous-lap boundary
			p.l.Warn("non-positive lap duration, forcing default lap length",
				log.String("vehicle", vehicleID), log.Int("lap", row.Lap))
			start = end - p.defaultLapMS
		}
		prevEnd = end
		havePrev = true

		lap, err := model.NewLap(row.Lap, vehicle, start, end,
			p.extractSectors(row.Extra))
		if err != nil {
			p.l.Warn("skipping lap",
				log.String("vehicle", vehicleID),
				log.Int("lap", row.Lap),
				log.ErrorField(err))
			continue
		}
		ret = append(ret, lap)
	}
	return ret
}

// sector times hide behind inconsistent column names; anything with a
// sector_ prefix or an "im" fragment (IM1/IM2 intermediates) qualifies,
// provided the value is a positive number
func (p *Processor) extractSectors(extra map[string]string) map[string]int64 {
	var ret map[string]int64
	for k, v := range extra {
		lower := strings.ToLower(k)
		if !strings.HasPrefix(lower, "sector_") && !strings.Contains(lower, "im") {
			continue
		}
		f, err := cast.ToFloat64E(v)
		if err != nil || f <= 0 {
			continue
		}
		if ret == nil {
			ret = make(map[string]int64)
		}
		ret[k] = int64(f)
	}
	return ret
}
