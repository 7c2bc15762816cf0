package telemetry

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/racelogtools/telemetry-pivot-go/log"
	"github.com/racelogtools/telemetry-pivot-go/pkg/model"
)

// metric precedence lists, first match wins (see maxMetric for brake)
var (
	speedMetrics    = []string{"speed", "speed_can"}
	throttleMetrics = []string{"ath", "throttle_pos", "throttle"}
	brakeMetrics    = []string{"pbrake_f", "pbrake_r", "brake_pos"}
	latMetrics      = []string{"gps_lat", "latitude", "lat"}
	lonMetrics      = []string{"gps_lon", "longitude", "lon", "lng"}
	steeringMetrics = []string{"asteering", "steering_angle"}
)

type (
	// Processor folds valid long-format rows into wide TelemetryFrames.
	Processor struct {
		l             *log.Logger
		droppedRows   int
		droppedGroups int
	}
	Option func(*Processor)
)

func WithLogger(arg *log.Logger) Option {
	return func(p *Processor) {
		p.l = arg
	}
}

func NewProcessor(opts ...Option) *Processor {
	ret := &Processor{
		l: log.Default().Named("processing.telemetry"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Normalize delegates to the package-level Normalize and counts drops.
func (p *Processor) Normalize(row RawRow) (NormalizedRow, bool) {
	ret, ok := Normalize(row)
	if !ok {
		p.droppedRows++
	}
	return ret, ok
}

// DroppedRows reports how many rows failed the validity predicate so far.
func (p *Processor) DroppedRows() int { return p.droppedRows }

// DroppedGroups reports how many pivoted groups failed frame construction.
func (p *Processor) DroppedGroups() int { return p.droppedGroups }

// rows sharing the exact raw (timestamp, vehicleId, lap) triple end up in
// one group. Grouping happens on the raw vehicle id on purpose: two ids
// that only normalize to the same logical vehicle are never merged.
type metricGroup struct {
	timestamp string
	vehicleID string
	lap       int
	metrics   map[string]float64
}

// Pivot folds the given rows into frames, sorted ascending by timestamp.
// Rows within a group may arrive in any order.
func (p *Processor) Pivot(rows []NormalizedRow) []*model.TelemetryFrame {
	groups := make(map[string]*metricGroup)
	order := make([]string, 0, len(rows)/4)
	for i := range rows {
		row := &rows[i]
		key := row.Timestamp + "|" + row.VehicleID + "|" + strconv.Itoa(row.Lap)
		group, ok := groups[key]
		if !ok {
			group = &metricGroup{
				timestamp: row.Timestamp,
				vehicleID: row.VehicleID,
				lap:       row.Lap,
				metrics:   make(map[string]float64),
			}
			groups[key] = group
			order = append(order, key)
		}
		value, err := cast.ToFloat64E(row.Value)
		if err != nil {
			p.l.Debug("skipping non-numeric telemetry value",
				log.String("name", row.Name), log.String("value", row.Value))
			continue
		}
		group.metrics[strings.ToLower(row.Name)] = value
	}

	ret := make([]*model.TelemetryFrame, 0, len(order))
	for _, key := range order {
		frame, err := p.buildFrame(groups[key])
		if err != nil {
			p.droppedGroups++
			p.l.Warn("dropping malformed group",
				log.String("key", key), log.ErrorField(err))
			continue
		}
		ret = append(ret, frame)
	}
	slices.SortStableFunc(ret, func(a, b *model.TelemetryFrame) int {
		return cmp.Compare(a.TimestampMS, b.TimestampMS)
	})
	return ret
}

func (p *Processor) buildFrame(group *metricGroup) (*model.TelemetryFrame, error) {
	ts, err := ParseTimestampMS(group.timestamp)
	if err != nil {
		return nil, err
	}
	args := model.FrameArgs{
		TimestampMS: ts,
		VehicleID:   group.vehicleID,
		Lap:         group.lap,
		Speed:       metricOr(group.metrics, speedMetrics, 0),
		ThrottlePos: metricOr(group.metrics, throttleMetrics, 0),
		BrakePos:    maxMetric(group.metrics, brakeMetrics),
		Lat:         metricOr(group.metrics, latMetrics, 0),
		Lon:         metricOr(group.metrics, lonMetrics, 0),
	}
	if v, ok := lookupMetric(group.metrics, steeringMetrics); ok {
		args.SteeringAngle = &v
	}
	if v, ok := group.metrics["gear"]; ok {
		gear := int(v)
		args.Gear = &gear
	}
	return model.NewTelemetryFrame(args)
}

func lookupMetric(metrics map[string]float64, names []string) (float64, bool) {
	for _, name := range names {
		if v, ok := metrics[name]; ok {
			return v, true
		}
	}
	return 0, false
}

func metricOr(metrics map[string]float64, names []string, def float64) float64 {
	if v, ok := lookupMetric(metrics, names); ok {
		return v
	}
	return def
}

// maxMetric takes the maximum over the named channels, missing ones count as 0
func maxMetric(metrics map[string]float64, names []string) float64 {
	ret := 0.0
	for _, name := range names {
		if v, ok := metrics[name]; ok && v > ret {
			ret = v
		}
	}
	return ret
}
