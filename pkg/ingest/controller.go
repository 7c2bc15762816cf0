package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/racelogtools/telemetry-pivot-go/log"
	"github.com/racelogtools/telemetry-pivot-go/pkg/model"
	lapproc "github.com/racelogtools/telemetry-pivot-go/pkg/processing/lap"
	"github.com/racelogtools/telemetry-pivot-go/pkg/processing/telemetry"
)

const (
	// DefaultMaxMatchedRows bounds peak memory by matched rows, not file size.
	DefaultMaxMatchedRows = 100_000
	// progress is reported whenever the scanned count crosses this boundary
	progressInterval = 50_000
)

type (
	// Filter restricts ingestion to one vehicle and/or lap. The vehicle id is
	// compared after vendor prefix stripping on both sides.
	Filter struct {
		VehicleID string
		Lap       *int
	}
	// ProgressFunc receives the cumulative scanned (not matched) row count.
	ProgressFunc func(scanned int)

	// Controller drives chunked consumption of a row source, filtering before
	// accumulation and pivoting once the source is exhausted or the matched
	// row cap is reached.
	Controller struct {
		l              *log.Logger
		maxMatchedRows int
		skipRows       int
		filter         Filter
		onProgress     ProgressFunc
		proc           *telemetry.Processor
		lapProc        *lapproc.Processor
	}
	Option func(*Controller)

	// Result is the outcome of one ingestion run.
	Result struct {
		Frames  []*model.TelemetryFrame
		Scanned int
		Matched int
		Dropped int
	}
)

func WithMaxMatchedRows(arg int) Option {
	return func(c *Controller) {
		if arg > 0 {
			c.maxMatchedRows = arg
		}
	}
}

func WithSkipRows(arg int) Option {
	return func(c *Controller) {
		if arg >= 0 {
			c.skipRows = arg
		}
	}
}

func WithFilter(arg Filter) Option {
	return func(c *Controller) {
		c.filter = arg
	}
}

func WithProgress(arg ProgressFunc) Option {
	return func(c *Controller) {
		c.onProgress = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(c *Controller) {
		c.l = arg
	}
}

func WithProcessor(arg *telemetry.Processor) Option {
	return func(c *Controller) {
		c.proc = arg
	}
}

func WithLapProcessor(arg *lapproc.Processor) Option {
	return func(c *Controller) {
		c.lapProc = arg
	}
}

func NewController(opts ...Option) *Controller {
	ret := &Controller{
		l:              log.Default().Named("ingest"),
		maxMatchedRows: DefaultMaxMatchedRows,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.proc == nil {
		ret.proc = telemetry.NewProcessor()
	}
	if ret.lapProc == nil {
		ret.lapProc = lapproc.NewProcessor()
	}
	return ret
}

// Run consumes the source chunk by chunk. Matching rows are accumulated and
// pivoted into frames; once maxMatchedRows accumulate, the source is stopped
// and the frames built from what has been gathered are returned immediately.
// A source error aborts the run without partial results.
func (c *Controller) Run(ctx context.Context, src RowSource) (*Result, error) {
	accumulated := make([]telemetry.NormalizedRow, 0, 1024)
	scanned := 0
	skipped := 0
	filterVehicle := model.NormalizeVehicleID(c.filter.VehicleID)

	for {
		chunk, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// wind down producer goroutines before bailing out
			src.Stop()
			return nil, fmt.Errorf("row source failed after %d rows: %w", scanned, err)
		}
		for _, raw := range chunk {
			scanned++
			if c.onProgress != nil && scanned%progressInterval == 0 {
				c.onProgress(scanned)
			}
			if skipped < c.skipRows {
				skipped++
				continue
			}
			row, ok := c.proc.Normalize(raw)
			if !ok {
				continue
			}
			if filterVehicle != "" &&
				model.NormalizeVehicleID(row.VehicleID) != filterVehicle {
				continue
			}
			if c.filter.Lap != nil && row.Lap != *c.filter.Lap {
				continue
			}
			accumulated = append(accumulated, row)
			if len(accumulated) >= c.maxMatchedRows {
				c.l.Debug("matched row cap reached",
					log.Int("cap", c.maxMatchedRows), log.Int("scanned", scanned))
				src.Stop()
				return c.finish(accumulated, scanned), nil
			}
		}
	}
	return c.finish(accumulated, scanned), nil
}

func (c *Controller) finish(
	rows []telemetry.NormalizedRow,
	scanned int,
) *Result {
	frames := c.proc.Pivot(rows)
	c.l.Info("ingestion finished",
		log.Int("scanned", scanned),
		log.Int("matched", len(rows)),
		log.Int("frames", len(frames)),
		log.Int("droppedRows", c.proc.DroppedRows()),
		log.Int("droppedGroups", c.proc.DroppedGroups()))
	return &Result{
		Frames:  frames,
		Scanned: scanned,
		Matched: len(rows),
		Dropped: c.proc.DroppedRows(),
	}
}

// Laps consumes a lap-timing source and reconstructs ordered lap intervals
// per vehicle. The vehicle filter applies; lap filter and row cap do not.
func (c *Controller) Laps(
	ctx context.Context,
	src RowSource,
) (map[string][]*model.Lap, error) {
	rows := make([]lapproc.TimingRow, 0, 256)
	scanned := 0
	filterVehicle := model.NormalizeVehicleID(c.filter.VehicleID)

	for {
		chunk, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			src.Stop()
			return nil, fmt.Errorf("timing source failed after %d rows: %w",
				scanned, err)
		}
		for _, raw := range chunk {
			scanned++
			if c.onProgress != nil && scanned%progressInterval == 0 {
				c.onProgress(scanned)
			}
			row, ok := lapproc.TimingRowFromRaw(raw)
			if !ok {
				continue
			}
			if filterVehicle != "" &&
				model.NormalizeVehicleID(row.VehicleID) != filterVehicle {
				continue
			}
			rows = append(rows, *row)
		}
	}
	return c.lapProc.Reconstruct(rows), nil
}
