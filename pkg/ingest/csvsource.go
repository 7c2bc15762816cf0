package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"sync"

	"github.com/racelogtools/telemetry-pivot-go/pkg/processing/telemetry"
)

const defaultChunkSize = 1000

type (
	// CSVSource tokenizes a CSV stream on a dedicated goroutine and delivers
	// header-keyed rows in chunks. No fixed column order is assumed.
	CSVSource struct {
		chunks   chan chunkItem
		stop     chan struct{}
		stopOnce sync.Once
	}
	CSVOption func(*csvConfig)
	csvConfig struct {
		chunkSize int
		comma     rune
	}
	chunkItem struct {
		rows []telemetry.RawRow
		err  error
	}
)

func WithChunkSize(arg int) CSVOption {
	return func(c *csvConfig) {
		if arg > 0 {
			c.chunkSize = arg
		}
	}
}

func WithComma(arg rune) CSVOption {
	return func(c *csvConfig) {
		c.comma = arg
	}
}

func NewCSVSource(r io.Reader, opts ...CSVOption) *CSVSource {
	cfg := &csvConfig{chunkSize: defaultChunkSize, comma: ','}
	for _, opt := range opts {
		opt(cfg)
	}
	ret := &CSVSource{
		chunks: make(chan chunkItem, 1),
		stop:   make(chan struct{}),
	}
	go ret.read(r, cfg)
	return ret
}

//nolint:gocognit // single decode loop reads better unsplit
func (s *CSVSource) read(r io.Reader, cfg *csvConfig) {
	defer close(s.chunks)
	reader := csv.NewReader(r)
	reader.Comma = cfg.comma
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.deliver(chunkItem{err: err})
		}
		return
	}
	chunk := make([]telemetry.RawRow, 0, cfg.chunkSize)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			if len(chunk) > 0 {
				s.deliver(chunkItem{rows: chunk})
			}
			return
		}
		if err != nil {
			s.deliver(chunkItem{err: err})
			return
		}
		row := make(telemetry.RawRow, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		chunk = append(chunk, row)
		if len(chunk) == cfg.chunkSize {
			if !s.deliver(chunkItem{rows: chunk}) {
				return
			}
			chunk = make([]telemetry.RawRow, 0, cfg.chunkSize)
		}
	}
}

func (s *CSVSource) deliver(item chunkItem) bool {
	select {
	case s.chunks <- item:
		return true
	case <-s.stop:
		return false
	}
}

func (s *CSVSource) Next(ctx context.Context) ([]telemetry.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case item, ok := <-s.chunks:
		if !ok {
			return nil, io.EOF
		}
		if item.err != nil {
			return nil, item.err
		}
		return item.rows, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *CSVSource) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
