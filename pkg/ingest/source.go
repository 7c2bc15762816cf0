package ingest

import (
	"context"
	"io"

	"github.com/racelogtools/telemetry-pivot-go/pkg/processing/telemetry"
)

// RowSource delivers raw records in arbitrary-size chunks. Implementations
// may produce chunks on their own goroutine; the controller consumes them
// strictly sequentially.
type RowSource interface {
	// Next blocks until the next chunk is available. io.EOF signals a fully
	// consumed source; any other error is terminal.
	Next(ctx context.Context) ([]telemetry.RawRow, error)
	// Stop asks the source to stop producing. It is a one-way request,
	// honored at the next chunk boundary.
	Stop()
}

// SliceSource serves pre-built chunks. Mainly used by collaborators that
// already hold rows in memory and by tests.
type SliceSource struct {
	chunks  [][]telemetry.RawRow
	pos     int
	stopped bool
}

func NewSliceSource(chunks ...[]telemetry.RawRow) *SliceSource {
	return &SliceSource{chunks: chunks}
}

func (s *SliceSource) Next(ctx context.Context) ([]telemetry.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.stopped || s.pos >= len(s.chunks) {
		return nil, io.EOF
	}
	ret := s.chunks[s.pos]
	s.pos++
	return ret, nil
}

func (s *SliceSource) Stop() {
	s.stopped = true
}

// Stopped reports whether Stop has been called.
func (s *SliceSource) Stopped() bool { return s.stopped }

// Delivered reports how many chunks have been handed out.
func (s *SliceSource) Delivered() int { return s.pos }
