// Package telemetry writes per-frame renderer traces as CSV.
package telemetry

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

// Record is one frame of renderer state.
type Record struct {
	TimeMs      float64 `csv:"time_ms"`
	PosX        float64 `csv:"pos_x"`
	PosY        float64 `csv:"pos_y"`
	Zone        string  `csv:"zone"`
	Color       string  `csv:"color"`
	Scale       float64 `csv:"scale"`
	Morph       float64 `csv:"morph"`
	LockState   string  `csv:"lock_state"`
	EdgeState   string  `csv:"edge_state"`
	CursorX     float64 `csv:"cursor_x"`
	CursorValue float64 `csv:"cursor_value"`
}

// Recorder appends trace records to a single CSV stream.
type Recorder struct {
	w io.Writer
	c io.Closer

	headerWritten bool
}

// NewRecorder wraps an existing writer. The caller retains ownership of w;
// Close is a no-op unless the recorder was opened with Create.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Create opens a trace file at path, truncating any existing file.
func Create(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace file: %w", err)
	}
	return &Recorder{w: f, c: f}, nil
}

// Write appends one record. A nil recorder discards the write.
func (r *Recorder) Write(rec Record) error {
	if r == nil {
		return nil
	}

	records := []Record{rec}

	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing trace record: %w", err)
		}
		r.headerWritten = true
	} else {
		// Subsequent writes skip headers
		if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
			return fmt.Errorf("writing trace record: %w", err)
		}
	}

	return nil
}

// Close closes the underlying file if the recorder owns one. Extra
// calls after the first are no-ops.
func (r *Recorder) Close() error {
	if r == nil || r.c == nil {
		return nil
	}
	c := r.c
	r.c = nil
	return c.Close()
}
