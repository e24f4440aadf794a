// Package telemetry writes per tick session records as CSV.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// TickRecord is a snapshot of the session at the end of a tick.
type TickRecord struct {
	Tick      int     `csv:"tick"`
	Time      float64 `csv:"time"`
	Height    float64 `csv:"height"`
	Speed     float64 `csv:"speed"`
	Score     int     `csv:"score"`
	HP        int     `csv:"hp"`
	Grips     int     `csv:"grips"`
	Obstacles int     `csv:"obstacles"`
	Reversed  bool    `csv:"reversed"`

	AnchorX   float64 `csv:"anchor_x"`
	AnchorY   float64 `csv:"anchor_y"`
	EffectorX float64 `csv:"effector_x"`
	EffectorY float64 `csv:"effector_y"`
	TargetX   float64 `csv:"target_x"`
	TargetY   float64 `csv:"target_y"`

	IKPasses   int     `csv:"ik_passes"`
	IKResidual float64 `csv:"ik_residual"`
	IKStuck    bool    `csv:"ik_stuck"`

	Lost bool `csv:"lost"`
}

// Recorder appends TickRecords to a CSV stream, writing the header once.
// A nil Recorder discards everything.
type Recorder struct {
	out           io.Writer
	closer        io.Closer
	headerWritten bool
}

// NewRecorder writes to w
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{out: w}
}

// Create opens path for writing, creating its directory.
// Returns nil if path is empty (recording disabled).
func Create(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}

	return &Recorder{out: f, closer: f}, nil
}

// Write appends a single record
func (r *Recorder) Write(record TickRecord) error {
	return r.WriteAll([]TickRecord{record})
}

// WriteAll appends records in order
func (r *Recorder) WriteAll(records []TickRecord) error {
	if r == nil || len(records) == 0 {
		return nil
	}

	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, r.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(records, r.out); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close closes the underlying file, if the recorder opened one.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Read parses records written by a Recorder
func Read(in io.Reader) ([]TickRecord, error) {
	var records []TickRecord
	if err := gocsv.Unmarshal(in, &records); err != nil {
		return nil, fmt.Errorf("reading telemetry: %w", err)
	}
	return records, nil
}
