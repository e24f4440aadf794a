package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRecorder_HeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)

	for i := 0; i < 3; i++ {
		if err := r.Write(TickRecord{Tick: i, Score: i * 2}); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected a header and 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "tick,time,height") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(buf.String(), "tick,") != 1 {
		t.Errorf("header written more than once")
	}

	records, err := Read(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(records) != 3 || records[2].Score != 4 {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestRecorder_Nil(t *testing.T) {
	r, err := Create("")
	if err != nil || r != nil {
		t.Fatalf("expected a nil recorder, got %v, %v", r, err)
	}
	if err := r.Write(TickRecord{}); err != nil {
		t.Errorf("nil recorder must discard, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("nil recorder close must succeed, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "ticks.csv")

	r, err := Create(path)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := r.WriteAll([]TickRecord{{Tick: 1, Reversed: true}, {Tick: 2, Lost: true}}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	records, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(records) != 2 || !records[0].Reversed || !records[1].Lost {
		t.Errorf("unexpected records %+v", records)
	}
}
