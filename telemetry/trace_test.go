package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
)

func sampleRecord(timeMs float64) Record {
	return Record{
		TimeMs:      timeMs,
		PosX:        0.5,
		PosY:        0.62,
		Zone:        "steady",
		Color:       "#34c98a",
		Scale:       1.05,
		Morph:       0.8,
		LockState:   "free",
		EdgeState:   "idle",
		CursorX:     150,
		CursorValue: 62.5,
	}
}

func TestWriteEmitsHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)

	for i := 0; i < 3; i++ {
		if err := r.Write(sampleRecord(float64(i) * 16.7)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4 (header + 3 rows)", len(lines))
	}
	if !strings.HasPrefix(lines[0], "time_ms,pos_x,pos_y,zone,") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	for i, line := range lines[1:] {
		if strings.Contains(line, "time_ms") {
			t.Errorf("row %d repeats the header: %q", i, line)
		}
	}
}

func TestWriteIncludesStateColumns(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)

	rec := sampleRecord(100)
	rec.LockState = "center_locked"
	rec.Zone = "elevated"
	if err := r.Write(rec); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	row := lines[1]
	if !strings.Contains(row, "elevated") {
		t.Errorf("row missing zone: %q", row)
	}
	if !strings.Contains(row, "center_locked") {
		t.Errorf("row missing lock state: %q", row)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder

	if err := r.Write(sampleRecord(0)); err != nil {
		t.Errorf("nil Write returned error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("nil Close returned error: %v", err)
	}
}

func TestCloseWithoutFileIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)

	if err := r.Write(sampleRecord(0)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestCreateWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.csv")

	r, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.Write(sampleRecord(16.7)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := r.Write(sampleRecord(33.4)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 rows)", len(lines))
	}

	var back []Record
	if err := gocsv.UnmarshalBytes(data, &back); err != nil {
		t.Fatalf("UnmarshalBytes: %v", err)
	}
	if len(back) != 2 {
		t.Fatalf("got %d records back, want 2", len(back))
	}
	if back[0].TimeMs != 16.7 || back[1].TimeMs != 33.4 {
		t.Errorf("timestamps did not round-trip: %v, %v", back[0].TimeMs, back[1].TimeMs)
	}
	if back[0].Zone != "steady" || back[0].LockState != "free" {
		t.Errorf("state columns did not round-trip: %+v", back[0])
	}
}

func TestCreateRejectsBadPath(t *testing.T) {
	if _, err := Create(filepath.Join(t.TempDir(), "missing", "trace.csv")); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
