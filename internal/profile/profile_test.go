package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/icetrails/pathbench/internal/layers"
)

func TestMeasureSuccess(t *testing.T) {
	artifact := filepath.Join(t.TempDir(), "out.bin")

	rec := Measure("run-1", "rdp", "seg01_rdp", artifact, func() error {
		time.Sleep(20 * time.Millisecond)
		return os.WriteFile(artifact, make([]byte, 2<<20), 0o644)
	})

	if rec.Failed() {
		t.Fatalf("unexpected failure: %s", rec.Err)
	}
	if rec.RunID != "run-1" || rec.Method != "rdp" || rec.Layer != "seg01_rdp" {
		t.Errorf("identity fields not carried through: %+v", rec)
	}
	if rec.DurationSec < 0.02 {
		t.Errorf("duration %v, want >= 0.02s", rec.DurationSec)
	}
	if rec.PeakMemoryMB <= 0 {
		t.Errorf("peak memory %v, want > 0", rec.PeakMemoryMB)
	}
	if rec.FileSizeMB < 1.9 || rec.FileSizeMB > 2.1 {
		t.Errorf("file size %v MB, want ~2", rec.FileSizeMB)
	}
}

func TestMeasureFailureStillProducesRecord(t *testing.T) {
	rec := Measure("run-1", "rdp", "seg01_rdp", filepath.Join(t.TempDir(), "never-written"), func() error {
		return errors.New("disk on fire")
	})

	if !rec.Failed() {
		t.Fatal("record should report failure")
	}
	if rec.Err != "disk on fire" {
		t.Errorf("Err = %q", rec.Err)
	}
	if rec.FileSizeMB != 0 {
		t.Errorf("file size %v for a missing artifact, want 0", rec.FileSizeMB)
	}
}

type stubWriter struct {
	path   string
	layers []string
	err    error
}

func (s *stubWriter) WriteLayer(col layers.Collection, layer string) error {
	if s.err != nil {
		return s.err
	}
	s.layers = append(s.layers, layer)
	return nil
}

func (s *stubWriter) Path() string { return s.path }

func TestProfiledWriter(t *testing.T) {
	stub := &stubWriter{path: filepath.Join(t.TempDir(), "out.gpkg")}
	pw := &ProfiledWriter{Writer: stub, RunID: "run-2"}

	rec := pw.Write(layers.Collection{Method: "grid"}, "seg01_grid")
	if rec.Failed() {
		t.Fatalf("unexpected failure: %s", rec.Err)
	}
	if rec.Method != "grid" || rec.Layer != "seg01_grid" || rec.RunID != "run-2" {
		t.Errorf("record fields: %+v", rec)
	}
	if len(stub.layers) != 1 || stub.layers[0] != "seg01_grid" {
		t.Errorf("writer saw layers %v", stub.layers)
	}

	stub.err = errors.New("locked")
	rec = pw.Write(layers.Collection{Method: "grid"}, "seg01_grid")
	if !rec.Failed() || rec.Err != "locked" {
		t.Errorf("failure not captured: %+v", rec)
	}
}

func TestReportRoundTrip(t *testing.T) {
	records := []Record{
		{RunID: "run-3", Method: "rdp", Layer: "a_rdp", PeakMemoryMB: 12.5, DurationSec: 0.031, FileSizeMB: 1.25},
		{RunID: "run-3", Method: "lowess", Layer: "a_lowess", PeakMemoryMB: 40.125, DurationSec: 2.5, FileSizeMB: 0},
		{RunID: "run-3", Method: "vw", Layer: "a_vw", Err: "database is locked"},
	}

	path := filepath.Join(t.TempDir(), "report.csv")
	if err := WriteReport(path, records); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	got, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}
	if diff := cmp.Diff(records, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadReportRejectsWrongShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.csv")
	if err := os.WriteFile(path, []byte("method,duration\nrdp,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadReport(path); err == nil {
		t.Error("ReadReport accepted a report with missing columns")
	}
}
