// Package profile instruments persistence calls with wall-clock,
// peak-memory and artifact-size measurements, and writes the tabular
// profiling report.
package profile

import (
	"os"
	"runtime"
	"time"

	"github.com/icetrails/pathbench/internal/layers"
)

// Record is one profiling row for a persisted layer. Err is empty on
// success; a failed write still produces a record so a batch can
// account for every attempted layer.
type Record struct {
	RunID        string
	Method       string
	Layer        string
	PeakMemoryMB float64
	DurationSec  float64
	FileSizeMB   float64
	Err          string
}

// Failed reports whether the record describes a failed write.
func (r Record) Failed() bool { return r.Err != "" }

const sampleInterval = 10 * time.Millisecond

// Measure runs fn while sampling heap usage, then stats the artifact.
// A failing fn yields a record with Err set rather than an error; the
// artifact size is still recorded when the file exists.
func Measure(runID, method, layer, artifact string, fn func() error) Record {
	stop := make(chan struct{})
	peakCh := make(chan float64, 1)
	go func() {
		var ms runtime.MemStats
		peak := 0.0
		ticker := time.NewTicker(sampleInterval)
		defer ticker.Stop()
		for {
			runtime.ReadMemStats(&ms)
			if mb := float64(ms.HeapAlloc) / (1 << 20); mb > peak {
				peak = mb
			}
			select {
			case <-stop:
				peakCh <- peak
				return
			case <-ticker.C:
			}
		}
	}()

	start := time.Now()
	err := fn()
	duration := time.Since(start)
	close(stop)

	rec := Record{
		RunID:        runID,
		Method:       method,
		Layer:        layer,
		PeakMemoryMB: <-peakCh,
		DurationSec:  duration.Seconds(),
	}
	if err != nil {
		rec.Err = err.Error()
	}
	if fi, statErr := os.Stat(artifact); statErr == nil {
		rec.FileSizeMB = float64(fi.Size()) / (1 << 20)
	}
	return rec
}

// A LayerWriter persists one collection as a named layer of the
// artifact at Path.
type LayerWriter interface {
	WriteLayer(col layers.Collection, layer string) error
	Path() string
}

// ProfiledWriter wraps a LayerWriter so every write yields a Record.
type ProfiledWriter struct {
	Writer LayerWriter
	RunID  string
}

// Write persists the collection as the named layer and returns its
// profiling record. Failures are captured in the record, never
// propagated, so the caller's batch continues.
func (p *ProfiledWriter) Write(col layers.Collection, layer string) Record {
	return Measure(p.RunID, col.Method, layer, p.Writer.Path(), func() error {
		return p.Writer.WriteLayer(col, layer)
	})
}
