// Command pathbench generates synthetic flight paths, runs the
// subsampling algorithm set over them at each configured zoom level,
// writes the results as GeoPackage layers and emits a profiling
// report per persisted layer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/icetrails/pathbench/internal/config"
	"github.com/icetrails/pathbench/internal/gpkg"
	"github.com/icetrails/pathbench/internal/layers"
	"github.com/icetrails/pathbench/internal/profile"
	"github.com/icetrails/pathbench/internal/subsample"
	"github.com/icetrails/pathbench/internal/synth"
	"github.com/icetrails/pathbench/internal/track"
)

// Config holds the batch configuration.
type Config struct {
	Points   int
	Paths    int
	Levels   []float64
	GPKGPath string
	Report   string
	CSVDir   string
	Noise    string
	Seed     uint64
	Workers  int
	Replace  bool
}

func parseFlags() (Config, error) {
	var (
		configPath = flag.String("config", "", "optional JSON batch config; explicit flags win")
		points     = flag.Int("points", 10000, "points per flight path")
		paths      = flag.Int("paths", 5, "number of flight paths")
		levelsFlag = flag.String("levels", "10,100,1000", "comma-separated subsample levels")
		gpkgPath   = flag.String("gpkg", "synthetic_data.gpkg", "output GeoPackage path")
		report     = flag.String("report", "detailed_profiling_results.csv", "profiling report path")
		csvDir     = flag.String("csv-dir", ".", "directory for intermediate per-path CSV files")
		noise      = flag.String("noise", synth.NoiseGaussian, "noise mode: gaussian, uniform or none")
		seed       = flag.Uint64("seed", 0, "rng seed (0 = time-based)")
		workers    = flag.Int("workers", 4, "concurrent trajectory pipelines")
		replace    = flag.Bool("replace", false, "recreate the GeoPackage instead of overwriting layers")
	)
	flag.Parse()

	cfg := Config{
		Points:   *points,
		Paths:    *paths,
		GPKGPath: *gpkgPath,
		Report:   *report,
		CSVDir:   *csvDir,
		Noise:    *noise,
		Seed:     *seed,
		Workers:  *workers,
		Replace:  *replace,
	}

	for _, part := range strings.Split(*levelsFlag, ",") {
		level, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid level %q: %w", part, err)
		}
		if level <= 0 {
			return Config{}, fmt.Errorf("invalid level %v: levels must be > 0", level)
		}
		cfg.Levels = append(cfg.Levels, level)
	}

	if *configPath != "" {
		fileCfg, err := config.Load(*configPath)
		if err != nil {
			return Config{}, err
		}
		applyConfig(&cfg, fileCfg)
	}

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// applyConfig fills cfg from the file for every flag the user did not
// set explicitly on the command line.
func applyConfig(cfg *Config, file *config.BatchConfig) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["points"] && file.Points != nil {
		cfg.Points = *file.Points
	}
	if !set["paths"] && file.Paths != nil {
		cfg.Paths = *file.Paths
	}
	if !set["levels"] && len(file.Levels) > 0 {
		cfg.Levels = file.Levels
	}
	if !set["gpkg"] && file.GPKGPath != nil {
		cfg.GPKGPath = *file.GPKGPath
	}
	if !set["report"] && file.Report != nil {
		cfg.Report = *file.Report
	}
	if !set["csv-dir"] && file.CSVDir != nil {
		cfg.CSVDir = *file.CSVDir
	}
	if !set["noise"] && file.Noise != nil {
		cfg.Noise = *file.Noise
	}
	if !set["seed"] && file.Seed != nil {
		cfg.Seed = *file.Seed
	}
	if !set["workers"] && file.Workers != nil {
		cfg.Workers = *file.Workers
	}
	if !set["replace"] && file.Replace != nil {
		cfg.Replace = *file.Replace
	}
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		log.Fatalf("bad configuration: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

// run executes the full batch: generate → CSV → simplify → aggregate
// → profiled writes → report. Per-layer failures are recorded and the
// batch continues; only catastrophic failures return an error.
func run(cfg Config) error {
	gen, err := synth.New(cfg.Noise, cfg.Seed)
	if err != nil {
		return err
	}

	open := gpkg.Open
	if cfg.Replace {
		open = gpkg.Create
	}
	writer, err := open(cfg.GPKGPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	runID := uuid.NewString()
	if err := writer.RecordRun(runID, cfg.Noise, cfg.Points, cfg.Paths, cfg.Levels); err != nil {
		return err
	}
	log.Printf("run %s: %d paths x %d points, levels %v", runID, cfg.Paths, cfg.Points, cfg.Levels)

	if err := os.MkdirAll(cfg.CSVDir, 0o755); err != nil {
		return fmt.Errorf("create csv dir: %w", err)
	}
	csvPaths := make([]string, cfg.Paths)
	for i := 0; i < cfg.Paths; i++ {
		traj, err := gen.Generate(cfg.Points, i)
		if err != nil {
			return err
		}
		csvPaths[i] = filepath.Join(cfg.CSVDir, fmt.Sprintf("synthetic_data_%d.csv", i+1))
		if err := track.WriteCSV(csvPaths[i], traj); err != nil {
			return err
		}
		log.Printf("saved %s", csvPaths[i])
	}

	records, err := processAll(cfg, writer, runID, csvPaths)
	if err != nil {
		partial, _ := writer.Layers()
		return fmt.Errorf("%w (layers already written: %s)", err, strings.Join(partial, ", "))
	}

	if err := profile.WriteReport(cfg.Report, records); err != nil {
		partial, _ := writer.Layers()
		return fmt.Errorf("%w (layers already written: %s)", err, strings.Join(partial, ", "))
	}
	log.Printf("profiling results saved to %s", cfg.Report)

	failed := 0
	for _, r := range records {
		if r.Failed() {
			failed++
		}
	}
	if failed > 0 {
		log.Printf("%d of %d layer writes failed; see %s", failed, len(records), cfg.Report)
	}
	return nil
}

// processAll runs each trajectory's pipeline in its own goroutine.
// Simplification is pure per-trajectory computation; the writer is the
// one shared resource and serializes internally, so only the write
// call contends.
func processAll(cfg Config, writer *gpkg.Writer, runID string, csvPaths []string) ([]profile.Record, error) {
	pw := &profile.ProfiledWriter{Writer: writer, RunID: runID}

	recCh := make(chan profile.Record)
	collected := make(chan []profile.Record)
	go func() {
		var records []profile.Record
		for rec := range recCh {
			if rec.Failed() {
				log.Printf("failed %s: %s", rec.Layer, rec.Err)
			} else {
				log.Printf("added %s: peak memory %.2f MB, duration %.3f s, file size %.2f MB",
					rec.Layer, rec.PeakMemoryMB, rec.DurationSec, rec.FileSizeMB)
			}
			records = append(records, rec)
		}
		collected <- records
	}()

	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.Workers)
	for i, csvPath := range csvPaths {
		wg.Add(1)
		go func(i int, csvPath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			traj, err := track.ReadCSV(csvPath)
			if err != nil {
				log.Printf("skipping %s: %v", csvPath, err)
				return
			}

			// Per-pipeline simplifier set: the random sampler is
			// stateful and must not be shared across goroutines.
			simplifiers := subsample.Default(cfg.Seed + uint64(i))
			cols, err := layers.Aggregate(traj, cfg.Levels, simplifiers)
			if err != nil {
				log.Printf("skipping %s: %v", traj.Meta.Segment, err)
				return
			}

			for _, col := range cols {
				layer := traj.Meta.Segment + "_" + col.Method
				recCh <- pw.Write(col, layer)
			}
		}(i, csvPath)
	}

	wg.Wait()
	close(recCh)
	return <-collected, nil
}
