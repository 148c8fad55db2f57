// Command profile-chart renders a pathbench profiling report as an
// HTML bar chart for quick side-by-side comparison of the subsampling
// methods.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/icetrails/pathbench/internal/profile"
)

func main() {
	report := flag.String("report", "detailed_profiling_results.csv", "profiling report to chart")
	output := flag.String("o", "profiling_chart.html", "output HTML path")
	flag.Parse()

	records, err := profile.ReadReport(*report)
	if err != nil {
		log.Fatalf("read report: %v", err)
	}
	if len(records) == 0 {
		log.Fatalf("report %s has no records", *report)
	}

	layersAxis := make([]string, 0, len(records))
	memory := make([]opts.BarData, 0, len(records))
	duration := make([]opts.BarData, 0, len(records))
	size := make([]opts.BarData, 0, len(records))
	for _, r := range records {
		label := r.Layer
		if label == "" {
			label = r.Method
		}
		layersAxis = append(layersAxis, label)
		memory = append(memory, opts.BarData{Value: r.PeakMemoryMB})
		duration = append(duration, opts.BarData{Value: r.DurationSec})
		size = append(size, opts.BarData{Value: r.FileSizeMB})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "pathbench profiling", Width: "1200px", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: "Subsampling write profile", Subtitle: *report}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(layersAxis).
		AddSeries("peak memory (MB)", memory).
		AddSeries("duration (s)", duration).
		AddSeries("file size (MB)", size)

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("create %s: %v", *output, err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		log.Fatalf("render chart: %v", err)
	}
	log.Printf("chart written to %s", *output)
}
