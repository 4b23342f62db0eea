// Command sweep evaluates scalebar lengths across a range of map lengths
// and writes PNG plots, an HTML chart and a CSV of the samples.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/banshee-data/scalebar/internal/config"
	"github.com/banshee-data/scalebar/internal/fsutil"
	"github.com/banshee-data/scalebar/internal/layout"
	"github.com/banshee-data/scalebar/internal/monitoring"
	"github.com/banshee-data/scalebar/internal/sweep"
	"github.com/banshee-data/scalebar/internal/timeutil"
	"github.com/banshee-data/scalebar/internal/units"
	"github.com/banshee-data/scalebar/internal/version"
)

func main() {
	if err := run(os.Args[1:], fsutil.OSFileSystem{}, timeutil.RealClock{}, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, fsys fsutil.FileSystem, clock timeutil.Clock, stdout io.Writer) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a scalebar JSON config")
	minLength := fs.Float64("min", 0, "Smallest map length in meters (default from config)")
	maxLength := fs.Float64("max", 0, "Largest map length in meters (default from config)")
	points := fs.Int("n", 0, "Number of log-spaced map lengths (default from config)")
	system := fs.String("system", "", "Unit system: metric or imperial")
	style := fs.String("style", "", "Style, selects the segmented or unsegmented table")
	maxSegments := fs.Int("max-segments", -1, "Segment budget, 0 for uncapped (default from config)")
	outDir := fs.String("out-dir", "plots", "Directory for sweep artifacts")
	verbose := fs.Bool("v", false, "Log every sample")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Fprintf(stdout, "sweep %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return nil
	}
	monitoring.SetVerbose(*verbose)

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		return err
	}
	p := sweep.ParamsFrom(cfg)
	if *minLength > 0 {
		p.Min = *minLength
	}
	if *maxLength > 0 {
		p.Max = *maxLength
	}
	if *points > 0 {
		p.Points = *points
	}
	if *system != "" {
		if p.System, err = units.ParseSystem(*system); err != nil {
			return err
		}
	}
	if *style != "" {
		s, err := layout.ParseStyle(*style)
		if err != nil {
			return err
		}
		p.Segmented = s.Segmented()
	}
	if *maxSegments >= 0 {
		p.MaxSegments = *maxSegments
	}

	start := clock.Now()
	res, err := sweep.Run(p)
	if err != nil {
		return err
	}

	dir := filepath.Join(*outDir, res.RunName(), start.UTC().Format("20060102-150405"))
	if err := writeArtifacts(fsys, dir, res); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%d samples, min ratio %.3f, mean ratio %.3f\n", len(res.Samples), res.MinRatio, res.MeanRatio)
	fmt.Fprintf(stdout, "wrote %s in %v\n", dir, clock.Since(start))
	return nil
}

func writeArtifacts(fsys fsutil.FileSystem, dir string, res sweep.Result) error {
	plotPath, err := sweep.WritePlot(fsys, dir, res)
	if err != nil {
		return err
	}
	log.Printf("wrote %s", plotPath)

	var chart bytes.Buffer
	if err := sweep.WriteChart(&chart, res); err != nil {
		return err
	}
	if err := fsys.WriteFile(filepath.Join(dir, "chart.html"), chart.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}

	var samples bytes.Buffer
	if err := sweep.WriteCSV(&samples, res); err != nil {
		return err
	}
	if err := fsys.WriteFile(filepath.Join(dir, "samples.csv"), samples.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	return nil
}
