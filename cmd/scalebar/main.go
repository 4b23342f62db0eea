// Command scalebar computes a single scalebar and prints or renders it.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/scalebar/internal/config"
	"github.com/banshee-data/scalebar/internal/db"
	"github.com/banshee-data/scalebar/internal/layout"
	"github.com/banshee-data/scalebar/internal/monitoring"
	"github.com/banshee-data/scalebar/internal/render"
	"github.com/banshee-data/scalebar/internal/units"
	"github.com/banshee-data/scalebar/internal/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

type options struct {
	mapLength   float64
	width       float64
	system      string
	style       string
	align       string
	maxSegments int
	configPath  string
	dbPath      string
	preset      string
	out         string
	asJSON      bool
	verbose     bool
	showVersion bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("scalebar", flag.ContinueOnError)
	fs.Float64Var(&o.mapLength, "map-length", 0, "Ground distance in meters spanned by the available width (required)")
	fs.Float64Var(&o.width, "width", 0, "Available width in pixels (default from config)")
	fs.StringVar(&o.system, "system", "", "Unit system: metric or imperial")
	fs.StringVar(&o.style, "style", "", "Style: bar, alternating_bar, line, graduated_line, dual_unit_line")
	fs.StringVar(&o.align, "align", "", "Alignment: left, center, right")
	fs.IntVar(&o.maxSegments, "max-segments", -1, "Segment cap, 0 for uncapped (default from config)")
	fs.StringVar(&o.configPath, "config", "", "Path to a scalebar JSON config")
	fs.StringVar(&o.dbPath, "db", "", "Presets database used with -preset")
	fs.StringVar(&o.preset, "preset", "", "Preset name or ID to start from")
	fs.StringVar(&o.out, "out", "", "Render to this .png or .svg file instead of printing")
	fs.BoolVar(&o.asJSON, "json", false, "Print the layout as JSON")
	fs.BoolVar(&o.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	err := fs.Parse(args)
	return o, err
}

func run(args []string, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	if o.showVersion {
		fmt.Fprintf(stdout, "scalebar %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return nil
	}
	monitoring.SetVerbose(o.verbose)

	cfg, err := resolveConfig(o)
	if err != nil {
		return err
	}
	opts := render.OptionsFrom(cfg)
	l, err := layout.Compute(cfg.Request(o.mapLength), opts.Measurer())
	if err != nil {
		return err
	}
	monitoring.Debugf("layout: %s %s, %d segments, %.1f px", l.Style, l.Primary.Label, l.Segments, l.Primary.Width)

	switch {
	case o.out != "":
		return writeImage(o.out, l, opts)
	case o.asJSON:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	default:
		printLayout(stdout, l)
		return nil
	}
}

// resolveConfig layers config file, preset and flags, in that order.
func resolveConfig(o options) (*config.ScalebarConfig, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, err
	}

	if o.preset != "" {
		if o.dbPath == "" {
			return nil, fmt.Errorf("-preset requires -db")
		}
		store, err := db.NewDB(o.dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		p, err := store.GetPresetByName(context.Background(), o.preset)
		if errors.Is(err, db.ErrPresetNotFound) {
			p, err = store.GetPreset(context.Background(), o.preset)
		}
		if err != nil {
			return nil, err
		}
		cfg = p.Apply(cfg)
	}

	c := *cfg
	if o.width > 0 {
		c.WidthPx = &o.width
	}
	if o.system != "" {
		if _, err := units.ParseSystem(o.system); err != nil {
			return nil, err
		}
		c.UnitSystem = &o.system
	}
	if o.style != "" {
		c.Style = &o.style
	}
	if o.align != "" {
		c.Alignment = &o.align
	}
	if o.maxSegments >= 0 {
		c.MaxSegments = &o.maxSegments
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func writeImage(path string, l layout.Layout, opts render.Options) error {
	var encode func(io.Writer, layout.Layout, render.Options) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = render.PNG
	case ".svg":
		encode = render.SVG
	default:
		return fmt.Errorf("output file must end in .png or .svg, got %q", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := encode(f, l, opts); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}

func printLayout(w io.Writer, l layout.Layout) {
	fmt.Fprintf(w, "%s  %s  (%.1f of %.1f px, offset %.1f, segments %d)\n",
		l.Style, l.Primary.Label, l.Primary.Width, l.AvailableWidth, l.Offset, l.Segments)
	printTicks(w, l.Primary)
	if l.Secondary != nil {
		fmt.Fprintf(w, "secondary  %s  (%.1f px)\n", l.Secondary.Label, l.Secondary.Width)
		printTicks(w, *l.Secondary)
	}
}

func printTicks(w io.Writer, s layout.Scale) {
	for _, t := range s.Ticks {
		if t.Label == "" {
			continue
		}
		fmt.Fprintf(w, "  %7.1f px  %s\n", t.X, t.Label)
	}
}
