// Package sweep evaluates the best-length algorithm across a logarithmic
// range of map lengths and charts how much of the available width each
// chosen bar uses.
package sweep

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/scalebar/internal/config"
	"github.com/banshee-data/scalebar/internal/monitoring"
	"github.com/banshee-data/scalebar/internal/scalebar"
	"github.com/banshee-data/scalebar/internal/units"
)

// ErrInvalidParams is returned when a sweep range or point count is unusable.
var ErrInvalidParams = errors.New("invalid sweep parameters")

// Params describes a sweep. Min and Max are map lengths in meters.
type Params struct {
	Min       float64      `json:"min"`
	Max       float64      `json:"max"`
	Points    int          `json:"points"`
	System    units.System `json:"system"`
	Segmented bool         `json:"segmented"`
	// MaxSegments is the segment budget passed to OptimalSegments; 0 is uncapped.
	MaxSegments int `json:"max_segments"`
}

// ParamsFrom builds Params from the sweep fields of cfg.
func ParamsFrom(cfg *config.ScalebarConfig) Params {
	return Params{
		Min:         cfg.GetSweepMin(),
		Max:         cfg.GetSweepMax(),
		Points:      cfg.GetSweepPoints(),
		System:      cfg.GetSystem(),
		Segmented:   cfg.GetStyle().Segmented(),
		MaxSegments: cfg.GetMaxSegments(),
	}
}

func (p Params) validate() error {
	if !(p.Min > 0) || math.IsInf(p.Max, 0) || !(p.Max > p.Min) {
		return fmt.Errorf("%w: need 0 < min < max, got [%v, %v]", ErrInvalidParams, p.Min, p.Max)
	}
	if p.Points < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidParams, p.Points)
	}
	if p.MaxSegments < 0 {
		return fmt.Errorf("%w: max segments must be non-negative, got %d", ErrInvalidParams, p.MaxSegments)
	}
	return nil
}

// Sample is the outcome for one map length. Lengths are in the system's
// base unit.
type Sample struct {
	MaxLength  float64 `json:"max_length"`
	Best       float64 `json:"best"`
	Ratio      float64 `json:"ratio"`
	Unit       string  `json:"unit"`
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
	Segments   int     `json:"segments"`
}

// Result holds every sample and summary statistics of the width ratio.
type Result struct {
	Params    Params   `json:"params"`
	Samples   []Sample `json:"samples"`
	MinRatio  float64  `json:"min_ratio"`
	MeanRatio float64  `json:"mean_ratio"`
}

// Run evaluates BestLength at p.Points lengths spaced evenly in log space.
func Run(p Params) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{}, err
	}

	base := p.System.BaseUnit()
	budget := p.MaxSegments
	if budget == 0 {
		budget = math.MaxInt32
	}

	lengths := floats.LogSpan(make([]float64, p.Points), p.Min, p.Max)
	samples := make([]Sample, 0, len(lengths))
	ratios := make([]float64, 0, len(lengths))
	for _, meters := range lengths {
		maxLength := units.Meters.ConvertTo(base, meters)
		best, err := scalebar.BestLength(maxLength, base, p.Segmented)
		if err != nil {
			return Result{}, fmt.Errorf("best length for %v m: %w", meters, err)
		}

		display := scalebar.SelectUnit(best, p.System)
		length := base.ConvertTo(display, best)
		mag, err := scalebar.Magnitude(length)
		if err != nil {
			return Result{}, err
		}
		mult := scalebar.SelectMultiplier(length, mag)
		segments, err := scalebar.OptimalSegments(length, budget)
		if err != nil {
			return Result{}, err
		}

		s := Sample{
			MaxLength:  maxLength,
			Best:       best,
			Ratio:      best / maxLength,
			Unit:       display.ID(),
			Label:      scalebar.Label(length) + " " + display.Abbreviation(),
			Multiplier: mult.Multiplier,
			Segments:   segments,
		}
		monitoring.Debugf("sweep: %.6g %s -> %s (ratio %.3f)", maxLength, base.Abbreviation(), s.Label, s.Ratio)
		samples = append(samples, s)
		ratios = append(ratios, s.Ratio)
	}

	res := Result{
		Params:    p,
		Samples:   samples,
		MinRatio:  floats.Min(ratios),
		MeanRatio: stat.Mean(ratios, nil),
	}
	monitoring.Logf("sweep: %d lengths %s, min ratio %.3f, mean ratio %.3f",
		len(samples), p.System, res.MinRatio, res.MeanRatio)
	return res, nil
}

// RunName returns a filesystem-safe identifier for the sweep, derived from
// its system and range.
func (r Result) RunName() string {
	mode := "unsegmented"
	if r.Params.Segmented {
		mode = "segmented"
	}
	return sanitizeName(fmt.Sprintf("%s_%s_%g-%gm", r.Params.System, mode, r.Params.Min, r.Params.Max))
}

const maxNameLen = 128

// sanitizeName keeps ASCII letters, digits, dot, underscore and dash,
// collapsing every other run of characters to one underscore.
func sanitizeName(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range s {
		if b.Len() >= maxNameLen {
			break
		}
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '.' || r == '_' || r == '-'
		if !ok {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte('_')
		}
		pending = false
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
