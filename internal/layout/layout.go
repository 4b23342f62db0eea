// Package layout turns a map measurement and an available pixel width into
// a complete scalebar description: its length, display unit, bar width,
// segment count and tick labels.
//
// This is the rendering-side caller of package scalebar. It owns the pixel
// and label-width policy that decides how many segments can be labelled
// without overlap; scalebar only applies the nice-number table.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/scalebar/internal/scalebar"
	"github.com/banshee-data/scalebar/internal/units"
)

// DefaultLabelSpacing is the width reserved per segment as a multiple of
// the widest label.
const DefaultLabelSpacing = 1.5

// MaxAvailableWidth bounds AvailableWidth, and with it the raster a
// renderer allocates for one scalebar.
const MaxAvailableWidth = 8192

// minLabel is measured instead of shorter labels, since intermediate
// segment labels may need a decimal place even when the full length does not.
const minLabel = "9.9"

// ErrInvalidRequest is returned for requests that cannot produce a scalebar.
var ErrInvalidRequest = errors.New("invalid scalebar request")

// TextMeasurer reports the rendered width of a label in pixels.
type TextMeasurer interface {
	Width(s string) float64
}

// FixedMeasurer measures every character as the same number of pixels.
type FixedMeasurer float64

func (f FixedMeasurer) Width(s string) float64 {
	return float64(len([]rune(s))) * float64(f)
}

// Request describes the space a scalebar must fit in.
type Request struct {
	// MapLength is the ground distance in meters spanned by AvailableWidth.
	MapLength float64
	// AvailableWidth is the maximum bar width in pixels.
	AvailableWidth float64

	System    units.System
	Style     Style
	Alignment Alignment

	// MaxSegments caps the segment count of segmented styles. 0 means no cap.
	MaxSegments int
	// LabelSpacing defaults to DefaultLabelSpacing when <= 0.
	LabelSpacing float64
}

func (r Request) validate() error {
	if !(r.MapLength > 0) || math.IsInf(r.MapLength, 0) {
		return fmt.Errorf("%w: map length must be positive, got %v", ErrInvalidRequest, r.MapLength)
	}
	if !(r.AvailableWidth > 0) || r.AvailableWidth > MaxAvailableWidth {
		return fmt.Errorf("%w: available width must be in (0, %d], got %v", ErrInvalidRequest, MaxAvailableWidth, r.AvailableWidth)
	}
	if r.MaxSegments < 0 {
		return fmt.Errorf("%w: max segments must be non-negative, got %d", ErrInvalidRequest, r.MaxSegments)
	}
	if _, ok := styleNames[r.Style]; !ok {
		return fmt.Errorf("%w: unknown style %d", ErrInvalidRequest, int(r.Style))
	}
	return nil
}

func (r Request) labelSpacing() float64 {
	if r.LabelSpacing <= 0 {
		return DefaultLabelSpacing
	}
	return r.LabelSpacing
}

// Tick is a labelled position along a scale. X is relative to the bar start.
type Tick struct {
	X     float64 `json:"x"`
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

// Scale is one measured bar.
type Scale struct {
	// BaseLength is the bar length in the system's base unit (m or ft).
	BaseLength float64          `json:"base_length"`
	Unit       units.LinearUnit `json:"unit"`
	// Length is BaseLength expressed in Unit.
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Label  string  `json:"label"`
	Ticks  []Tick  `json:"ticks"`
}

// Layout is a fully resolved scalebar.
type Layout struct {
	Style          Style        `json:"style"`
	Alignment      Alignment    `json:"alignment"`
	System         units.System `json:"system"`
	AvailableWidth float64      `json:"available_width"`
	// Offset is the x position of the bar start within AvailableWidth.
	Offset    float64 `json:"offset"`
	Segments  int     `json:"segments"`
	Primary   Scale   `json:"primary"`
	Secondary *Scale  `json:"secondary,omitempty"`
}

// Width returns the width of the widest scale.
func (l Layout) Width() float64 {
	w := l.Primary.Width
	if l.Secondary != nil && l.Secondary.Width > w {
		w = l.Secondary.Width
	}
	return w
}

// Compute resolves a Request. A nil measurer falls back to FixedMeasurer(7).
func Compute(req Request, m TextMeasurer) (Layout, error) {
	if err := req.validate(); err != nil {
		return Layout{}, err
	}
	if m == nil {
		m = FixedMeasurer(7)
	}

	base := req.System.BaseUnit()
	maxLength := units.Meters.ConvertTo(base, req.MapLength)
	segmented := req.Style.Segmented()

	best, err := scalebar.BestLength(maxLength, base, segmented)
	if err != nil {
		return Layout{}, fmt.Errorf("best length: %w", err)
	}
	primary := newScale(best, base, req.System, req.AvailableWidth*best/maxLength)

	segments := 1
	if segmented {
		budget := maxSegments(primary, req, m)
		if segments, err = scalebar.OptimalSegments(primary.Length, budget); err != nil {
			return Layout{}, fmt.Errorf("segments: %w", err)
		}
	}
	primary.Ticks = ticks(primary, segments, segmented)

	l := Layout{
		Style:          req.Style,
		Alignment:      req.Alignment,
		System:         req.System,
		AvailableWidth: req.AvailableWidth,
		Segments:       segments,
		Primary:        primary,
	}

	if req.Style == DualUnitLine {
		secondary, err := secondaryScale(primary, req.System.Other())
		if err != nil {
			return Layout{}, fmt.Errorf("secondary scale: %w", err)
		}
		l.Secondary = &secondary
	}

	switch req.Alignment {
	case AlignCenter:
		l.Offset = (req.AvailableWidth - l.Width()) / 2
	case AlignRight:
		l.Offset = req.AvailableWidth - l.Width()
	}
	return l, nil
}

func newScale(baseLength float64, base units.LinearUnit, system units.System, width float64) Scale {
	display := scalebar.SelectUnit(baseLength, system)
	length := base.ConvertTo(display, baseLength)
	return Scale{
		BaseLength: baseLength,
		Unit:       display,
		Length:     length,
		Width:      width,
		Label:      unitLabel(length, display),
	}
}

func unitLabel(v float64, u units.LinearUnit) string {
	return scalebar.Label(v) + " " + u.Abbreviation()
}

// maxSegments is the number of segments whose labels fit without overlap.
func maxSegments(s Scale, req Request, m TextMeasurer) int {
	widest := scalebar.Label(s.Length)
	if len(widest) < len(minLabel) {
		widest = minLabel
	}
	n := math.MaxInt32
	if w := m.Width(widest); w > 0 {
		n = int(s.Width / (req.labelSpacing() * w))
	}
	if req.MaxSegments > 0 && n > req.MaxSegments {
		n = req.MaxSegments
	}
	return n
}

func ticks(s Scale, segments int, labelled bool) []Tick {
	out := make([]Tick, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := Tick{
			X:     s.Width * float64(i) / float64(segments),
			Value: s.Length * float64(i) / float64(segments),
		}
		switch {
		case i == segments:
			t.Label = s.Label
		case labelled:
			t.Label = scalebar.Label(t.Value)
		}
		out = append(out, t)
	}
	return out
}

// secondaryScale measures the primary bar's ground length in the other
// system and reduces it to a nice, unsegmented length no longer than primary.
func secondaryScale(primary Scale, system units.System) (Scale, error) {
	base := system.BaseUnit()
	full := primary.Unit.ConvertTo(base, primary.Length)
	best, err := scalebar.BestLength(full, base, false)
	if err != nil {
		return Scale{}, err
	}
	s := newScale(best, base, system, primary.Width*best/full)
	s.Ticks = ticks(s, 1, false)
	return s, nil
}
