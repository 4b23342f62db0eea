// Package render draws a resolved scalebar layout onto a gonum/plot vector
// canvas and encodes it as PNG or SVG.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/banshee-data/scalebar/internal/config"
	"github.com/banshee-data/scalebar/internal/layout"
)

// Options controls the appearance of a drawn scalebar. Lengths are in
// points, which map 1:1 to pixels at the 72 DPI used for PNG output.
type Options struct {
	FontSize   float64
	BarHeight  float64
	Padding    float64
	LineWidth  float64
	Foreground color.Color
	Background color.Color
	// Fill is the solid colour of Bar and the odd segments of AlternatingBar.
	Fill color.Color
}

// DefaultOptions returns dark-on-white options.
func DefaultOptions() Options {
	return Options{
		FontSize:   12,
		BarHeight:  8,
		Padding:    6,
		LineWidth:  1.5,
		Foreground: color.Black,
		Background: color.White,
		Fill:       color.Gray{Y: 0x30},
	}
}

// OptionsFrom applies the rendering fields of cfg to DefaultOptions.
func OptionsFrom(cfg *config.ScalebarConfig) Options {
	o := DefaultOptions()
	o.FontSize = cfg.GetFontSize()
	o.BarHeight = cfg.GetBarHeight()
	o.Padding = cfg.GetPadding()
	return o
}

// Face returns the label font face at the configured size.
func (o Options) Face() font.Face {
	fnt := plot.DefaultFont
	fnt.Variant = "Sans"
	return font.DefaultCache.Lookup(fnt, vg.Points(o.FontSize))
}

// Measurer returns a layout.TextMeasurer using the label font, so segment
// counts are chosen with the same metrics the labels are drawn with.
func (o Options) Measurer() FontMeasurer {
	return FontMeasurer{face: o.Face()}
}

// FontMeasurer measures label widths with gonum/plot font metrics.
type FontMeasurer struct {
	face font.Face
}

// Width returns the advance width of s in points.
func (m FontMeasurer) Width(s string) float64 {
	return m.face.Width(s).Points()
}

const (
	labelGap = 2
	pngDPI   = 72
)

// Size returns the canvas size needed to draw l.
func (o Options) Size(l layout.Layout) (width, height float64) {
	face := o.Face()
	textH := face.Extents().Height.Points()
	width = l.AvailableWidth + 2*o.Padding
	height = 2*o.Padding + o.BarHeight + labelGap + textH
	if l.Secondary != nil {
		height += o.BarHeight + labelGap + textH
	}
	return width, height
}

// PNG renders l as a PNG image.
func PNG(w io.Writer, l layout.Layout, opts Options) error {
	width, height := opts.Size(l)
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Points(width), vg.Points(height)),
		vgimg.UseDPI(pngDPI),
	)
	Draw(c, l, opts)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SVG renders l as an SVG document.
func SVG(w io.Writer, l layout.Layout, opts Options) error {
	width, height := opts.Size(l)
	c := vgsvg.New(vg.Points(width), vg.Points(height))
	Draw(c, l, opts)
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("encode svg: %w", err)
	}
	return nil
}

// painter carries the per-draw state shared by the style functions.
type painter struct {
	c      vg.Canvas
	opts   Options
	face   font.Face
	width  float64
	height float64
	x0     float64
}

// Draw paints l onto c. The canvas should be at least opts.Size(l).
func Draw(c vg.Canvas, l layout.Layout, opts Options) {
	width, height := opts.Size(l)
	p := &painter{
		c:      c,
		opts:   opts,
		face:   opts.Face(),
		width:  width,
		height: height,
		x0:     opts.Padding + l.Offset,
	}

	c.SetColor(opts.Background)
	c.Fill(rect(0, 0, width, height))
	c.SetLineWidth(vg.Points(opts.LineWidth))

	top := height - opts.Padding
	switch l.Style {
	case layout.Bar:
		p.bar(l.Primary, top)
	case layout.AlternatingBar:
		p.alternatingBar(l.Primary, l.Segments, top)
	case layout.Line:
		p.line(l.Primary, top, false)
	case layout.GraduatedLine:
		p.line(l.Primary, top, true)
	case layout.DualUnitLine:
		p.dualUnitLine(l)
	}
}

func (p *painter) bar(s layout.Scale, top float64) {
	bottom := top - p.opts.BarHeight
	r := rect(p.x0, bottom, s.Width, p.opts.BarHeight)
	p.c.SetColor(p.opts.Fill)
	p.c.Fill(r)
	p.c.SetColor(p.opts.Foreground)
	p.c.Stroke(r)
	p.labelBelow(s.Label, p.x0+s.Width/2, bottom)
}

func (p *painter) alternatingBar(s layout.Scale, segments int, top float64) {
	bottom := top - p.opts.BarHeight
	segW := s.Width / float64(segments)
	for i := 0; i < segments; i++ {
		if i%2 == 0 {
			p.c.SetColor(p.opts.Fill)
		} else {
			p.c.SetColor(p.opts.Background)
		}
		p.c.Fill(rect(p.x0+float64(i)*segW, bottom, segW, p.opts.BarHeight))
	}
	p.c.SetColor(p.opts.Foreground)
	p.c.Stroke(rect(p.x0, bottom, s.Width, p.opts.BarHeight))
	for _, t := range s.Ticks {
		p.labelBelow(t.Label, p.x0+t.X, bottom)
	}
}

// line draws a baseline with end ticks; graduated lines add a half-height
// tick and a label at every segment boundary.
func (p *painter) line(s layout.Scale, top float64, graduated bool) {
	bottom := top - p.opts.BarHeight
	p.c.SetColor(p.opts.Foreground)
	p.c.Stroke(segment(p.x0, bottom, p.x0+s.Width, bottom))

	last := len(s.Ticks) - 1
	for i, t := range s.Ticks {
		x := p.x0 + t.X
		end := i == 0 || i == last
		switch {
		case end:
			p.c.Stroke(segment(x, bottom, x, top))
		case graduated:
			p.c.Stroke(segment(x, bottom, x, bottom+p.opts.BarHeight/2))
		}
		if graduated {
			p.labelBelow(t.Label, x, bottom)
		}
	}
	if !graduated {
		p.labelBelow(s.Label, p.x0+s.Width/2, bottom)
	}
}

// dualUnitLine draws the primary scale above a shared baseline and the
// secondary scale below it.
func (p *painter) dualUnitLine(l layout.Layout) {
	ext := p.face.Extents()
	textH := ext.Height.Points()
	lineY := p.opts.Padding + textH + labelGap + p.opts.BarHeight
	p.c.SetColor(p.opts.Foreground)
	p.c.Stroke(segment(p.x0, lineY, p.x0+l.Width(), lineY))

	primary := l.Primary
	last := len(primary.Ticks) - 1
	for i, t := range primary.Ticks {
		x := p.x0 + t.X
		h := p.opts.BarHeight
		if i != 0 && i != last {
			h /= 2
		}
		p.c.Stroke(segment(x, lineY, x, lineY+h))
		p.text(t.Label, x, lineY+p.opts.BarHeight+labelGap+ext.Descent.Points())
	}

	if l.Secondary == nil {
		return
	}
	secondary := *l.Secondary
	for _, t := range secondary.Ticks {
		x := p.x0 + t.X
		p.c.Stroke(segment(x, lineY, x, lineY-p.opts.BarHeight))
	}
	p.labelBelow(secondary.Label, p.x0+secondary.Width, lineY-p.opts.BarHeight)
}

// labelBelow centres s horizontally on x with its top labelGap below y.
func (p *painter) labelBelow(s string, x, y float64) {
	p.text(s, x, y-labelGap-p.face.Extents().Ascent.Points())
}

// text draws s centred on x with its baseline at y, kept inside the canvas.
func (p *painter) text(s string, x, baseline float64) {
	if s == "" {
		return
	}
	w := p.face.Width(s).Points()
	left := math.Max(0, math.Min(x-w/2, p.width-w))
	p.c.SetColor(p.opts.Foreground)
	p.c.FillString(p.face, vg.Point{X: vg.Length(left), Y: vg.Length(baseline)}, s)
}

func rect(x, y, w, h float64) vg.Path {
	var path vg.Path
	path.Move(vg.Point{X: vg.Length(x), Y: vg.Length(y)})
	path.Line(vg.Point{X: vg.Length(x + w), Y: vg.Length(y)})
	path.Line(vg.Point{X: vg.Length(x + w), Y: vg.Length(y + h)})
	path.Line(vg.Point{X: vg.Length(x), Y: vg.Length(y + h)})
	path.Close()
	return path
}

func segment(x1, y1, x2, y2 float64) vg.Path {
	var path vg.Path
	path.Move(vg.Point{X: vg.Length(x1), Y: vg.Length(y1)})
	path.Line(vg.Point{X: vg.Length(x2), Y: vg.Length(y2)})
	return path
}
