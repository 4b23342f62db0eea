package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/scalebar/internal/config"
	"github.com/banshee-data/scalebar/internal/layout"
	"github.com/banshee-data/scalebar/internal/units"
)

func computeLayout(t *testing.T, style layout.Style, opts Options) layout.Layout {
	t.Helper()
	l, err := layout.Compute(layout.Request{
		MapLength:      2500,
		AvailableWidth: 300,
		System:         units.Metric,
		Style:          style,
	}, opts.Measurer())
	require.NoError(t, err)
	return l
}

func TestFontMeasurer(t *testing.T) {
	m := DefaultOptions().Measurer()

	assert.Equal(t, 0.0, m.Width(""))
	one := m.Width("1")
	assert.Greater(t, one, 0.0)
	assert.Greater(t, m.Width("10"), one)
	assert.Greater(t, m.Width("2.4 km"), m.Width("2.4"))

	big := Options{FontSize: 24}.Measurer()
	assert.InEpsilon(t, 2*m.Width("9.9"), big.Width("9.9"), 0.05, "width scales with font size")
}

func TestSize(t *testing.T) {
	opts := DefaultOptions()
	single := computeLayout(t, layout.AlternatingBar, opts)
	dual := computeLayout(t, layout.DualUnitLine, opts)

	w, h := opts.Size(single)
	assert.Equal(t, 312.0, w)
	assert.Greater(t, h, 2*opts.Padding+opts.BarHeight)

	dw, dh := opts.Size(dual)
	assert.Equal(t, w, dw)
	assert.Greater(t, dh, h, "dual unit bars stack a second scale")
}

func TestPNG(t *testing.T) {
	opts := DefaultOptions()
	for _, style := range []layout.Style{layout.Bar, layout.AlternatingBar, layout.Line, layout.GraduatedLine, layout.DualUnitLine} {
		t.Run(style.String(), func(t *testing.T) {
			l := computeLayout(t, style, opts)

			var buf bytes.Buffer
			require.NoError(t, PNG(&buf, l, opts))

			img, err := png.Decode(&buf)
			require.NoError(t, err)
			w, h := opts.Size(l)
			assert.InDelta(t, w, float64(img.Bounds().Dx()), 1)
			assert.InDelta(t, h, float64(img.Bounds().Dy()), 1)

			// Corner is background.
			r, g, b, _ := img.At(0, 0).RGBA()
			assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
		})
	}
}

func TestPNGBarIsFilled(t *testing.T) {
	opts := DefaultOptions()
	l := computeLayout(t, layout.Bar, opts)

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, l, opts))
	img, err := png.Decode(&buf)
	require.NoError(t, err)

	// Middle of the bar, measured from the top edge in image space.
	x := int(opts.Padding + l.Primary.Width/2)
	y := int(opts.Padding + opts.BarHeight/2)
	r, _, _, _ := img.At(x, y).RGBA()
	assert.Less(t, r, uint32(0x8000), "bar interior should be dark")
}

func TestSVG(t *testing.T) {
	opts := DefaultOptions()

	l := computeLayout(t, layout.AlternatingBar, opts)
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, l, opts))
	out := buf.String()
	assert.True(t, strings.Contains(out, "<svg"), "missing svg root")
	for _, tk := range l.Primary.Ticks {
		assert.Contains(t, out, tk.Label)
	}

	dual := computeLayout(t, layout.DualUnitLine, opts)
	buf.Reset()
	require.NoError(t, SVG(&buf, dual, opts))
	require.NotNil(t, dual.Secondary)
	assert.Contains(t, buf.String(), dual.Secondary.Label)
}

func TestOptionsFrom(t *testing.T) {
	cfg := config.EmptyScalebarConfig()
	opts := OptionsFrom(cfg)
	assert.Equal(t, 12.0, opts.FontSize)
	assert.Equal(t, 8.0, opts.BarHeight)
	assert.Equal(t, 6.0, opts.Padding)
	assert.NotNil(t, opts.Foreground)
}
