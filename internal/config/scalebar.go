package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/scalebar/internal/layout"
	"github.com/banshee-data/scalebar/internal/units"
)

// DefaultConfigPath is the path to the canonical scalebar defaults file.
const DefaultConfigPath = "config/scalebar.defaults.json"

// MaxFontSize bounds font_size; like width_px it sizes the rendered image.
const MaxFontSize = 256

// ScalebarConfig holds the default scalebar appearance. The schema matches
// the preset payload of /api/presets so the same JSON can describe either.
// Nil fields fall back to the values returned by the Get* methods.
type ScalebarConfig struct {
	UnitSystem   *string  `json:"unit_system,omitempty"`
	Style        *string  `json:"style,omitempty"`
	Alignment    *string  `json:"alignment,omitempty"`
	WidthPx      *float64 `json:"width_px,omitempty"`
	MaxSegments  *int     `json:"max_segments,omitempty"` // 0 = uncapped
	LabelSpacing *float64 `json:"label_spacing,omitempty"`

	// Rendering
	FontSize  *float64 `json:"font_size,omitempty"`
	BarHeight *float64 `json:"bar_height,omitempty"`
	Padding   *float64 `json:"padding,omitempty"`

	// Sweep range, in meters
	SweepMin    *float64 `json:"sweep_min,omitempty"`
	SweepMax    *float64 `json:"sweep_max,omitempty"`
	SweepPoints *int     `json:"sweep_points,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyScalebarConfig returns a ScalebarConfig with all fields set to nil.
func EmptyScalebarConfig() *ScalebarConfig {
	return &ScalebarConfig{}
}

// DefaultScalebarConfig returns a config with every field set to its default.
func DefaultScalebarConfig() *ScalebarConfig {
	e := EmptyScalebarConfig()
	return &ScalebarConfig{
		UnitSystem:   ptrString(e.GetSystem().String()),
		Style:        ptrString(e.GetStyle().String()),
		Alignment:    ptrString(e.GetAlignment().String()),
		WidthPx:      ptrFloat64(e.GetWidthPx()),
		MaxSegments:  ptrInt(e.GetMaxSegments()),
		LabelSpacing: ptrFloat64(e.GetLabelSpacing()),
		FontSize:     ptrFloat64(e.GetFontSize()),
		BarHeight:    ptrFloat64(e.GetBarHeight()),
		Padding:      ptrFloat64(e.GetPadding()),
		SweepMin:     ptrFloat64(e.GetSweepMin()),
		SweepMax:     ptrFloat64(e.GetSweepMax()),
		SweepPoints:  ptrInt(e.GetSweepPoints()),
	}
}

// LoadScalebarConfig loads a ScalebarConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadScalebarConfig(path string) (*ScalebarConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyScalebarConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it is non-empty, otherwise returns the
// built-in defaults.
func LoadOrDefault(path string) (*ScalebarConfig, error) {
	if path == "" {
		return DefaultScalebarConfig(), nil
	}
	return LoadScalebarConfig(path)
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory
// or a parent. Panics if the file cannot be found, intended for test setup.
func MustLoadDefaultConfig() *ScalebarConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/<tool>/
	}
	for _, path := range candidates {
		if cfg, err := LoadScalebarConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *ScalebarConfig) Validate() error {
	if c.UnitSystem != nil {
		if _, err := units.ParseSystem(*c.UnitSystem); err != nil {
			return err
		}
	}
	if c.Style != nil {
		if _, err := layout.ParseStyle(*c.Style); err != nil {
			return err
		}
	}
	if c.Alignment != nil {
		if _, err := layout.ParseAlignment(*c.Alignment); err != nil {
			return err
		}
	}
	if c.WidthPx != nil && !(*c.WidthPx > 0 && *c.WidthPx <= layout.MaxAvailableWidth) {
		return fmt.Errorf("width_px must be in (0, %d], got %f", layout.MaxAvailableWidth, *c.WidthPx)
	}
	if c.MaxSegments != nil && *c.MaxSegments < 0 {
		return fmt.Errorf("max_segments must be non-negative, got %d", *c.MaxSegments)
	}
	if c.LabelSpacing != nil && *c.LabelSpacing <= 0 {
		return fmt.Errorf("label_spacing must be positive, got %f", *c.LabelSpacing)
	}
	if c.FontSize != nil && !(*c.FontSize > 0 && *c.FontSize <= MaxFontSize) {
		return fmt.Errorf("font_size must be in (0, %d], got %f", MaxFontSize, *c.FontSize)
	}
	if c.SweepMin != nil && *c.SweepMin <= 0 {
		return fmt.Errorf("sweep_min must be positive, got %f", *c.SweepMin)
	}
	if c.SweepMin != nil && c.SweepMax != nil && *c.SweepMax <= *c.SweepMin {
		return fmt.Errorf("sweep_max (%f) must be greater than sweep_min (%f)", *c.SweepMax, *c.SweepMin)
	}
	if c.SweepPoints != nil && *c.SweepPoints < 2 {
		return fmt.Errorf("sweep_points must be at least 2, got %d", *c.SweepPoints)
	}
	return nil
}

// GetSystem returns the unit system or metric.
func (c *ScalebarConfig) GetSystem() units.System {
	if c.UnitSystem == nil {
		return units.Metric
	}
	s, err := units.ParseSystem(*c.UnitSystem)
	if err != nil {
		return units.Metric
	}
	return s
}

// GetStyle returns the style or alternating bar.
func (c *ScalebarConfig) GetStyle() layout.Style {
	if c.Style == nil {
		return layout.AlternatingBar
	}
	s, err := layout.ParseStyle(*c.Style)
	if err != nil {
		return layout.AlternatingBar
	}
	return s
}

// GetAlignment returns the alignment or left.
func (c *ScalebarConfig) GetAlignment() layout.Alignment {
	if c.Alignment == nil {
		return layout.AlignLeft
	}
	a, err := layout.ParseAlignment(*c.Alignment)
	if err != nil {
		return layout.AlignLeft
	}
	return a
}

// GetWidthPx returns the available width in pixels.
func (c *ScalebarConfig) GetWidthPx() float64 {
	if c.WidthPx == nil {
		return 200
	}
	return *c.WidthPx
}

// GetMaxSegments returns the segment cap, 0 meaning uncapped.
func (c *ScalebarConfig) GetMaxSegments() int {
	if c.MaxSegments == nil {
		return 0
	}
	return *c.MaxSegments
}

// GetLabelSpacing returns the label spacing factor.
func (c *ScalebarConfig) GetLabelSpacing() float64 {
	if c.LabelSpacing == nil {
		return layout.DefaultLabelSpacing
	}
	return *c.LabelSpacing
}

func (c *ScalebarConfig) GetFontSize() float64 {
	if c.FontSize == nil {
		return 12
	}
	return *c.FontSize
}

func (c *ScalebarConfig) GetBarHeight() float64 {
	if c.BarHeight == nil {
		return 8
	}
	return *c.BarHeight
}

func (c *ScalebarConfig) GetPadding() float64 {
	if c.Padding == nil {
		return 6
	}
	return *c.Padding
}

func (c *ScalebarConfig) GetSweepMin() float64 {
	if c.SweepMin == nil {
		return 0.1
	}
	return *c.SweepMin
}

func (c *ScalebarConfig) GetSweepMax() float64 {
	if c.SweepMax == nil {
		return 5e7
	}
	return *c.SweepMax
}

func (c *ScalebarConfig) GetSweepPoints() int {
	if c.SweepPoints == nil {
		return 400
	}
	return *c.SweepPoints
}

// Request builds a layout request for a map measurement using the
// configured system, style, alignment, width and segment policy.
func (c *ScalebarConfig) Request(mapLength float64) layout.Request {
	return layout.Request{
		MapLength:      mapLength,
		AvailableWidth: c.GetWidthPx(),
		System:         c.GetSystem(),
		Style:          c.GetStyle(),
		Alignment:      c.GetAlignment(),
		MaxSegments:    c.GetMaxSegments(),
		LabelSpacing:   c.GetLabelSpacing(),
	}
}
