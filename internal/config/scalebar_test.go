package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/scalebar/internal/layout"
	"github.com/banshee-data/scalebar/internal/units"
)

func TestDefaultScalebarConfig(t *testing.T) {
	cfg := DefaultScalebarConfig()

	if cfg.UnitSystem == nil || *cfg.UnitSystem != "metric" {
		t.Errorf("Expected UnitSystem metric, got %v", cfg.UnitSystem)
	}
	if cfg.Style == nil || *cfg.Style != "alternating_bar" {
		t.Errorf("Expected Style alternating_bar, got %v", cfg.Style)
	}
	if cfg.WidthPx == nil || *cfg.WidthPx != 200 {
		t.Errorf("Expected WidthPx 200, got %v", cfg.WidthPx)
	}
	if cfg.LabelSpacing == nil || *cfg.LabelSpacing != 1.5 {
		t.Errorf("Expected LabelSpacing 1.5, got %v", cfg.LabelSpacing)
	}

	if cfg.GetSystem() != units.Metric {
		t.Errorf("GetSystem() = %v, want metric", cfg.GetSystem())
	}
	if cfg.GetStyle() != layout.AlternatingBar {
		t.Errorf("GetStyle() = %v, want alternating_bar", cfg.GetStyle())
	}
	if cfg.GetMaxSegments() != 0 {
		t.Errorf("GetMaxSegments() = %d, want 0", cfg.GetMaxSegments())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaultsFileMatchesBuiltins(t *testing.T) {
	fromFile := MustLoadDefaultConfig()
	builtin := EmptyScalebarConfig()

	if fromFile.GetSystem() != builtin.GetSystem() {
		t.Errorf("unit_system: file %v, builtin %v", fromFile.GetSystem(), builtin.GetSystem())
	}
	if fromFile.GetStyle() != builtin.GetStyle() {
		t.Errorf("style: file %v, builtin %v", fromFile.GetStyle(), builtin.GetStyle())
	}
	if fromFile.GetWidthPx() != builtin.GetWidthPx() {
		t.Errorf("width_px: file %v, builtin %v", fromFile.GetWidthPx(), builtin.GetWidthPx())
	}
	if fromFile.GetLabelSpacing() != builtin.GetLabelSpacing() {
		t.Errorf("label_spacing: file %v, builtin %v", fromFile.GetLabelSpacing(), builtin.GetLabelSpacing())
	}
	if fromFile.GetSweepPoints() != builtin.GetSweepPoints() {
		t.Errorf("sweep_points: file %v, builtin %v", fromFile.GetSweepPoints(), builtin.GetSweepPoints())
	}
}

func TestLoadScalebarConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "unit_system": "imperial",
  "style": "graduated_line",
  "alignment": "right",
  "width_px": 320,
  "max_segments": 4
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadScalebarConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetSystem() != units.Imperial {
		t.Errorf("Expected imperial, got %v", cfg.GetSystem())
	}
	if cfg.GetStyle() != layout.GraduatedLine {
		t.Errorf("Expected graduated_line, got %v", cfg.GetStyle())
	}
	if cfg.GetAlignment() != layout.AlignRight {
		t.Errorf("Expected right, got %v", cfg.GetAlignment())
	}
	if cfg.GetWidthPx() != 320 {
		t.Errorf("Expected 320, got %v", cfg.GetWidthPx())
	}
	// Omitted fields keep their defaults.
	if cfg.GetFontSize() != 12 {
		t.Errorf("Expected default font size 12, got %v", cfg.GetFontSize())
	}

	req := cfg.Request(1500)
	if req.MapLength != 1500 || req.AvailableWidth != 320 || req.MaxSegments != 4 || req.Style != layout.GraduatedLine {
		t.Errorf("Request() = %+v", req)
	}
}

func TestLoadScalebarConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing", "/nonexistent/path/to/config.json", "stat"},
		{"wrong extension", write("config.yaml", "{}"), ".json"},
		{"invalid json", write("invalid.json", `{"width_px": "wide"`), "parse"},
		{"invalid value", write("bad.json", `{"style": "zigzag"}`), "invalid configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScalebarConfig(tt.path)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault(\"\"): %v", err)
	}
	if cfg.WidthPx == nil {
		t.Error("expected populated defaults")
	}
	if _, err := LoadOrDefault("/nonexistent.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *ScalebarConfig
		wantErr bool
	}{
		{"valid config", DefaultScalebarConfig(), false},
		{"empty config is valid", &ScalebarConfig{}, false},
		{"bad unit system", &ScalebarConfig{UnitSystem: ptrString("nautical")}, true},
		{"bad alignment", &ScalebarConfig{Alignment: ptrString("up")}, true},
		{"zero width", &ScalebarConfig{WidthPx: ptrFloat64(0)}, true},
		{"width at limit", &ScalebarConfig{WidthPx: ptrFloat64(layout.MaxAvailableWidth)}, false},
		{"width over limit", &ScalebarConfig{WidthPx: ptrFloat64(layout.MaxAvailableWidth + 1)}, true},
		{"font size over limit", &ScalebarConfig{FontSize: ptrFloat64(MaxFontSize + 1)}, true},
		{"negative max segments", &ScalebarConfig{MaxSegments: ptrInt(-1)}, true},
		{"zero label spacing", &ScalebarConfig{LabelSpacing: ptrFloat64(0)}, true},
		{"zero font size", &ScalebarConfig{FontSize: ptrFloat64(0)}, true},
		{"zero sweep min", &ScalebarConfig{SweepMin: ptrFloat64(0)}, true},
		{"inverted sweep range", &ScalebarConfig{SweepMin: ptrFloat64(10), SweepMax: ptrFloat64(1)}, true},
		{"too few sweep points", &ScalebarConfig{SweepPoints: ptrInt(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGettersFallBackOnBadValues(t *testing.T) {
	cfg := &ScalebarConfig{
		UnitSystem: ptrString("bogus"),
		Style:      ptrString("bogus"),
		Alignment:  ptrString("bogus"),
	}
	if cfg.GetSystem() != units.Metric {
		t.Errorf("GetSystem() = %v", cfg.GetSystem())
	}
	if cfg.GetStyle() != layout.AlternatingBar {
		t.Errorf("GetStyle() = %v", cfg.GetStyle())
	}
	if cfg.GetAlignment() != layout.AlignLeft {
		t.Errorf("GetAlignment() = %v", cfg.GetAlignment())
	}
}
