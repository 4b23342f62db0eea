package scalebar

import "testing"

func TestLabel(t *testing.T) {
	tests := []struct {
		distance float64
		want     string
	}{
		{5.0, "5"},
		{5.5, "5.5"},
		{5.55, "5.55"},
		{0.5, "0.5"},
		{0.25, "0.25"},
		{1200, "1200"},
		{10.1, "10.1"},
		{2.004, "2"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := Label(tt.distance); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.distance, got, tt.want)
		}
	}
}

func TestLabelLocale(t *testing.T) {
	tests := []struct {
		distance float64
		sep      rune
		want     string
	}{
		{5.0, ',', "5"},
		{5.5, ',', "5,5"},
		{5.55, ',', "5,55"},
		{0.5, '.', "0.5"},
	}
	for _, tt := range tests {
		if got := LabelLocale(tt.distance, tt.sep); got != tt.want {
			t.Errorf("LabelLocale(%v, %q) = %q, want %q", tt.distance, tt.sep, got, tt.want)
		}
	}
}

func TestTrimZeros(t *testing.T) {
	tests := map[string]string{
		"3.00":  "3",
		"3,00":  "3",
		"3.50":  "3.5",
		"3,50":  "3,5",
		"3.05":  "3.05",
		"10":    "10",
		"":      "",
		"12.5":  "12.5",
		"0,10":  "0,1",
		"100.0": "100.0",
	}
	for in, want := range tests {
		if got := trimZeros(in); got != want {
			t.Errorf("trimZeros(%q) = %q, want %q", in, got, want)
		}
	}
}
