package units

import "testing"

func TestParseSystem(t *testing.T) {
	tests := []struct {
		input   string
		want    System
		wantErr bool
	}{
		{"metric", Metric, false},
		{"Imperial", Imperial, false},
		{" imperial ", Imperial, false},
		{"", Metric, false},
		{"nautical", Metric, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSystem(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSystem(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSystem(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSystemUnits(t *testing.T) {
	if !Metric.BaseUnit().Equal(Meters) {
		t.Errorf("Metric.BaseUnit() = %s", Metric.BaseUnit())
	}
	if !Imperial.BaseUnit().Equal(Feet) {
		t.Errorf("Imperial.BaseUnit() = %s", Imperial.BaseUnit())
	}
	if Metric.Other() != Imperial || Imperial.Other() != Metric {
		t.Error("Other() should swap systems")
	}
	if Imperial.String() != "imperial" || System(42).String() != "metric" {
		t.Error("String() mismatch")
	}
}

func TestSystemText(t *testing.T) {
	var s System
	if err := s.UnmarshalText([]byte("imperial")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if s != Imperial {
		t.Errorf("UnmarshalText = %v, want imperial", s)
	}
	b, _ := s.MarshalText()
	if string(b) != "imperial" {
		t.Errorf("MarshalText = %s", b)
	}
	if err := s.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("expected error")
	}
}
