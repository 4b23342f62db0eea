package units

import (
	"fmt"
	"strings"
)

// System selects the pair of base and coarse units a scalebar uses.
type System int

const (
	// Metric measures in meters and escalates to kilometers.
	Metric System = iota
	// Imperial measures in feet and escalates to miles.
	Imperial
)

func (s System) String() string {
	switch s {
	case Imperial:
		return "imperial"
	default:
		return "metric"
	}
}

// BaseUnit returns the fine unit distances are computed in.
func (s System) BaseUnit() LinearUnit {
	if s == Imperial {
		return Feet
	}
	return Meters
}

// Other returns the opposite system, used for dual unit scalebars.
func (s System) Other() System {
	if s == Imperial {
		return Metric
	}
	return Imperial
}

// ParseSystem parses "metric" or "imperial" (case-insensitive).
// The empty string parses as Metric.
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "metric":
		return Metric, nil
	case "imperial":
		return Imperial, nil
	default:
		return Metric, fmt.Errorf("unknown unit system %q (valid: metric, imperial)", s)
	}
}

// MarshalText encodes the system as its name.
func (s System) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a system from its name.
func (s *System) UnmarshalText(text []byte) error {
	parsed, err := ParseSystem(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
