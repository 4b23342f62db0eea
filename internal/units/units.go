// Package units provides the linear units a scalebar can be measured and
// displayed in, and the conversions between them.
package units

import (
	"fmt"
	"strings"
)

// Unit IDs
const (
	MetersID     = "meters"
	KilometersID = "kilometers"
	FeetID       = "feet"
	MilesID      = "miles"
)

// LinearUnit is a unit of length. Values are immutable and compared by ID.
type LinearUnit struct {
	id            string
	name          string
	plural        string
	abbreviation  string
	metersPerUnit float64

	// basePerUnit is the exact size in the base unit of the same system
	// (1000 m per km, 5280 ft per mile).
	system      System
	basePerUnit float64
}

// Predefined units. Feet and miles use the international definitions.
var (
	Meters     = LinearUnit{MetersID, "meter", "meters", "m", 1, Metric, 1}
	Kilometers = LinearUnit{KilometersID, "kilometer", "kilometers", "km", 1000, Metric, 1000}
	Feet       = LinearUnit{FeetID, "foot", "feet", "ft", 0.3048, Imperial, 1}
	Miles      = LinearUnit{MilesID, "mile", "miles", "mi", 1609.344, Imperial, 5280}
)

// ValidUnits contains all supported linear units
var ValidUnits = []LinearUnit{Meters, Kilometers, Feet, Miles}

// ID returns the stable identifier of the unit, e.g. "meters".
func (u LinearUnit) ID() string { return u.id }

// Name returns the singular name of the unit.
func (u LinearUnit) Name() string { return u.name }

// PluralName returns the plural name of the unit.
func (u LinearUnit) PluralName() string { return u.plural }

// Abbreviation returns the short label drawn next to scalebar values.
func (u LinearUnit) Abbreviation() string { return u.abbreviation }

// MetersPerUnit returns the length of one unit in meters.
func (u LinearUnit) MetersPerUnit() float64 { return u.metersPerUnit }

// System returns the unit system the unit belongs to.
func (u LinearUnit) System() System { return u.system }

// IsZero reports whether u is the zero LinearUnit.
func (u LinearUnit) IsZero() bool { return u.id == "" }

// Equal reports whether u and other are the same unit.
func (u LinearUnit) Equal(other LinearUnit) bool { return u.id == other.id }

func (u LinearUnit) String() string { return u.id }

// ConvertTo converts value, expressed in u, to the target unit.
// Conversions within one system use exact integer ratios, so feet to miles
// and back round-trips nice numbers without drift.
func (u LinearUnit) ConvertTo(target LinearUnit, value float64) float64 {
	if u.Equal(target) {
		return value
	}
	if u.system == target.system {
		return value * u.basePerUnit / target.basePerUnit
	}
	return value * u.metersPerUnit / target.metersPerUnit
}

// MarshalText encodes the unit as its ID.
func (u LinearUnit) MarshalText() ([]byte, error) {
	return []byte(u.id), nil
}

// UnmarshalText decodes a unit from its ID or abbreviation.
func (u *LinearUnit) UnmarshalText(text []byte) error {
	parsed, err := ParseLinearUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ParseLinearUnit looks up a unit by ID or abbreviation, case-insensitively.
func ParseLinearUnit(s string) (LinearUnit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, u := range ValidUnits {
		if s == u.id || s == u.abbreviation {
			return u, nil
		}
	}
	return LinearUnit{}, fmt.Errorf("unknown linear unit %q (valid: %s)", s, GetValidUnitsString())
}

// IsValid checks if the given string names a supported unit
func IsValid(unit string) bool {
	_, err := ParseLinearUnit(unit)
	return err == nil
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	ids := make([]string, len(ValidUnits))
	for i, u := range ValidUnits {
		ids[i] = u.id
	}
	return strings.Join(ids, ", ")
}
