package scalebar

import (
	"math"

	"github.com/banshee-data/scalebar/internal/units"
)

// Thresholds at which a length is shown in the coarse unit of its system.
const (
	MilesThresholdFeet       = 2640 // half a mile
	KilometersThresholdMeter = 1000
)

// BestLength returns the largest nice length that is <= maxLength, in unit.
//
// Non-segmented bars use whole multipliers above 2 so a single unbroken bar
// never reads like "2.4 km". When unit is feet and the result would be shown
// in miles, the length is recomputed in miles so the displayed value is a
// nice number of miles rather than a converted number of feet.
func BestLength(maxLength float64, unit units.LinearUnit, segmented bool) (float64, error) {
	best, err := niceLength(maxLength, segmented)
	if err != nil {
		return 0, err
	}

	if !unit.Equal(units.Feet) {
		return best, nil
	}
	display := SelectUnit(best, units.Imperial)
	if display.Equal(units.Feet) {
		return best, nil
	}

	// One retry in the coarse unit. The miles result never needs another
	// correction, so this does not recurse.
	coarse, err := niceLength(units.Feet.ConvertTo(display, maxLength), segmented)
	if err != nil {
		return 0, err
	}
	return math.Min(display.ConvertTo(units.Feet, coarse), maxLength), nil
}

func niceLength(maxLength float64, segmented bool) (float64, error) {
	m, mag, err := multiplierFor(maxLength)
	if err != nil {
		return 0, err
	}
	multiplier := m.Multiplier
	if !segmented && multiplier > 2 {
		multiplier = math.Floor(multiplier)
	}
	// A length equal to maxLength within a few ulps can round above it.
	return math.Min(multiplier*mag, maxLength), nil
}

// SelectUnit returns the unit a distance, given in the system's base unit,
// should be displayed in. Unknown systems are treated as metric.
func SelectUnit(distance float64, system units.System) units.LinearUnit {
	if system == units.Imperial {
		if distance >= MilesThresholdFeet {
			return units.Miles
		}
		return units.Feet
	}
	if distance >= KilometersThresholdMeter {
		return units.Kilometers
	}
	return units.Meters
}
