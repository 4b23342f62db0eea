// Package scalebar chooses the length, display unit, segment count and
// labels of a map scalebar.
//
// Every function here is pure: results depend only on the arguments and the
// read-only multiplier table, so they are safe to call from any goroutine.
package scalebar

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDistance is returned when a distance is not a positive, finite number.
var ErrInvalidDistance = errors.New("distance must be a positive finite number")

// Multiplier is one row of the nice-number table: a multiplier applied to a
// power of ten, and the segment counts that divide it into legible parts.
type Multiplier struct {
	Multiplier float64
	Segments   []int
}

// multipliers is sorted ascending by Multiplier, and each Segments slice is
// sorted ascending. It must not be modified.
var multipliers = []Multiplier{
	{1.0, []int{1, 2, 4, 5}},
	{1.2, []int{1, 2, 3, 4}},
	{1.5, []int{1, 2, 3, 5}},
	{1.6, []int{1, 2, 4}},
	{2.0, []int{1, 2, 4, 5}},
	{2.4, []int{1, 2, 3, 4}},
	{3.0, []int{1, 2, 3}},
	{3.6, []int{1, 2, 3}},
	{4.0, []int{1, 2, 4}},
	{5.0, []int{1, 2, 5}},
	{6.0, []int{1, 2, 3}},
	{8.0, []int{1, 2, 4}},
	{9.0, []int{1, 2, 3}},
	{10.0, []int{1, 2, 5}},
}

// Multipliers returns a copy of the nice-number table.
func Multipliers() []Multiplier {
	out := make([]Multiplier, len(multipliers))
	for i, m := range multipliers {
		out[i] = m.clone()
	}
	return out
}

func (m Multiplier) clone() Multiplier {
	return Multiplier{Multiplier: m.Multiplier, Segments: append([]int(nil), m.Segments...)}
}

func checkDistance(distance float64) error {
	if distance <= 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidDistance, distance)
	}
	return nil
}

// Magnitude returns the largest power of ten that is <= distance.
func Magnitude(distance float64) (float64, error) {
	if err := checkDistance(distance); err != nil {
		return 0, err
	}
	exp := int(math.Floor(math.Log10(distance)))
	mag := math.Pow10(exp)
	// Log10 is not exact near powers of ten (Log10(1000) < 3).
	if mag > distance {
		mag = math.Pow10(exp - 1)
	} else if next := math.Pow10(exp + 1); next <= distance {
		mag = next
	}
	// Pow10 underflows to 0 below about 1e-323.
	if mag == 0 {
		return 0, fmt.Errorf("%w: %v is below the smallest representable magnitude", ErrInvalidDistance, distance)
	}
	return mag, nil
}

// tieULPs is how far, in units of the last place, multiplier*magnitude may
// sit above distance and still count as equal. 6*0.1 lands one ulp above
// 0.6 and must select the 6.0 row.
const tieULPs = 4

// SelectMultiplier returns the table row with the largest multiplier whose
// length multiplier*magnitude does not exceed distance. The first row is
// returned when distance is below magnitude.
func SelectMultiplier(distance, magnitude float64) Multiplier {
	return selectMultiplier(distance, magnitude).clone()
}

func selectMultiplier(distance, magnitude float64) Multiplier {
	limit := distance * (1 + tieULPs*epsilon)
	selected := multipliers[0]
	for _, m := range multipliers {
		if m.Multiplier*magnitude > limit {
			break
		}
		selected = m
	}
	return selected
}

// epsilon is the spacing of float64 values just above 1.
const epsilon = 0x1p-52

// multiplierFor combines Magnitude and SelectMultiplier without copying the row.
func multiplierFor(distance float64) (Multiplier, float64, error) {
	mag, err := Magnitude(distance)
	if err != nil {
		return Multiplier{}, 0, err
	}
	return selectMultiplier(distance, mag), mag, nil
}
