package scalebar

// OptimalSegments returns the largest legible segment count for distance
// that is <= maxNumSegments. It returns 1 when no option fits.
//
// maxNumSegments comes from the renderer (available width divided by label
// width); this function only applies the table policy.
func OptimalSegments(distance float64, maxNumSegments int) (int, error) {
	m, _, err := multiplierFor(distance)
	if err != nil {
		return 0, err
	}
	if len(m.Segments) == 0 || m.Segments[0] > maxNumSegments {
		return 1, nil
	}
	best := m.Segments[0]
	for _, n := range m.Segments[1:] {
		if n > maxNumSegments {
			break
		}
		best = n
	}
	return best, nil
}
