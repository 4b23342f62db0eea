package scalebar

import (
	"strconv"
	"strings"
)

// Label formats distance with at most two decimals and no trailing zeros:
// 5 -> "5", 5.5 -> "5.5", 5.55 -> "5.55".
func Label(distance float64) string {
	return trimZeros(strconv.FormatFloat(distance, 'f', 2, 64))
}

// LabelLocale is Label with a caller-chosen decimal separator, e.g. ','.
func LabelLocale(distance float64, sep rune) string {
	s := strconv.FormatFloat(distance, 'f', 2, 64)
	if sep != '.' {
		s = strings.Replace(s, ".", string(sep), 1)
	}
	return trimZeros(s)
}

// trimZeros expects exactly two digits after the separator.
func trimZeros(s string) string {
	n := len(s)
	if n < 4 || !isSeparator(s[n-3]) {
		return s
	}
	switch {
	case s[n-2] == '0' && s[n-1] == '0':
		return s[:n-3]
	case s[n-1] == '0':
		return s[:n-1]
	}
	return s
}

func isSeparator(c byte) bool {
	return c == '.' || c == ','
}
