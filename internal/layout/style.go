package layout

import (
	"fmt"
	"strings"
)

// Style is the visual form of a scalebar.
type Style int

const (
	// Bar is a single solid bar with one label.
	Bar Style = iota
	// AlternatingBar is a bar split into segments of alternating fill.
	AlternatingBar
	// Line is a single line with end ticks and one label.
	Line
	// GraduatedLine is a line with a labelled tick at each segment boundary.
	GraduatedLine
	// DualUnitLine is a graduated line with a second, other-system scale below it.
	DualUnitLine
)

var styleNames = map[Style]string{
	Bar:            "bar",
	AlternatingBar: "alternating_bar",
	Line:           "line",
	GraduatedLine:  "graduated_line",
	DualUnitLine:   "dual_unit_line",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// Segmented reports whether the style labels each segment boundary.
func (s Style) Segmented() bool {
	switch s {
	case AlternatingBar, GraduatedLine, DualUnitLine:
		return true
	}
	return false
}

// ParseStyle parses a style name such as "alternating_bar". Dashes are
// accepted in place of underscores; the empty string parses as Bar.
func ParseStyle(s string) (Style, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if norm == "" {
		return Bar, nil
	}
	for style, name := range styleNames {
		if name == norm {
			return style, nil
		}
	}
	return Bar, fmt.Errorf("unknown scalebar style %q", s)
}

// MarshalText encodes the style as its name.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a style from its name.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Alignment positions the bar within the available width.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlignment parses "left", "center" or "right".
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, fmt.Errorf("unknown alignment %q", s)
}

func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Alignment) UnmarshalText(text []byte) error {
	parsed, err := ParseAlignment(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
