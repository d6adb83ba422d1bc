package tiles

import (
	"fmt"
	"strings"
)

// Color identifies one of the five tile colors.
type Color int

const (
	Blue Color = iota
	Yellow
	Red
	Black
	White
)

// NumColors is the size of the closed color set.
const NumColors = 5

var colorNames = map[Color]string{
	Blue:   "blue",
	Yellow: "yellow",
	Red:    "red",
	Black:  "black",
	White:  "white",
}

// Colors lists every color in wall order.
var Colors = []Color{Blue, Yellow, Red, Black, White}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("COLOR_%d", int(c))
}

// Valid reports whether c is one of the five colors.
func (c Color) Valid() bool {
	_, ok := colorNames[c]
	return ok
}

// ParseColor maps a lower- or mixed-case color name to its Color.
func ParseColor(name string) (Color, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Colors {
		if colorNames[c] == needle {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", name)
}

// MarshalText renders the color name, so colors can key JSON objects.
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText parses a color name.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
