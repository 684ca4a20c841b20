package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB triple in the 0-255 range.
type Color struct {
	R, G, B int
}

// Hex returns the colour as #RRGGBB.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Palette is the colour triple a template draws with.
type Palette struct {
	Primary    Color
	Secondary  Color
	Background Color
}

// Fonts names the core PDF font family for each text role.
type Fonts struct {
	Title  string
	Header string
	Body   string
}

const (
	fontTimes     = "Times"
	fontHelvetica = "Helvetica"
)

func mustHex(s string) Color {
	c, err := parseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(s string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(v) != 6 {
		return Color{}, fmt.Errorf("invalid colour %q", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Color{R: int(n >> 16 & 0xFF), G: int(n >> 8 & 0xFF), B: int(n & 0xFF)}, nil
}
