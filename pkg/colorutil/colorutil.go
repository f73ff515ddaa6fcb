// Package colorutil provides shared color helpers.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Colors shared by the headless renderer and tests.
var (
	Black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Link  = color.NRGBA{R: 0x1C, G: 0x71, B: 0xD8, A: 255}
)

// WithOpacity returns c with its alpha multiplied by opacity (0-1). A nil
// color is treated as black.
func WithOpacity(c color.Color, opacity float64) color.NRGBA {
	if c == nil {
		c = Black
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	opacity = math.Max(0, math.Min(1, opacity))
	n.A = uint8(math.Round(float64(n.A) * opacity))
	return n
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa"; the leading # is optional.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
