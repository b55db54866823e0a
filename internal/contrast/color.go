// Package contrast implements the WCAG color math: color parsing, relative
// luminance, contrast ratio and the AA/AAA threshold classifier.
package contrast

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnparsableColor is returned for color syntax the parser does not know.
var ErrUnparsableColor = errors.New("unparsable color")

// Color is an 8-bit sRGB color with alpha in [0,1].
type Color struct {
	R, G, B uint8
	A       float64
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Transparent reports whether the color has no visible coverage.
func (c Color) Transparent() bool {
	return c.A <= 0
}

// Opaque reports whether the color fully covers what is beneath it.
func (c Color) Opaque() bool {
	return c.A >= 1
}

// Hex formats the color as #rrggbb, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	if c.Opaque() {
		return c.Hex()
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, c.A)
}

// Blend composites fg over an opaque bg.
func Blend(fg, bg Color) Color {
	if fg.Opaque() {
		return fg
	}
	a := clamp01(fg.A)
	mix := func(f, b uint8) uint8 {
		return uint8(math.Round(float64(f)*a + float64(b)*(1-a)))
	}
	return Color{R: mix(fg.R, bg.R), G: mix(fg.G, bg.G), B: mix(fg.B, bg.B), A: 1}
}

// ParseColor parses the color syntaxes found in computed styles:
// #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(), rgba(), transparent and the basic
// named colors.
func ParseColor(raw string) (Color, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Color{}, fmt.Errorf("%w: empty value", ErrUnparsableColor)
	}
	if strings.HasSuffix(s, "!important") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "!important"))
	}

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:], raw)
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseFunc(s, raw)
	case s == "transparent":
		return Color{}, nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	return Color{}, fmt.Errorf("%w: %q", ErrUnparsableColor, raw)
}

func parseHex(h, raw string) (Color, error) {
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrUnparsableColor, raw)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrUnparsableColor, raw)
	}
	if len(h) == 6 {
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}
	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: float64(uint8(v)) / 255,
	}, nil
}

// parseFunc handles rgb()/rgba() in both comma and space-separated forms.
func parseFunc(s, raw string) (Color, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") || open < 0 {
		return Color{}, fmt.Errorf("%w: %q", ErrUnparsableColor, raw)
	}
	body := s[open+1 : len(s)-1]
	body = strings.ReplaceAll(body, "/", " ")
	body = strings.ReplaceAll(body, ",", " ")
	parts := strings.Fields(body)
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("%w: %q", ErrUnparsableColor, raw)
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := parseChannel(parts[i])
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrUnparsableColor, raw)
		}
		ch[i] = v
	}
	c := Color{R: ch[0], G: ch[1], B: ch[2], A: 1}
	if len(parts) == 4 {
		a, err := parseAlpha(parts[3])
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrUnparsableColor, raw)
		}
		c.A = a
	}
	return c, nil
}

func parseChannel(p string) (uint8, error) {
	if strings.HasSuffix(p, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
		if err != nil {
			return 0, err
		}
		return uint8(math.Round(clamp01(f/100) * 255)), nil
	}
	f, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0, err
	}
	return uint8(math.Round(math.Max(0, math.Min(255, f)))), nil
}

func parseAlpha(p string) (float64, error) {
	if strings.HasSuffix(p, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
		if err != nil {
			return 0, err
		}
		return clamp01(f / 100), nil
	}
	f, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0, err
	}
	return clamp01(f), nil
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

var namedColors = map[string]Color{
	"black":         RGB(0, 0, 0),
	"white":         RGB(255, 255, 255),
	"red":           RGB(255, 0, 0),
	"green":         RGB(0, 128, 0),
	"lime":          RGB(0, 255, 0),
	"blue":          RGB(0, 0, 255),
	"navy":          RGB(0, 0, 128),
	"yellow":        RGB(255, 255, 0),
	"orange":        RGB(255, 165, 0),
	"purple":        RGB(128, 0, 128),
	"fuchsia":       RGB(255, 0, 255),
	"magenta":       RGB(255, 0, 255),
	"aqua":          RGB(0, 255, 255),
	"cyan":          RGB(0, 255, 255),
	"teal":          RGB(0, 128, 128),
	"olive":         RGB(128, 128, 0),
	"maroon":        RGB(128, 0, 0),
	"silver":        RGB(192, 192, 192),
	"gray":          RGB(128, 128, 128),
	"grey":          RGB(128, 128, 128),
	"dimgray":       RGB(105, 105, 105),
	"lightgray":     RGB(211, 211, 211),
	"darkgray":      RGB(169, 169, 169),
	"whitesmoke":    RGB(245, 245, 245),
	"gainsboro":     RGB(220, 220, 220),
	"slategray":     RGB(112, 128, 144),
	"steelblue":     RGB(70, 130, 180),
	"royalblue":     RGB(65, 105, 225),
	"crimson":       RGB(220, 20, 60),
	"gold":          RGB(255, 215, 0),
	"indigo":        RGB(75, 0, 130),
	"rebeccapurple": RGB(102, 51, 153),
}
