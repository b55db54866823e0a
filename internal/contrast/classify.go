package contrast

import (
	"math"
	"strconv"
	"strings"
)

// WCAG thresholds.
const (
	RatioAANormal  = 4.5
	RatioAALarge   = 3.0
	RatioAAANormal = 7.0
	RatioAAALarge  = 4.5

	LargeTextPt     = 18.0
	LargeBoldTextPt = 14.0
	BoldWeight      = 700

	// DefaultFontSizePt is the UA default of 16px.
	DefaultFontSizePt = 12.0
)

// Classification is the verdict for one text/background pair.
type Classification struct {
	Ratio         float64 `json:"ratio"`
	LargeText     bool    `json:"large_text"`
	MeetsAA       bool    `json:"meets_aa"`
	MeetsAAA      bool    `json:"meets_aaa"`
	RequiredRatio float64 `json:"required_ratio"`
	RequiredAAA   float64 `json:"required_aaa"`
}

// IsLargeText applies the WCAG large-text definition.
func IsLargeText(fontSizePt float64, fontWeight int) bool {
	return fontSizePt >= LargeTextPt || (fontSizePt >= LargeBoldTextPt && fontWeight >= BoldWeight)
}

// Classify maps a ratio and font metrics to AA/AAA pass or fail.
// RequiredRatio is the AA requirement.
func Classify(ratio, fontSizePt float64, fontWeight int) Classification {
	large := IsLargeText(fontSizePt, fontWeight)
	aa, aaa := RatioAANormal, RatioAAANormal
	if large {
		aa, aaa = RatioAALarge, RatioAAALarge
	}
	return Classification{
		Ratio:         ratio,
		LargeText:     large,
		MeetsAA:       ratio >= aa,
		MeetsAAA:      ratio >= aaa,
		RequiredRatio: aa,
		RequiredAAA:   aaa,
	}
}

// ParseFontSizePt converts a CSS font-size to points. Relative units resolve
// against parentPt. ok is false for values it cannot interpret.
func ParseFontSizePt(css string, parentPt float64) (pt float64, ok bool) {
	s := strings.ToLower(strings.TrimSpace(css))
	if s == "" {
		return 0, false
	}
	if parentPt <= 0 {
		parentPt = DefaultFontSizePt
	}
	if kw, found := fontSizeKeywords[s]; found {
		return kw, true
	}

	units := []struct {
		suffix string
		toPt   func(float64) float64
	}{
		{"px", func(v float64) float64 { return v * 0.75 }},
		{"pt", func(v float64) float64 { return v }},
		{"rem", func(v float64) float64 { return v * DefaultFontSizePt }},
		{"em", func(v float64) float64 { return v * parentPt }},
		{"%", func(v float64) float64 { return v / 100 * parentPt }},
	}
	for _, u := range units {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, u.suffix)), 64)
		if err != nil || v < 0 || math.IsNaN(v) {
			return 0, false
		}
		return u.toPt(v), true
	}
	return 0, false
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 6.75,
	"x-small":  7.5,
	"small":    9.75,
	"medium":   12,
	"large":    13.5,
	"x-large":  18,
	"xx-large": 24,
}

// ParseFontWeight converts a CSS font-weight to its numeric value.
// Unknown values resolve to 400.
func ParseFontWeight(css string) int {
	s := strings.ToLower(strings.TrimSpace(css))
	switch s {
	case "bold", "bolder":
		return 700
	case "normal", "", "lighter":
		return 400
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return 400
}
