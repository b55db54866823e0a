package contrast

import "math"

// RelativeLuminance returns the WCAG relative luminance of c in [0,1].
// Alpha is ignored; callers blend or skip translucent colors first.
func RelativeLuminance(c Color) float64 {
	r := linearize(float64(c.R) / 255)
	g := linearize(float64(c.G) / 255)
	b := linearize(float64(c.B) / 255)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func linearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio returns (L1+0.05)/(L2+0.05) with L1 the lighter luminance.
// The result is symmetric in its arguments and at least 1.
func ContrastRatio(a, b Color) float64 {
	l1 := RelativeLuminance(a)
	l2 := RelativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// ContrastRatioHex is ContrastRatio for two color strings.
func ContrastRatioHex(a, b string) (float64, error) {
	ca, err := ParseColor(a)
	if err != nil {
		return 0, err
	}
	cb, err := ParseColor(b)
	if err != nil {
		return 0, err
	}
	return ContrastRatio(ca, cb), nil
}
