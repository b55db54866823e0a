package contrast_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/folio-a11y/internal/contrast"
)

func mustParse(t *testing.T, s string) contrast.Color {
	t.Helper()
	c, err := contrast.ParseColor(s)
	require.NoError(t, err, "parse %q", s)
	return c
}

func TestParseColor_Syntaxes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want contrast.Color
	}{
		{"#fff", contrast.RGB(255, 255, 255)},
		{"#000000", contrast.RGB(0, 0, 0)},
		{"#767676", contrast.RGB(0x76, 0x76, 0x76)},
		{"#ff000080", contrast.Color{R: 255, A: 128.0 / 255}},
		{"#0f08", contrast.Color{G: 255, A: 136.0 / 255}},
		{"rgb(10, 20, 30)", contrast.RGB(10, 20, 30)},
		{"rgba(10,20,30,0.5)", contrast.Color{R: 10, G: 20, B: 30, A: 0.5}},
		{"rgb(10 20 30 / 50%)", contrast.Color{R: 10, G: 20, B: 30, A: 0.5}},
		{"rgb(100%, 0%, 0%)", contrast.RGB(255, 0, 0)},
		{"  White ", contrast.RGB(255, 255, 255)},
		{"transparent", contrast.Color{}},
		{"rgba(0, 0, 0, 0)", contrast.Color{A: 0}},
	}
	for _, tc := range cases {
		got := mustParse(t, tc.in)
		assert.Equal(t, tc.want.R, got.R, tc.in)
		assert.Equal(t, tc.want.G, got.G, tc.in)
		assert.Equal(t, tc.want.B, got.B, tc.in)
		assert.InDelta(t, tc.want.A, got.A, 1e-9, tc.in)
	}
}

func TestParseColor_FailuresDoNotPanic(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "#12", "#ggg", "rgb(1,2)", "rgb(a,b,c)", "hsl(0, 0%, 0%)", "var(--fg)", "currentcolor"} {
		_, err := contrast.ParseColor(in)
		assert.Error(t, err, in)
		assert.True(t, errors.Is(err, contrast.ErrUnparsableColor), "%q: %v", in, err)
	}
}

func TestContrastRatio_KnownValues(t *testing.T) {
	t.Parallel()
	white := mustParse(t, "#ffffff")
	black := mustParse(t, "#000000")

	assert.InDelta(t, 21.0, contrast.ContrastRatio(white, black), 0.1)
	assert.Greater(t, contrast.ContrastRatio(white, mustParse(t, "#767676")), 4.5)
	assert.Less(t, contrast.ContrastRatio(white, mustParse(t, "#777777")), 4.5)
	assert.InDelta(t, 4.48, contrast.ContrastRatio(white, mustParse(t, "#777777")), 0.01)
}

func TestContrastRatio_SymmetricAndIdentity(t *testing.T) {
	t.Parallel()
	colors := []string{"#000", "#fff", "#777", "#1e90ff", "#c0ffee", "rgb(12,200,99)", "navy"}
	for _, a := range colors {
		ca := mustParse(t, a)
		assert.InDelta(t, 1.0, contrast.ContrastRatio(ca, ca), 1e-12, a)
		for _, b := range colors {
			cb := mustParse(t, b)
			ab := contrast.ContrastRatio(ca, cb)
			ba := contrast.ContrastRatio(cb, ca)
			assert.Equal(t, ab, ba, "%s/%s", a, b)
			assert.GreaterOrEqual(t, ab, 1.0)
		}
	}
}

func TestRelativeLuminance_Bounds(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, contrast.RelativeLuminance(contrast.RGB(0, 0, 0)))
	assert.InDelta(t, 1.0, contrast.RelativeLuminance(contrast.RGB(255, 255, 255)), 1e-9)
	for v := 0; v <= 255; v += 15 {
		l := contrast.RelativeLuminance(contrast.RGB(uint8(v), uint8(v), uint8(v)))
		assert.True(t, l >= 0 && l <= 1, "luminance %v out of range for %d", l, v)
	}
}

func TestBlend(t *testing.T) {
	t.Parallel()
	half := contrast.Color{A: 0.5}
	got := contrast.Blend(half, contrast.RGB(255, 255, 255))
	assert.True(t, got.Opaque())
	assert.Equal(t, uint8(128), got.R)
	assert.Equal(t, contrast.RGB(1, 2, 3), contrast.Blend(contrast.RGB(1, 2, 3), contrast.RGB(9, 9, 9)))
}

func TestClassify_Thresholds(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name          string
		ratio, sizePt float64
		weight        int
		aa, aaa       bool
		required      float64
	}{
		{"normal fails", 4.47, 12, 400, false, false, 4.5},
		{"normal passes AA only", 4.5, 12, 400, true, false, 4.5},
		{"normal passes AAA", 7.0, 12, 400, true, true, 4.5},
		{"large by size", 3.0, 18, 400, true, false, 3.0},
		{"large by bold", 4.5, 14, 700, true, true, 3.0},
		{"bold but small", 3.5, 13.9, 700, false, false, 4.5},
		{"14pt regular is normal", 3.5, 14, 400, false, false, 4.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := contrast.Classify(tc.ratio, tc.sizePt, tc.weight)
			assert.Equal(t, tc.aa, got.MeetsAA)
			assert.Equal(t, tc.aaa, got.MeetsAAA)
			assert.Equal(t, tc.required, got.RequiredRatio)
		})
	}
}

func TestClassify_Monotonic(t *testing.T) {
	t.Parallel()
	for _, metrics := range []struct {
		pt float64
		w  int
	}{{12, 400}, {14, 700}, {18, 400}, {24, 300}} {
		prev := contrast.Classify(1, metrics.pt, metrics.w)
		for r := 1.0; r <= 21; r += 0.05 {
			cur := contrast.Classify(r, metrics.pt, metrics.w)
			if prev.MeetsAA && !cur.MeetsAA {
				t.Fatalf("AA flipped to failing at ratio %.2f (%v)", r, metrics)
			}
			if prev.MeetsAAA && !cur.MeetsAAA {
				t.Fatalf("AAA flipped to failing at ratio %.2f (%v)", r, metrics)
			}
			prev = cur
		}
	}
}

func TestParseFontSizePt(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in     string
		parent float64
		want   float64
		ok     bool
	}{
		{"16px", 0, 12, true},
		{"24px", 0, 18, true},
		{"14pt", 0, 14, true},
		{"2em", 12, 24, true},
		{"1.5rem", 30, 18, true},
		{"150%", 12, 18, true},
		{"x-large", 0, 18, true},
		{"calc(1em + 2px)", 12, 0, false},
		{"", 12, 0, false},
	}
	for _, tc := range cases {
		got, ok := contrast.ParseFontSizePt(tc.in, tc.parent)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, tc.in)
		}
	}
}

func TestParseFontWeight(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 700, contrast.ParseFontWeight("bold"))
	assert.Equal(t, 400, contrast.ParseFontWeight("normal"))
	assert.Equal(t, 600, contrast.ParseFontWeight("600"))
	assert.Equal(t, 400, contrast.ParseFontWeight("heavy-ish"))
	assert.False(t, math.IsNaN(float64(contrast.ParseFontWeight(""))))
}
