package audit

import (
	"fmt"
	"strings"

	"github.com/raysh454/folio-a11y/internal/contrast"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

// ContrastCheck compares the text and background colors of every element
// carrying its own text.
//
// Elements whose resolved background is fully transparent are skipped: the
// effective backdrop would need the painted ancestors, which a computed
// style does not give us. Unparsable colors are skipped as well.
type ContrastCheck struct{}

func (ContrastCheck) Name() string { return "contrast" }

func (c ContrastCheck) Check(t *Tree) []Issue {
	var issues []Issue
	for i, e := range t.Elements() {
		if strings.TrimSpace(vnode.OwnText(e.Node)) == "" || t.Hidden(i) {
			continue
		}
		st := e.Node.ComputedStyle()

		bg, err := contrast.ParseColor(st.Get("background-color"))
		if err != nil || bg.Transparent() {
			continue
		}
		bg.A = 1

		fg, err := contrast.ParseColor(st.Get("color"))
		if err != nil || fg.Transparent() {
			continue
		}
		fg = contrast.Blend(fg, bg)

		sizePt, ok := contrast.ParseFontSizePt(st.Get("font-size"), contrast.DefaultFontSizePt)
		if !ok {
			sizePt = contrast.DefaultFontSizePt
		}
		weight := contrast.ParseFontWeight(st.Get("font-weight"))

		cls := contrast.Classify(contrast.ContrastRatio(fg, bg), sizePt, weight)
		switch {
		case !cls.MeetsAA:
			issues = append(issues, newIssue(t, i, c.Name(), SeverityError, GuidelineContrastMinimum,
				fmt.Sprintf("Insufficient color contrast ratio: %.2f:1 (required %.1f:1 for %s text)",
					cls.Ratio, cls.RequiredRatio, textClass(cls)),
				fmt.Sprintf("Adjust the text color (%s) or the background color (%s) to reach at least %.1f:1.",
					fg.Hex(), bg.Hex(), cls.RequiredRatio)))
		case !cls.MeetsAAA:
			issues = append(issues, newIssue(t, i, c.Name(), SeverityWarning, GuidelineContrastEnhanced,
				fmt.Sprintf("Contrast ratio %.2f:1 meets AA but not AAA (%.1f:1 for %s text)",
					cls.Ratio, cls.RequiredAAA, textClass(cls)),
				fmt.Sprintf("Increase the contrast between %s and %s to %.1f:1 for enhanced legibility.",
					fg.Hex(), bg.Hex(), cls.RequiredAAA)))
		}
	}
	return issues
}

func textClass(c contrast.Classification) string {
	if c.LargeText {
		return "large"
	}
	return "normal"
}
