package htmltree

import (
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

type origin int

const (
	originUserAgent origin = iota
	originAuthor
)

// rule is one selector of a style rule with its declarations.
type rule struct {
	sel    cascadia.Sel
	spec   cascadia.Specificity
	focus  bool
	origin origin
	order  int
	decls  []*css.Declaration
}

// Stylesheet holds the compiled rules of every style sheet of a document.
type Stylesheet struct {
	rules   []rule
	skipped int
}

// Skipped is the number of selectors that could not be compiled or
// evaluated statically, such as :hover or ::before.
func (s *Stylesheet) Skipped() int { return s.skipped }

// Len is the number of compiled rules.
func (s *Stylesheet) Len() int { return len(s.rules) }

func (s *Stylesheet) add(src string, o origin) error {
	sheet, err := parser.Parse(src)
	if err != nil {
		return err
	}
	s.addRules(sheet.Rules, o)
	return nil
}

func (s *Stylesheet) addRules(rules []*css.Rule, o origin) {
	for _, r := range rules {
		if r.Kind == css.AtRule {
			if strings.EqualFold(strings.TrimPrefix(r.Name, "@"), "media") && !strings.Contains(strings.ToLower(r.Prelude), "print") {
				s.addRules(r.Rules, o)
			}
			continue
		}
		for _, raw := range r.Selectors {
			text, focus, ok := focusSelector(raw)
			if !ok {
				s.skipped++
				continue
			}
			sel, err := cascadia.Parse(text)
			if err != nil || sel.PseudoElement() != "" {
				s.skipped++
				continue
			}
			s.rules = append(s.rules, rule{
				sel:    sel,
				spec:   sel.Specificity(),
				focus:  focus,
				origin: o,
				order:  len(s.rules),
				decls:  r.Declarations,
			})
		}
	}
}

// focusSelector removes :focus and :focus-visible from a selector. Rules
// that depend on :focus-within cannot be attributed to a single element and
// are rejected.
func focusSelector(raw string) (text string, focus, ok bool) {
	text = strings.TrimSpace(raw)
	lower := strings.ToLower(text)
	if strings.Contains(lower, ":focus-within") {
		return "", false, false
	}
	if !strings.Contains(lower, ":focus") {
		return text, false, true
	}
	for _, p := range []string{":focus-visible", ":focus"} {
		for {
			i := strings.Index(strings.ToLower(text), p)
			if i < 0 {
				break
			}
			text = text[:i] + text[i+len(p):]
		}
	}
	text = strings.TrimSpace(text)
	if text == "" || strings.HasSuffix(text, ">") || strings.HasSuffix(text, "+") || strings.HasSuffix(text, "~") {
		text += "*"
	}
	return text, true, true
}

// declaration is a matched declaration ready for the cascade.
type declaration struct {
	*css.Declaration
	origin origin
	inline bool
	spec   cascadia.Specificity
	order  int
}

func (d declaration) less(o declaration) bool {
	if d.Important != o.Important {
		return !d.Important
	}
	if d.origin != o.origin {
		return d.origin < o.origin
	}
	if d.inline != o.inline {
		return !d.inline
	}
	if d.spec != o.spec {
		return d.spec.Less(o.spec)
	}
	return d.order < o.order
}

// cascade returns the declarations that apply to n, in ascending
// precedence. Focus rules are included only when focus is set.
func (s *Stylesheet) cascade(n *html.Node, inline []*css.Declaration, focus bool) []declaration {
	var out []declaration
	for _, r := range s.rules {
		if r.focus && !focus {
			continue
		}
		if !r.sel.Match(n) {
			continue
		}
		for i, d := range r.decls {
			out = append(out, declaration{Declaration: d, origin: r.origin, spec: r.spec, order: r.order*1000 + i})
		}
	}
	for i, d := range inline {
		out = append(out, declaration{Declaration: d, origin: originAuthor, inline: true, order: i})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}
