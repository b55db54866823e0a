// Package htmltree turns static HTML into a vnode tree. Styles are resolved
// with a small cascade (user-agent defaults, author <style> sheets, inline
// style attributes) and a few inherited properties. There is no layout
// engine: boxes come from explicit pixel width and height only.
package htmltree

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"

	"github.com/raysh454/folio-a11y/internal/contrast"
	"github.com/raysh454/folio-a11y/internal/logging"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

var ErrNoDocument = errors.New("htmltree: document has no root node")

// Builder converts parsed HTML documents into vnode trees.
type Builder struct {
	logger logging.Logger
}

func NewBuilder(logger logging.Logger) *Builder {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Builder{logger: logger.With(logging.Field{Key: "component", Value: "htmltree"})}
}

var defaultBuilder = NewBuilder(nil)

// Parse reads an HTML document and returns its document node.
func Parse(r io.Reader) (*vnode.Element, error) { return defaultBuilder.Parse(r) }

// ParseString is Parse over a string.
func ParseString(s string) (*vnode.Element, error) {
	return defaultBuilder.Parse(strings.NewReader(s))
}

// FromDocument converts an already parsed goquery document.
func FromDocument(doc *goquery.Document) (*vnode.Element, error) {
	return defaultBuilder.FromDocument(doc)
}

func (b *Builder) Parse(r io.Reader) (*vnode.Element, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return b.FromDocument(doc)
}

func (b *Builder) FromDocument(doc *goquery.Document) (*vnode.Element, error) {
	if doc == nil || len(doc.Nodes) == 0 {
		return nil, ErrNoDocument
	}

	sheet := &Stylesheet{}
	if err := sheet.add(userAgentCSS, originUserAgent); err != nil {
		return nil, err
	}
	doc.Find("style").Each(func(i int, s *goquery.Selection) {
		if media, ok := s.Attr("media"); ok && strings.Contains(strings.ToLower(media), "print") {
			return
		}
		if err := sheet.add(s.Text(), originAuthor); err != nil {
			b.logger.Warn("ignoring unparsable style sheet", logging.Field{Key: "index", Value: i}, logging.Field{Key: "error", Value: err})
		}
	})
	if sheet.Skipped() > 0 {
		b.logger.Debug("selectors skipped", logging.Field{Key: "count", Value: sheet.Skipped()})
	}

	c := &converter{sheet: sheet, logger: b.logger}
	root := vnode.NewDocument()
	base := resolved{fontPt: contrast.DefaultFontSizePt, weight: 400}
	for n := doc.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
		if child := c.convert(n, base); child != nil {
			root.Append(child)
		}
	}
	b.logger.Debug("tree built", logging.Field{Key: "elements", Value: vnode.CountElements(root)}, logging.Field{Key: "rules", Value: sheet.Len()})
	return root, nil
}

// resolved is the computed state a child inherits from.
type resolved struct {
	style  vnode.Style
	fontPt float64
	weight int
	bg     contrast.Color
}

type converter struct {
	sheet  *Stylesheet
	logger logging.Logger
}

func (c *converter) convert(n *html.Node, parent resolved) vnode.VisualNode {
	switch n.Type {
	case html.TextNode:
		return vnode.NewText(n.Data)
	case html.ElementNode:
	default:
		return nil
	}
	tag := strings.ToLower(n.Data)
	if skippedTags[tag] {
		return nil
	}

	el := vnode.NewElement(tag)
	for _, a := range n.Attr {
		el.WithAttr(a.Key, a.Val)
	}

	var inline []*css.Declaration
	if raw, ok := el.Attributes().Get("style"); ok && strings.TrimSpace(raw) != "" {
		// douceur drops the value of a final declaration with no terminator
		decls, err := parser.ParseDeclarations(strings.TrimRight(raw, "; \t\r\n") + ";")
		if err != nil {
			c.logger.Debug("ignoring unparsable style attribute", logging.Field{Key: "tag", Value: tag}, logging.Field{Key: "error", Value: err})
		}
		inline = decls
	}

	self := c.resolve(n, inline, parent, false)
	focus := c.resolve(n, inline, parent, true)
	for k, v := range self.style {
		el.WithStyle(k, v)
	}
	for k, v := range focus.style {
		el.WithFocusStyle(k, v)
	}
	w, wok := pixels(self.style.Get("width"))
	h, hok := pixels(self.style.Get("height"))
	if wok && hok {
		el.WithBox(0, 0, w, h)
	}

	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if v := c.convert(ch, self); v != nil {
			el.Append(v)
		}
	}
	return el
}

func (c *converter) resolve(n *html.Node, inline []*css.Declaration, parent resolved, focus bool) resolved {
	st := vnode.Style{}
	for _, p := range inherited {
		if v := parent.style.Get(p); v != "" {
			st[p] = v
		}
	}
	for _, d := range c.sheet.cascade(n, inline, focus) {
		if strings.TrimSpace(d.Value) == "" {
			continue
		}
		apply(st, strings.ToLower(strings.TrimSpace(d.Property)), strings.TrimSpace(d.Value), parent.style)
	}

	out := resolved{style: st, fontPt: parent.fontPt, weight: parent.weight, bg: parent.bg}

	if pt, ok := contrast.ParseFontSizePt(st.Get("font-size"), parent.fontPt); ok {
		out.fontPt = pt
	}
	st["font-size"] = strconv.FormatFloat(out.fontPt/0.75, 'f', -1, 64) + "px"

	switch w := strings.ToLower(st.Get("font-weight")); w {
	case "bolder":
		out.weight = 700
		if parent.weight >= 600 {
			out.weight = 900
		}
	case "lighter":
		out.weight = 100
		if parent.weight > 500 {
			out.weight = 400
		}
	default:
		out.weight = contrast.ParseFontWeight(w)
	}
	st["font-weight"] = strconv.Itoa(out.weight)

	if strings.EqualFold(st.Get("color"), "currentcolor") {
		st["color"] = parent.style.Get("color")
	}

	// background-color carries the painted backdrop, not the element's own
	// (often transparent) value.
	if bg, err := contrast.ParseColor(st.Get("background-color")); err == nil && !bg.Transparent() {
		if !bg.Opaque() && parent.bg.Opaque() {
			bg = contrast.Blend(bg, parent.bg)
		}
		out.bg = bg
	}
	if out.bg.Transparent() {
		delete(st, "background-color")
	} else {
		st["background-color"] = out.bg.String()
	}
	return out
}

// apply sets one declaration, expanding the shorthands the checks read.
func apply(st vnode.Style, prop, value string, parent vnode.Style) {
	switch strings.ToLower(value) {
	case "inherit":
		if v := parent.Get(prop); v != "" {
			st[prop] = v
		} else {
			delete(st, prop)
		}
		return
	case "initial", "unset", "revert":
		delete(st, prop)
		return
	}

	switch prop {
	case "outline", "border", "border-top", "border-right", "border-bottom", "border-left":
		expandLine(st, prop, value)
	case "background":
		st["background-color"] = "transparent"
		for _, tok := range vnode.SplitValue(value) {
			if _, err := contrast.ParseColor(tok); err == nil {
				st["background-color"] = tok
			}
		}
	default:
		st[prop] = value
	}
}

var lineStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true, "auto": true,
}

func expandLine(st vnode.Style, prefix, value string) {
	style, width, color := "none", "medium", "currentcolor"
	for _, tok := range vnode.SplitValue(value) {
		lt := strings.ToLower(tok)
		switch {
		case lineStyles[lt]:
			style = lt
		case lt == "thin" || lt == "medium" || lt == "thick" || (lt != "" && (lt[0] >= '0' && lt[0] <= '9' || lt[0] == '.')):
			width = lt
		default:
			color = tok
		}
	}
	st[prefix+"-style"] = style
	st[prefix+"-width"] = width
	st[prefix+"-color"] = color
}

func pixels(v string) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if !strings.HasSuffix(v, "px") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}
