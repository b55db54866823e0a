// Package vnode defines the read-only tree the auditor inspects.
//
// A VisualNode is whatever a tree source can tell us about one rendered node:
// its children, resolved style, attributes, layout box and text. Sources are
// the static HTML builder, browser snapshots and hand-built trees in tests.
package vnode

import "strings"

// Kind classifies a node.
type Kind int

const (
	ElementNode Kind = iota
	TextNode
	DocumentNode
)

func (k Kind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case DocumentNode:
		return "document"
	default:
		return "unknown"
	}
}

// VisualNode is the capability interface consumed by the auditor.
// Implementations must be safe for concurrent reads.
type VisualNode interface {
	Kind() Kind

	// TagName is the lower-case element name, "" for text and document nodes.
	TagName() string

	// ChildNodes returns children in document order, text nodes included.
	ChildNodes() []VisualNode

	// ComputedStyle returns the resolved style of the node.
	ComputedStyle() Style

	// FocusStyle returns the resolved style while the node has focus, or nil
	// when the source cannot tell.
	FocusStyle() Style

	Attributes() Attributes

	// BoundingBox is the rendered box in logical pixels. The zero Box means the
	// node was not laid out.
	BoundingBox() Box

	// TextContent is the concatenated text of all descendant text nodes.
	TextContent() string
}

// Box is a layout rectangle in logical pixels.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LaidOut reports whether both dimensions are non-zero.
func (b Box) LaidOut() bool {
	return b.Width > 0 && b.Height > 0
}

// Style maps CSS property names to resolved values.
type Style map[string]string

// Get returns the trimmed value of prop, "" when unset.
func (s Style) Get(prop string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s[strings.ToLower(prop)])
}

// SplitValue splits a CSS value on whitespace outside parentheses, so
// "2px solid rgb(0, 0, 0)" yields three tokens.
func SplitValue(v string) []string {
	var out []string
	var b strings.Builder
	depth := 0
	for _, r := range v {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case (r == ' ' || r == '\t' || r == '\n') && depth == 0:
			if b.Len() > 0 {
				out = append(out, b.String())
				b.Reset()
			}
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}

// Attributes maps attribute names to values.
type Attributes map[string]string

// Get returns the raw attribute value and whether it is present.
func (a Attributes) Get(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a[strings.ToLower(name)]
	return v, ok
}

// Has reports whether name is present, even with an empty value.
func (a Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Value returns the trimmed attribute value, "" when absent.
func (a Attributes) Value(name string) string {
	v, _ := a.Get(name)
	return strings.TrimSpace(v)
}

// Classes splits the class attribute into tokens.
func (a Attributes) Classes() []string {
	return strings.Fields(a.Value("class"))
}

// HasClass reports whether the class attribute contains token.
func (a Attributes) HasClass(token string) bool {
	for _, c := range a.Classes() {
		if strings.EqualFold(c, token) {
			return true
		}
	}
	return false
}
