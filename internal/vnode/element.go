package vnode

import "strings"

// Element is the in-memory VisualNode. It backs decoded browser snapshots,
// the static HTML builder and fabricated trees in tests.
//
// An Element must not be modified once handed to an auditor.
type Element struct {
	kind     Kind
	tag      string
	text     string
	attrs    Attributes
	style    Style
	focus    Style
	box      Box
	children []VisualNode
}

// NewElement returns an element node with the given tag.
func NewElement(tag string) *Element {
	return &Element{
		kind:  ElementNode,
		tag:   strings.ToLower(tag),
		attrs: Attributes{},
		style: Style{},
	}
}

// NewText returns a text node.
func NewText(s string) *Element {
	return &Element{kind: TextNode, text: s}
}

// NewDocument returns a document node holding children.
func NewDocument(children ...VisualNode) *Element {
	d := &Element{kind: DocumentNode}
	d.children = append(d.children, children...)
	return d
}

// WithAttr sets an attribute and returns the element for chaining.
func (e *Element) WithAttr(name, value string) *Element {
	if e.attrs == nil {
		e.attrs = Attributes{}
	}
	e.attrs[strings.ToLower(name)] = value
	return e
}

// WithStyle sets a computed style property.
func (e *Element) WithStyle(prop, value string) *Element {
	if e.style == nil {
		e.style = Style{}
	}
	e.style[strings.ToLower(prop)] = value
	return e
}

// WithFocusStyle sets a property of the focus-state style.
func (e *Element) WithFocusStyle(prop, value string) *Element {
	if e.focus == nil {
		e.focus = Style{}
	}
	e.focus[strings.ToLower(prop)] = value
	return e
}

// WithBox sets the bounding box.
func (e *Element) WithBox(x, y, w, h float64) *Element {
	e.box = Box{X: x, Y: y, Width: w, Height: h}
	return e
}

// WithText appends a text child.
func (e *Element) WithText(s string) *Element {
	return e.Append(NewText(s))
}

// Append adds children in order.
func (e *Element) Append(children ...VisualNode) *Element {
	e.children = append(e.children, children...)
	return e
}

func (e *Element) Kind() Kind               { return e.kind }
func (e *Element) TagName() string          { return e.tag }
func (e *Element) ChildNodes() []VisualNode { return e.children }
func (e *Element) ComputedStyle() Style     { return e.style }
func (e *Element) FocusStyle() Style        { return e.focus }
func (e *Element) Attributes() Attributes   { return e.attrs }
func (e *Element) BoundingBox() Box         { return e.box }

func (e *Element) TextContent() string {
	if e.kind == TextNode {
		return e.text
	}
	var b strings.Builder
	writeText(&b, e)
	return b.String()
}

func writeText(b *strings.Builder, n VisualNode) {
	for _, c := range n.ChildNodes() {
		if c == nil {
			continue
		}
		if c.Kind() == TextNode {
			b.WriteString(c.TextContent())
			continue
		}
		writeText(b, c)
	}
}
