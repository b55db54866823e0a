package vnode

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptySnapshot is returned when a snapshot carries no root node.
var ErrEmptySnapshot = errors.New("vnode: empty snapshot")

// maxSnapshotDepth bounds recursion on hostile or broken snapshots.
const maxSnapshotDepth = 512

// Snapshot is the JSON wire form of a rendered tree, as produced by the
// browser snapshot script.
type Snapshot struct {
	Kind       string            `json:"kind"`
	Tag        string            `json:"tag,omitempty"`
	Text       string            `json:"text,omitempty"`
	Attrs      map[string]string `json:"attrs,omitempty"`
	Style      map[string]string `json:"style,omitempty"`
	FocusStyle map[string]string `json:"focus_style,omitempty"`
	Box        *Box              `json:"box,omitempty"`
	Children   []*Snapshot       `json:"children,omitempty"`
}

// DecodeSnapshot parses a JSON snapshot and rebuilds the tree.
func DecodeSnapshot(data []byte) (*Element, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Kind == "" && s.Tag == "" && len(s.Children) == 0 {
		return nil, ErrEmptySnapshot
	}
	return s.Build()
}

// Build converts the snapshot into an Element tree.
func (s *Snapshot) Build() (*Element, error) {
	return s.build(0)
}

func (s *Snapshot) build(depth int) (*Element, error) {
	if depth > maxSnapshotDepth {
		return nil, fmt.Errorf("snapshot deeper than %d levels", maxSnapshotDepth)
	}

	var e *Element
	switch s.Kind {
	case "text":
		return NewText(s.Text), nil
	case "document":
		e = NewDocument()
	case "element", "":
		if s.Tag == "" {
			return nil, fmt.Errorf("element without tag at depth %d", depth)
		}
		e = NewElement(s.Tag)
	default:
		return nil, fmt.Errorf("unknown node kind %q", s.Kind)
	}

	for k, v := range s.Attrs {
		e.WithAttr(k, v)
	}
	for k, v := range s.Style {
		e.WithStyle(k, v)
	}
	for k, v := range s.FocusStyle {
		e.WithFocusStyle(k, v)
	}
	if s.Box != nil {
		e.box = *s.Box
	}
	for _, c := range s.Children {
		if c == nil {
			continue
		}
		child, err := c.build(depth + 1)
		if err != nil {
			return nil, err
		}
		e.Append(child)
	}
	return e, nil
}

// SnapshotOf converts any VisualNode tree into its wire form.
func SnapshotOf(n VisualNode) *Snapshot {
	s := &Snapshot{Kind: n.Kind().String()}
	switch n.Kind() {
	case TextNode:
		s.Text = n.TextContent()
		return s
	case ElementNode:
		s.Tag = n.TagName()
	}
	if a := n.Attributes(); len(a) > 0 {
		s.Attrs = map[string]string(a)
	}
	if st := n.ComputedStyle(); len(st) > 0 {
		s.Style = map[string]string(st)
	}
	if fs := n.FocusStyle(); len(fs) > 0 {
		s.FocusStyle = map[string]string(fs)
	}
	if b := n.BoundingBox(); b != (Box{}) {
		s.Box = &b
	}
	for _, c := range n.ChildNodes() {
		if c != nil {
			s.Children = append(s.Children, SnapshotOf(c))
		}
	}
	return s
}
