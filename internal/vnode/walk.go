package vnode

import "strings"

// WalkFunc is called for each node. Returning false skips the node's children.
type WalkFunc func(n VisualNode, depth int) bool

// Walk visits root and its descendants in document order.
func Walk(root VisualNode, fn WalkFunc) {
	if root == nil {
		return
	}
	walk(root, 0, fn)
}

func walk(n VisualNode, depth int, fn WalkFunc) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.ChildNodes() {
		if c == nil {
			continue
		}
		walk(c, depth+1, fn)
	}
}

// CountElements returns the number of element nodes in the subtree.
func CountElements(root VisualNode) int {
	n := 0
	Walk(root, func(v VisualNode, _ int) bool {
		if v.Kind() == ElementNode {
			n++
		}
		return true
	})
	return n
}

// OwnText returns the concatenation of n's direct text children.
func OwnText(n VisualNode) string {
	var b strings.Builder
	for _, c := range n.ChildNodes() {
		if c != nil && c.Kind() == TextNode {
			b.WriteString(c.TextContent())
		}
	}
	return b.String()
}

// NormalizeSpace trims s and collapses internal whitespace runs.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
