package audit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raysh454/folio-a11y/internal/vnode"
)

// Entry is one element of the audited subtree.
type Entry struct {
	Node   vnode.VisualNode
	Index  int
	Parent int // -1 when the parent is outside the element index
	Depth  int

	nthOfType int
}

// Tag is shorthand for Node.TagName().
func (e Entry) Tag() string { return e.Node.TagName() }

// Attr returns the trimmed attribute value.
func (e Entry) Attr(name string) string { return e.Node.Attributes().Value(name) }

// Role returns the lower-cased role attribute.
func (e Entry) Role() string { return strings.ToLower(e.Attr("role")) }

// Tree is a read-only index over the audited subtree, built once per audit
// and shared by every checker.
type Tree struct {
	root    vnode.VisualNode
	entries []Entry
	byID    map[string]int
	labels  map[string][]int
}

// NewTree indexes the elements under root in document order.
func NewTree(root vnode.VisualNode) *Tree {
	t := &Tree{
		root:   root,
		byID:   map[string]int{},
		labels: map[string][]int{},
	}
	t.index(root, -1, 0)
	return t
}

func (t *Tree) index(n vnode.VisualNode, parent, depth int) {
	if n.Kind() == vnode.ElementNode {
		idx := len(t.entries)
		t.entries = append(t.entries, Entry{Node: n, Index: idx, Parent: parent, Depth: depth})
		attrs := n.Attributes()
		if id := attrs.Value("id"); id != "" {
			if _, dup := t.byID[id]; !dup {
				t.byID[id] = idx
			}
		}
		if n.TagName() == "label" {
			if target := attrs.Value("for"); target != "" {
				t.labels[target] = append(t.labels[target], idx)
			}
		}
		parent = idx
	}

	seen := map[string]int{}
	for _, c := range n.ChildNodes() {
		if c == nil || c.Kind() == vnode.TextNode {
			continue
		}
		if c.Kind() == vnode.ElementNode {
			seen[c.TagName()]++
			next := len(t.entries)
			t.index(c, parent, depth+1)
			t.entries[next].nthOfType = seen[c.TagName()]
			continue
		}
		t.index(c, parent, depth+1)
	}
}

// Root is the audited root node.
func (t *Tree) Root() vnode.VisualNode { return t.root }

// Len is the number of element nodes in the subtree.
func (t *Tree) Len() int { return len(t.entries) }

// Elements returns every element entry in document order. Callers must not
// modify the returned slice.
func (t *Tree) Elements() []Entry { return t.entries }

// Entry returns the i-th element.
func (t *Tree) Entry(i int) Entry { return t.entries[i] }

// ByID finds the first element with the given id.
func (t *Tree) ByID(id string) (Entry, bool) {
	i, ok := t.byID[strings.TrimSpace(id)]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// LabelsFor returns label elements whose for attribute references id.
func (t *Tree) LabelsFor(id string) []Entry {
	idxs := t.labels[strings.TrimSpace(id)]
	out := make([]Entry, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, t.entries[i])
	}
	return out
}

// Closest returns the nearest ancestor of entry i (excluding i) matching pred.
func (t *Tree) Closest(i int, pred func(Entry) bool) (Entry, bool) {
	for p := t.entries[i].Parent; p >= 0; p = t.entries[p].Parent {
		if pred(t.entries[p]) {
			return t.entries[p], true
		}
	}
	return Entry{}, false
}

// SelfOrClosest is Closest including entry i itself.
func (t *Tree) SelfOrClosest(i int, pred func(Entry) bool) (Entry, bool) {
	if pred(t.entries[i]) {
		return t.entries[i], true
	}
	return t.Closest(i, pred)
}

// Descendants calls fn for each element below entry i, in document order.
func (t *Tree) Descendants(i int, fn func(Entry)) {
	depth := t.entries[i].Depth
	for j := i + 1; j < len(t.entries) && t.entries[j].Depth > depth; j++ {
		fn(t.entries[j])
	}
}

// Hidden reports whether entry i or an ancestor is not rendered.
func (t *Tree) Hidden(i int) bool {
	e := t.entries[i]
	st := e.Node.ComputedStyle()
	if st.Get("display") == "none" || st.Get("visibility") == "hidden" {
		return true
	}
	if e.Node.Attributes().Has("hidden") {
		return true
	}
	_, hidden := t.Closest(i, func(a Entry) bool {
		return a.Node.ComputedStyle().Get("display") == "none" || a.Node.Attributes().Has("hidden")
	})
	return hidden
}

// Selector returns a CSS-like locator for entry i. Paths are anchored at the
// nearest ancestor carrying an id.
func (t *Tree) Selector(i int) string {
	var parts []string
	for p := i; p >= 0; p = t.entries[p].Parent {
		e := t.entries[p]
		if id := e.Attr("id"); id != "" && isSimpleIdent(id) {
			parts = append(parts, "#"+id)
			break
		}
		seg := e.Tag()
		if e.nthOfType > 1 || t.hasSameTagSibling(p) {
			seg += fmt.Sprintf(":nth-of-type(%d)", max(e.nthOfType, 1))
		}
		parts = append(parts, seg)
	}
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, " > ")
}

func (t *Tree) hasSameTagSibling(i int) bool {
	e := t.entries[i]
	if e.Parent < 0 {
		return false
	}
	n := 0
	for _, c := range t.entries[e.Parent].Node.ChildNodes() {
		if c != nil && c.Kind() == vnode.ElementNode && c.TagName() == e.Tag() {
			n++
		}
	}
	return n > 1
}

func isSimpleIdent(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}

// tabIndex parses the tabindex attribute.
func tabIndex(e Entry) (int, bool) {
	raw, ok := e.Node.Attributes().Get("tabindex")
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDisabled(e Entry) bool {
	return e.Node.Attributes().Has("disabled") || strings.EqualFold(e.Attr("aria-disabled"), "true")
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}
