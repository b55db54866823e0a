package audit

import (
	"strings"

	"github.com/raysh454/folio-a11y/internal/vnode"
)

// formControlTags are elements whose text content never names them.
var formControlTags = map[string]bool{"input": true, "select": true, "textarea": true}

func isLabel(e Entry) bool { return e.Tag() == "label" }

// labelEntries returns label elements associated with entry i, either by
// for=id or by enclosure.
func (t *Tree) labelEntries(i int) []Entry {
	e := t.entries[i]
	var out []Entry
	if id := e.Attr("id"); id != "" {
		out = append(out, t.LabelsFor(id)...)
	}
	if enclosing, ok := t.Closest(i, isLabel); ok {
		out = append(out, enclosing)
	}
	return out
}

// referencedText resolves an id-list attribute such as aria-labelledby to
// the joined text of the referenced elements. ok is false when no id
// resolves.
func (t *Tree) referencedText(ids string) (text string, ok bool) {
	var parts []string
	for _, id := range strings.Fields(ids) {
		ref, found := t.ByID(id)
		if !found {
			continue
		}
		ok = true
		txt := vnode.NormalizeSpace(ref.Node.TextContent())
		if txt == "" {
			txt = ref.Attr("aria-label")
		}
		if txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, " "), ok
}

// labelText collects every piece of text that labels entry i.
func (t *Tree) labelText(i int) string {
	e := t.entries[i]
	var parts []string
	if txt, _ := t.referencedText(e.Attr("aria-labelledby")); txt != "" {
		parts = append(parts, txt)
	}
	if l := e.Attr("aria-label"); l != "" {
		parts = append(parts, l)
	}
	for _, l := range t.labelEntries(i) {
		if txt := vnode.NormalizeSpace(l.Node.TextContent()); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, " ")
}

// hasLabel reports whether entry i carries any labeling mechanism.
func (t *Tree) hasLabel(i int) bool {
	e := t.entries[i]
	if e.Attr("aria-label") != "" || e.Attr("aria-labelledby") != "" {
		return true
	}
	return len(t.labelEntries(i)) > 0
}

// AccessibleName approximates the accessible name computation for entry i.
func (t *Tree) AccessibleName(i int) string {
	e := t.entries[i]

	if txt, _ := t.referencedText(e.Attr("aria-labelledby")); txt != "" {
		return txt
	}
	if l := e.Attr("aria-label"); l != "" {
		return l
	}

	if formControlTags[e.Tag()] {
		for _, l := range t.labelEntries(i) {
			if txt := vnode.NormalizeSpace(l.Node.TextContent()); txt != "" {
				return txt
			}
		}
		if e.Tag() == "input" {
			switch strings.ToLower(e.Attr("type")) {
			case "submit", "reset", "button":
				if v := e.Attr("value"); v != "" {
					return v
				}
			case "image":
				if alt := e.Attr("alt"); alt != "" {
					return alt
				}
			}
		}
	} else {
		if txt := vnode.NormalizeSpace(e.Node.TextContent()); txt != "" {
			return txt
		}
		var alt string
		t.Descendants(i, func(d Entry) {
			if alt == "" && d.Tag() == "img" {
				alt = d.Attr("alt")
			}
		})
		if alt != "" {
			return alt
		}
	}

	if title := e.Attr("title"); title != "" {
		return title
	}
	if formControlTags[e.Tag()] {
		return e.Attr("placeholder")
	}
	return ""
}
