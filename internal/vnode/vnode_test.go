package vnode_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/raysh454/folio-a11y/internal/vnode"
)

func sampleTree() *vnode.Element {
	return vnode.NewElement("main").Append(
		vnode.NewElement("h1").WithText("Jane Doe"),
		vnode.NewElement("p").
			WithStyle("color", "#333").
			WithText("Builds ").
			Append(vnode.NewElement("strong").WithText("fast")).
			WithText(" things"),
		vnode.NewElement("button").
			WithAttr("aria-label", "Menu").
			WithBox(0, 0, 48, 48).
			WithFocusStyle("outline-style", "solid"),
	)
}

func TestTextContent_ConcatenatesDescendants(t *testing.T) {
	t.Parallel()
	root := sampleTree()
	got := root.TextContent()
	want := "Jane DoeBuilds fast things"
	if got != want {
		t.Errorf("TextContent = %q, want %q", got, want)
	}
}

func TestTextContent_SkipsNilChildren(t *testing.T) {
	t.Parallel()
	root := vnode.NewElement("a").WithText("Case ").Append(nil, vnode.NewElement("span").Append(nil).WithText("study"))
	if got := root.TextContent(); got != "Case study" {
		t.Errorf("TextContent = %q", got)
	}
}

func TestOwnText_IgnoresNestedElements(t *testing.T) {
	t.Parallel()
	p := sampleTree().ChildNodes()[1]
	if got := vnode.OwnText(p); got != "Builds  things" {
		t.Errorf("OwnText = %q", got)
	}
}

func TestCountElements(t *testing.T) {
	t.Parallel()
	if got := vnode.CountElements(sampleTree()); got != 5 {
		t.Errorf("CountElements = %d, want 5", got)
	}
	if got := vnode.CountElements(vnode.NewDocument()); got != 0 {
		t.Errorf("empty document counted %d elements", got)
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	t.Parallel()
	var tags []string
	vnode.Walk(sampleTree(), func(n vnode.VisualNode, _ int) bool {
		if n.Kind() == vnode.ElementNode {
			tags = append(tags, n.TagName())
		}
		return n.TagName() != "p"
	})
	want := []string{"main", "h1", "p", "button"}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_RoundTripPreservesTree(t *testing.T) {
	t.Parallel()
	raw, err := json.Marshal(vnode.SnapshotOf(sampleTree()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rebuilt, err := vnode.DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}

	if diff := cmp.Diff(vnode.SnapshotOf(sampleTree()), vnode.SnapshotOf(rebuilt)); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	btn := rebuilt.ChildNodes()[2]
	if !btn.BoundingBox().LaidOut() {
		t.Error("box lost in round trip")
	}
	if btn.FocusStyle().Get("outline-style") != "solid" {
		t.Error("focus style lost in round trip")
	}
}

func TestDecodeSnapshot_Errors(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"invalid json":    `{`,
		"empty":           `{}`,
		"unknown kind":    `{"kind":"comment","tag":"x"}`,
		"element without tag": `{"kind":"element"}`,
	}
	for name, in := range cases {
		if _, err := vnode.DecodeSnapshot([]byte(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestAttributes_Helpers(t *testing.T) {
	t.Parallel()
	a := vnode.Attributes{"class": " hero  decorative ", "alt": ""}
	if !a.HasClass("decorative") || a.HasClass("hero-img") {
		t.Errorf("HasClass mismatch for %v", a.Classes())
	}
	if !a.Has("alt") || a.Value("alt") != "" {
		t.Error("empty attribute should be present with empty value")
	}
	if a.Has("title") {
		t.Error("missing attribute reported present")
	}
}
