package dom

import (
	"testing"

	"github.com/beevik/etree"
)

func parse(t *testing.T, source string) *TreeDocument {
	t.Helper()
	tree := etree.NewDocument()
	if err := tree.ReadFromString(source); err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return NewTreeDocument(tree)
}

const sample = `
<root id="top">
	<section id="intro" class="lead">
		<p>first</p>
		<p>second</p>
	</section>
	<section>
		<p id="deep">third</p>
	</section>
</root>`

func TestTreeNavigation(t *testing.T) {
	doc := parse(t, sample)
	root := doc.Root()
	if root == nil {
		t.Fatal("missing root")
	}
	if root.TagName() != "root" {
		t.Errorf("root tag %q", root.TagName())
	}
	if root.Parent() != nil {
		t.Error("root must have no parent")
	}
	children := root.Children()
	if len(children) != 2 {
		t.Fatalf("root children = %d, want 2", len(children))
	}
	if children[0].TagName() != "section" {
		t.Errorf("first child tag %q", children[0].TagName())
	}
	if p := children[0].Children()[1]; p.Parent() == nil || !p.Parent().Is(children[0]) {
		t.Error("parent of p must be the first section")
	}
}

func TestAttrLookup(t *testing.T) {
	doc := parse(t, sample)
	section := doc.Root().Children()[0]
	if v, ok := section.Attr("class"); !ok || v != "lead" {
		t.Errorf("class = %q, %v", v, ok)
	}
	if _, ok := section.Attr("missing"); ok {
		t.Error("missing attribute reported present")
	}
}

func TestIdentityAndClone(t *testing.T) {
	doc := parse(t, sample)
	root := doc.Root()
	clone := root.Clone()
	if !clone.Is(root) {
		t.Error("a clone is a handle to the same node")
	}
	other := doc.Root().Children()[0]
	if other.Is(root) {
		t.Error("distinct nodes must not compare identical")
	}
}

func TestElementByID(t *testing.T) {
	doc := parse(t, sample)
	deep := doc.ElementByID("deep")
	if deep == nil || deep.TagName() != "p" {
		t.Fatalf("ElementByID(deep) = %v", deep)
	}
	if doc.ElementByID("nope") != nil {
		t.Error("unknown id must yield nil")
	}
	if top := doc.ElementByID("top"); top == nil || !top.Is(doc.Root()) {
		t.Error("root id lookup failed")
	}
}

func TestDescendantsOrder(t *testing.T) {
	doc := parse(t, sample)
	var tags []string
	for _, e := range Descendants(doc.Root()) {
		tags = append(tags, e.TagName())
	}
	want := []string{"section", "p", "p", "section", "p"}
	if len(tags) != len(want) {
		t.Fatalf("descendants = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("descendants = %v, want pre-order %v", tags, want)
		}
	}
}

func TestSiblingPosition(t *testing.T) {
	doc := parse(t, sample)
	section := doc.Root().Children()[0]
	ps := section.Children()
	if index, total := SiblingPosition(ps[1]); index != 1 || total != 2 {
		t.Errorf("position = %d/%d, want 1/2", index, total)
	}
	if index, total := SiblingPosition(doc.Root()); index != 0 || total != 1 {
		t.Errorf("root position = %d/%d, want 0/1", index, total)
	}
}

func TestElementsHelpers(t *testing.T) {
	doc := parse(t, sample)
	children := doc.Root().Children()
	cloned := children.Cloned()
	if len(cloned) != len(children) {
		t.Fatalf("cloned length %d", len(cloned))
	}
	for i := range children {
		if !cloned[i].Is(children[i]) {
			t.Error("cloned order or identity broken")
		}
	}
	if !children.Contains(children[1].Clone()) {
		t.Error("Contains must compare by identity")
	}
	onlyFirst := Elements{children[0]}
	got := children.Intersect(onlyFirst)
	if len(got) != 1 || !got[0].Is(children[0]) {
		t.Errorf("intersect = %d elements", len(got))
	}
}
