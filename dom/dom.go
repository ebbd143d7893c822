// Package dom defines the element-tree capability surface the selector
// engine matches against, together with an etree-backed implementation.
// The engine itself only reads trees: identity comparison, attribute
// lookup, ordered child traversal and a document-wide id index.
package dom

// Element is one node handle of a document tree.
type Element interface {
	// TagName returns the element's tag.
	TagName() string
	// Attr looks up an attribute by name, reporting presence alongside the
	// raw value.
	Attr(name string) (string, bool)
	// Parent returns the parent element, or nil at the root.
	Parent() Element
	// Children returns the element children in document order.
	Children() Elements
	// Is compares by stable node identity, not structure.
	Is(other Element) bool
	// Clone produces an independent handle to the same logical node.
	Clone() Element
	// Document returns the owning document.
	Document() Document
}

// Document is the tree-wide view an element belongs to.
type Document interface {
	// Root returns the document's root element, or nil for an empty tree.
	Root() Element
	// ElementByID returns the element owning the given id, or nil.
	ElementByID(id string) Element
}

// Elements is an ordered collection of element handles. Order is
// query-relevant: transforms over a collection preserve it.
type Elements []Element

// Cloned returns a same-order collection of independent handles.
func (es Elements) Cloned() Elements {
	out := make(Elements, len(es))
	for i, e := range es {
		out[i] = e.Clone()
	}
	return out
}

// Contains reports whether the collection holds an element identical to e.
func (es Elements) Contains(e Element) bool {
	for _, cur := range es {
		if cur.Is(e) {
			return true
		}
	}
	return false
}

// Intersect keeps the elements of es that are also present in other,
// preserving the order of es.
func (es Elements) Intersect(other Elements) Elements {
	out := make(Elements, 0, len(es))
	for _, e := range es {
		if other.Contains(e) {
			out = append(out, e)
		}
	}
	return out
}

// Descendants returns every element below e in pre-order.
func Descendants(e Element) Elements {
	var out Elements
	for _, child := range e.Children() {
		out = append(out, child)
		out = append(out, Descendants(child)...)
	}
	return out
}

// SiblingPosition returns e's zero-based position among its parent's
// element children and the number of those children. A parentless element
// counts as the only child.
func SiblingPosition(e Element) (index, total int) {
	parent := e.Parent()
	if parent == nil {
		return 0, 1
	}
	siblings := parent.Children()
	for i, s := range siblings {
		if s.Is(e) {
			return i, len(siblings)
		}
	}
	return 0, len(siblings)
}
