package dom

import (
	"github.com/beevik/etree"
)

// TreeDocument adapts an etree document to the engine's Document contract.
// The id index is built once at wrap time; the engine never mutates trees,
// so the index stays valid for the document's lifetime.
type TreeDocument struct {
	doc *etree.Document
	ids map[string]*etree.Element
}

// NewTreeDocument wraps doc and indexes every "id" attribute in the tree.
// On duplicate ids the first element in document order wins.
func NewTreeDocument(doc *etree.Document) *TreeDocument {
	d := &TreeDocument{doc: doc, ids: make(map[string]*etree.Element)}
	if root := doc.Root(); root != nil {
		d.indexIDs(root)
	}
	return d
}

func (d *TreeDocument) indexIDs(el *etree.Element) {
	if id := el.SelectAttrValue("id", ""); id != "" {
		if _, ok := d.ids[id]; !ok {
			d.ids[id] = el
		}
	}
	for _, child := range el.ChildElements() {
		d.indexIDs(child)
	}
}

func (d *TreeDocument) Root() Element {
	root := d.doc.Root()
	if root == nil {
		return nil
	}
	return &treeElement{node: root, doc: d}
}

func (d *TreeDocument) ElementByID(id string) Element {
	node, ok := d.ids[id]
	if !ok {
		return nil
	}
	return &treeElement{node: node, doc: d}
}

// Wrap turns a raw etree element of this document into an Element handle.
func (d *TreeDocument) Wrap(el *etree.Element) Element {
	if el == nil {
		return nil
	}
	return &treeElement{node: el, doc: d}
}

type treeElement struct {
	node *etree.Element
	doc  *TreeDocument
}

func (e *treeElement) TagName() string {
	return e.node.Tag
}

func (e *treeElement) Attr(name string) (string, bool) {
	attr := e.node.SelectAttr(name)
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

func (e *treeElement) Parent() Element {
	p := e.node.Parent()
	// the document itself shows up as a tagless pseudo element
	if p == nil || p.Tag == "" {
		return nil
	}
	return &treeElement{node: p, doc: e.doc}
}

func (e *treeElement) Children() Elements {
	children := e.node.ChildElements()
	out := make(Elements, len(children))
	for i, child := range children {
		out[i] = &treeElement{node: child, doc: e.doc}
	}
	return out
}

func (e *treeElement) Is(other Element) bool {
	o, ok := other.(*treeElement)
	return ok && o.node == e.node
}

func (e *treeElement) Clone() Element {
	return &treeElement{node: e.node, doc: e.doc}
}

func (e *treeElement) Document() Document {
	return e.doc
}
