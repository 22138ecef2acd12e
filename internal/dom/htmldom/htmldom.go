// Package htmldom implements dom.Element over a parsed HTML tree. It backs
// the markup checker and lets the interaction code run under go test.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"groceryhelper/internal/dom"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed page. All element access through one document is
// serialized, the way the browser serializes DOM access.
type Document struct {
	mu   sync.Mutex
	root *html.Node
}

// Parse reads an HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses an HTML page held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Goquery exposes the tree for selector based inspection. Callers must not
// mutate it while elements of the document are in use.
func (d *Document) Goquery() *goquery.Document {
	return goquery.NewDocumentFromNode(d.root)
}

// Body returns the <body> element.
func (d *Document) Body() (dom.Element, bool) {
	return d.Query("body")
}

// Query returns the first element in the document matching selector.
func (d *Document) Query(selector string) (dom.Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.first(d.root, selector)
}

// QueryAll returns every element in the document matching selector.
func (d *Document) QueryAll(selector string) []dom.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.all(d.root, selector)
}

// Wrap returns the element for a node of this document.
func (d *Document) Wrap(n *html.Node) dom.Element {
	return &Element{doc: d, node: n}
}

// Render writes the current tree back out as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func (d *Document) first(n *html.Node, selector string) (dom.Element, bool) {
	sel := goquery.NewDocumentFromNode(n).Find(selector)
	if sel.Length() == 0 {
		return nil, false
	}
	return d.Wrap(sel.Get(0)), true
}

func (d *Document) all(n *html.Node, selector string) []dom.Element {
	sel := goquery.NewDocumentFromNode(n).Find(selector)
	out := make([]dom.Element, 0, sel.Length())
	for _, node := range sel.Nodes {
		out = append(out, d.Wrap(node))
	}
	return out
}

// Element is an element node inside a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

var _ dom.Element = (*Element)(nil)

// Node returns the underlying html node.
func (e *Element) Node() *html.Node {
	return e.node
}

func (e *Element) HasClass(name string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for _, c := range dom.Classes(attr(e.node, "class")) {
		if c == name {
			return true
		}
	}
	return false
}

func (e *Element) AddClass(names ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	list := dom.AddClasses(dom.Classes(attr(e.node, "class")), names...)
	setAttr(e.node, "class", strings.Join(list, " "))
}

func (e *Element) RemoveClass(names ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	list := dom.RemoveClasses(dom.Classes(attr(e.node, "class")), names...)
	setAttr(e.node, "class", strings.Join(list, " "))
}

func (e *Element) Attr(name string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) SetAttr(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.node, name, value)
}

func (e *Element) Parent() (dom.Element, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil, false
	}
	return e.doc.Wrap(p), true
}

func (e *Element) Query(selector string) (dom.Element, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.first(e.node, selector)
}

func (e *Element) QueryAll(selector string) []dom.Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.all(e.node, selector)
}

func (e *Element) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return goquery.NewDocumentFromNode(e.node).Text()
}

func (e *Element) SetText(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
		e.node.RemoveChild(c)
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}
