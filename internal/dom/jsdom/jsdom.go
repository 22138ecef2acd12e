//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"groceryhelper/internal/dom"
)

// Element wraps a browser element.
type Element struct {
	v js.Value
}

var _ dom.Element = Element{}

// Wrap returns the element for a js value, false when it is not an element.
func Wrap(v js.Value) (Element, bool) {
	if !v.Truthy() || v.Get("nodeType").Int() != 1 {
		return Element{}, false
	}
	return Element{v: v}, true
}

// Body returns document.body.
func Body() (Element, bool) {
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return Element{}, false
	}
	return Wrap(doc.Get("body"))
}

func (e Element) HasClass(name string) bool {
	return e.v.Get("classList").Call("contains", name).Bool()
}

func (e Element) AddClass(names ...string) {
	e.v.Get("classList").Call("add", toAny(names)...)
}

func (e Element) RemoveClass(names ...string) {
	e.v.Get("classList").Call("remove", toAny(names)...)
}

func (e Element) Attr(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

func (e Element) SetAttr(name, value string) {
	e.v.Call("setAttribute", name, value)
}

func (e Element) Parent() (dom.Element, bool) {
	p, ok := Wrap(e.v.Get("parentElement"))
	if !ok {
		return nil, false
	}
	return p, true
}

func (e Element) Query(selector string) (dom.Element, bool) {
	found, ok := Wrap(e.v.Call("querySelector", selector))
	if !ok {
		return nil, false
	}
	return found, true
}

func (e Element) QueryAll(selector string) []dom.Element {
	list := e.v.Call("querySelectorAll", selector)
	n := list.Length()
	out := make([]dom.Element, 0, n)
	for i := 0; i < n; i++ {
		if el, ok := Wrap(list.Index(i)); ok {
			out = append(out, el)
		}
	}
	return out
}

func (e Element) Text() string {
	return e.v.Get("textContent").String()
}

func (e Element) SetText(text string) {
	e.v.Set("textContent", text)
}

// Dataset reads every data-* attribute through element.dataset.
func (e Element) Dataset() map[string]string {
	ds := e.v.Get("dataset")
	keys := js.Global().Get("Object").Call("keys", ds)
	out := make(map[string]string, keys.Length())
	for i := 0; i < keys.Length(); i++ {
		k := keys.Index(i).String()
		out[k] = ds.Get(k).String()
	}
	return out
}

func toAny(names []string) []any {
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	return args
}
