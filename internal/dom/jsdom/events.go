//go:build js && wasm

package jsdom

import (
	"syscall/js"
)

// Event is the part of a DOM event handed to Go listeners.
type Event struct {
	v js.Value
}

// Target returns the element the event was dispatched to.
func (ev Event) Target() (Element, bool) {
	return Wrap(ev.v.Get("target"))
}

// PreventDefault cancels the browser's default action.
func (ev Event) PreventDefault() {
	ev.v.Call("preventDefault")
}

// On adds an event listener and returns a func that removes it and frees
// the callback.
func (e Element) On(eventType string, handler func(Event)) (release func()) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			handler(Event{v: args[0]})
		}
		return nil
	})
	e.v.Call("addEventListener", eventType, cb)
	return func() {
		e.v.Call("removeEventListener", eventType, cb)
		cb.Release()
	}
}

// BootstrapToastShow returns a show hook calling the Bootstrap toast plugin
// through jQuery, or nil when jQuery is not on the page.
func BootstrapToastShow(selector string) func() {
	jq := js.Global().Get("jQuery")
	if !jq.Truthy() {
		return nil
	}
	return func() {
		sel := jq.Invoke(selector)
		if sel.Get("toast").Truthy() {
			sel.Call("toast", "show")
		}
	}
}
