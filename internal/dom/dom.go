// Package dom is the small slice of the browser DOM that the recipe
// interaction code needs. The same interface is backed by syscall/js in the
// browser and by an HTML tree in tests and tooling.
package dom

import (
	"strings"

	"github.com/samber/lo"
)

// DefaultMaxDepth is how many parent hops Resolve takes before giving up.
const DefaultMaxDepth = 4

// Element is a DOM element.
type Element interface {
	HasClass(name string) bool
	AddClass(names ...string)
	RemoveClass(names ...string)

	// Attr reports the value of the named attribute and whether it is set.
	Attr(name string) (string, bool)
	SetAttr(name, value string)

	// Parent returns the parent element, false at the document root.
	Parent() (Element, bool)

	// Query returns the first descendant matching a CSS selector.
	Query(selector string) (Element, bool)
	QueryAll(selector string) []Element

	Text() string
	SetText(text string)
}

// Predicate selects elements during resolution.
type Predicate func(Element) bool

// HasClass matches elements carrying the class name.
func HasClass(name string) Predicate {
	return func(e Element) bool {
		return e.HasClass(name)
	}
}

// Resolve walks from start up through its ancestors, start included, and
// returns the first element matching. At most maxDepth parent hops are taken.
// A non-positive maxDepth only checks start.
func Resolve(start Element, match Predicate, maxDepth int) (Element, bool) {
	if start == nil {
		return nil, false
	}
	current := start
	for hops := 0; ; hops++ {
		if match(current) {
			return current, true
		}
		if hops >= maxDepth {
			return nil, false
		}
		parent, ok := current.Parent()
		if !ok || parent == nil {
			return nil, false
		}
		current = parent
	}
}

// Classes splits a class attribute into its names.
func Classes(attr string) []string {
	return strings.Fields(attr)
}

// AddClasses returns the class list with names appended when not present.
func AddClasses(list []string, names ...string) []string {
	return lo.Uniq(append(list, names...))
}

// RemoveClasses returns the class list without names.
func RemoveClasses(list []string, names ...string) []string {
	return lo.Without(list, names...)
}
