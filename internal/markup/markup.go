// Package markup checks a server-rendered recipe page against what the
// interaction handler needs from it: controls carrying recipe ids, cards
// around add-to-cart controls, and exactly one toast.
package markup

import (
	"fmt"
	"strings"

	"groceryhelper/internal/dom"
	"groceryhelper/internal/dom/htmldom"
	"groceryhelper/internal/interact"
	"groceryhelper/internal/recipeapi"
	"groceryhelper/internal/toast"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"golang.org/x/net/html"
)

type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
)

// Finding is one contract violation on a page.
type Finding struct {
	Source   string
	Severity Severity
	Rule     string
	Element  string
	Message  string
}

func (f Finding) String() string {
	if f.Element == "" {
		return fmt.Sprintf("%s: %s [%s] %s", f.Source, f.Severity, f.Rule, f.Message)
	}
	return fmt.Sprintf("%s: %s [%s] %s: %s", f.Source, f.Severity, f.Rule, f.Element, f.Message)
}

// Check inspects doc. source names the page in findings.
func Check(source string, doc *htmldom.Document, maxDepth int) []Finding {
	c := checker{source: source, doc: doc, maxDepth: maxDepth}
	gq := doc.Goquery()
	c.checkToast(gq)
	for _, kind := range interact.Kinds {
		gq.Find("." + string(kind)).Each(func(_ int, s *goquery.Selection) {
			c.checkControl(kind, s.Get(0))
		})
	}
	return c.findings
}

// Errors returns the error-level findings.
func Errors(findings []Finding) []Finding {
	return lo.Filter(findings, func(f Finding, _ int) bool {
		return f.Severity == Error
	})
}

type checker struct {
	source   string
	doc      *htmldom.Document
	maxDepth int
	findings []Finding
}

func (c *checker) add(sev Severity, rule string, n *html.Node, format string, args ...any) {
	c.findings = append(c.findings, Finding{
		Source:   c.source,
		Severity: sev,
		Rule:     rule,
		Element:  describe(n),
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *checker) checkToast(gq *goquery.Document) {
	toasts := gq.Find(toast.Selector)
	switch toasts.Length() {
	case 0:
		c.add(Error, "toast-count", nil, "page has no %s element", toast.Selector)
		return
	case 1:
	default:
		c.add(Error, "toast-count", toasts.Get(1), "page has %d %s elements, want exactly one", toasts.Length(), toast.Selector)
	}
	if toasts.First().Find(toast.BodySelector).Length() == 0 {
		c.add(Error, "toast-body", toasts.Get(0), "toast has no %s child", toast.BodySelector)
	}
}

func (c *checker) checkControl(kind recipeapi.Action, n *html.Node) {
	el := c.doc.Wrap(n)
	if id, ok := el.Attr(interact.RecipeIDAttr); !ok || strings.TrimSpace(id) == "" {
		c.add(Error, "recipe-id", n, "%s control has no %s", kind, interact.RecipeIDAttr)
	}

	switch kind {
	case recipeapi.AddToCart:
		card, ok := dom.Resolve(el, dom.HasClass(interact.CardClass), c.maxDepth)
		if !ok {
			c.add(Error, "card", n, "no .%s ancestor within %d levels, cart icon will not update", interact.CardClass, c.maxDepth)
			return
		}
		if _, ok := card.Query(interact.CartIcon); !ok {
			c.add(Warning, "cart-icon", n, "enclosing card has no %s icon", interact.CartIcon)
		}
	case recipeapi.Favorite:
		if el.HasClass(string(recipeapi.Unfavorite)) {
			c.add(Error, "favorite-state", n, "control is both favorite and unfavorite")
		}
	}
}

// describe renders a node as a short selector-like label.
func describe(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		switch a.Key {
		case "id":
			b.WriteString("#" + a.Val)
		case "class":
			for _, c := range dom.Classes(a.Val) {
				b.WriteString("." + c)
			}
		case interact.RecipeIDAttr:
			fmt.Fprintf(&b, "[%s=%q]", a.Key, a.Val)
		}
	}
	return b.String()
}
