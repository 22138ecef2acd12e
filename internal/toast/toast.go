// Package toast drives the page's single shared notification element.
package toast

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"groceryhelper/internal/dom"
)

const (
	Selector     = ".toast"
	BodySelector = ".toast-body"

	SuccessClass = "bg-success"
	FailureClass = "bg-danger"
	HiddenClass  = "hidden"
)

var ErrNotFound = errors.New("toast element not found")

// Notifier shows an interaction outcome to the user.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// Toast is the page's shared .toast element. It is reused for every
// interaction; the last call wins. Each call applies its text and style as
// one unit.
type Toast struct {
	mu   sync.Mutex
	root dom.Element
	body dom.Element
	show func()
}

var _ Notifier = (*Toast)(nil)

type Option func(*Toast)

// WithShow installs a hook run after the toast is made visible, e.g. a UI
// framework's show animation.
func WithShow(show func()) Option {
	return func(t *Toast) {
		t.show = show
	}
}

// New wraps an already located toast and its body.
func New(root, body dom.Element, opts ...Option) *Toast {
	t := &Toast{root: root, body: body}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Find locates the toast under scope. The page must carry exactly one.
func Find(scope dom.Element, opts ...Option) (*Toast, error) {
	found := scope.QueryAll(Selector)
	switch len(found) {
	case 0:
		return nil, ErrNotFound
	case 1:
	default:
		return nil, fmt.Errorf("expected one %s element, found %d", Selector, len(found))
	}
	body, ok := found[0].Query(BodySelector)
	if !ok {
		return nil, fmt.Errorf("%s has no %s: %w", Selector, BodySelector, ErrNotFound)
	}
	return New(found[0], body, opts...), nil
}

func (t *Toast) Success(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.body.SetText(message)
	t.root.AddClass(SuccessClass)
	t.root.RemoveClass(FailureClass)
	t.reveal()
}

func (t *Toast) Failure(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.body.SetText(message)
	t.root.RemoveClass(SuccessClass)
	t.root.AddClass(FailureClass)
	t.reveal()
}

func (t *Toast) reveal() {
	t.root.RemoveClass(HiddenClass)
	if t.show != nil {
		t.show()
	}
}

// LogNotifier reports outcomes to a logger. It stands in when a page has no
// toast element.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Success(message string) {
	n.Logger.Info("recipe action succeeded", "message", message)
}

func (n LogNotifier) Failure(message string) {
	n.Logger.Warn("recipe action failed", "message", message)
}
