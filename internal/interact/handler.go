// Package interact binds the recipe cart and favorite controls to the
// recipe API and reflects each outcome in the page.
package interact

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"groceryhelper/internal/dom"
	"groceryhelper/internal/recipeapi"
	"groceryhelper/internal/toast"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	RecipeIDAttr = "data-recipe-id"

	CardClass = "card"
	CartIcon  = ".fa-shopping-cart"

	CartIdleClass   = "text-light"
	CartActiveClass = "text-secondary"

	// Class attributes a favorite control takes after a successful toggle.
	FavoriteClasses   = "favorite far fa-heart text-secondary"
	UnfavoriteClasses = "unfavorite fas fa-heart text-danger"

	requestFailedMessage = "Something went wrong, please try again."
)

// Kinds lists the control classes in dispatch order. Each class name is
// also the endpoint's action segment.
var Kinds = []recipeapi.Action{recipeapi.AddToCart, recipeapi.Favorite, recipeapi.Unfavorite}

// Match is a control resolved from a click target.
type Match struct {
	Kind    recipeapi.Action
	Control dom.Element
}

// Handler reacts to clicks on recipe controls.
type Handler struct {
	api      recipeapi.Poster
	notifier toast.Notifier
	maxDepth int
	logger   *slog.Logger
	tracer   trace.Tracer

	inflight sync.WaitGroup
}

type Option func(*Handler)

func WithMaxDepth(depth int) Option {
	return func(h *Handler) {
		h.maxDepth = depth
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(h *Handler) {
		h.tracer = tracer
	}
}

func NewHandler(api recipeapi.Poster, notifier toast.Notifier, opts ...Option) *Handler {
	h := &Handler{
		api:      api,
		notifier: notifier,
		maxDepth: dom.DefaultMaxDepth,
		logger:   slog.Default(),
		tracer:   otel.Tracer("groceryhelper/internal/interact"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Match resolves target against every control class. A target outside all
// controls yields nothing.
func (h *Handler) Match(target dom.Element) []Match {
	var matches []Match
	for _, kind := range Kinds {
		if control, ok := dom.Resolve(target, dom.HasClass(string(kind)), h.maxDepth); ok {
			matches = append(matches, Match{Kind: kind, Control: control})
		}
	}
	return matches
}

// Dispatch starts one interaction per matched control and returns how many
// were started. Interactions run concurrently and are never de-duplicated.
func (h *Handler) Dispatch(ctx context.Context, target dom.Element) int {
	matches := h.Match(target)
	for _, m := range matches {
		h.inflight.Add(1)
		go func() {
			defer h.inflight.Done()
			_ = h.Handle(ctx, m.Kind, m.Control)
		}()
	}
	return len(matches)
}

// Wait blocks until every dispatched interaction has finished.
func (h *Handler) Wait() {
	h.inflight.Wait()
}

// Handle runs one interaction to completion: one request, then the page
// update. The request error is returned after the toast shows it.
func (h *Handler) Handle(ctx context.Context, kind recipeapi.Action, control dom.Element) error {
	recipeID, ok := control.Attr(RecipeIDAttr)
	if !ok || recipeID == "" {
		h.logger.WarnContext(ctx, "control has no recipe id", "kind", kind)
		return nil
	}

	ctx, span := h.tracer.Start(ctx, "interact."+string(kind), trace.WithAttributes(
		attribute.String("recipe.id", recipeID),
		attribute.String("recipe.action", string(kind)),
	))
	defer span.End()

	resp, err := h.api.Post(ctx, recipeID, kind)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.ErrorContext(ctx, "recipe action failed", "kind", kind, "recipe_id", recipeID, "error", err)
		h.notifier.Failure(failureMessage(err))
		return err
	}

	switch kind {
	case recipeapi.AddToCart:
		h.activateCartIcon(ctx, control)
	case recipeapi.Favorite:
		control.SetAttr("class", UnfavoriteClasses)
	case recipeapi.Unfavorite:
		control.SetAttr("class", FavoriteClasses)
	}
	span.SetStatus(codes.Ok, "")
	h.logger.InfoContext(ctx, "recipe action succeeded", "kind", kind, "recipe_id", recipeID)
	h.notifier.Success(resp.Message)
	return nil
}

func (h *Handler) activateCartIcon(ctx context.Context, control dom.Element) {
	// The card walk keeps the default bound whatever the control depth is.
	card, ok := dom.Resolve(control, dom.HasClass(CardClass), dom.DefaultMaxDepth)
	if !ok {
		h.logger.WarnContext(ctx, "add-to-cart control is not inside a card")
		return
	}
	icon, ok := card.Query(CartIcon)
	if !ok {
		h.logger.WarnContext(ctx, "card has no shopping cart icon")
		return
	}
	icon.AddClass(CartActiveClass)
	icon.RemoveClass(CartIdleClass)
}

func failureMessage(err error) string {
	var apiErr *recipeapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return requestFailedMessage
}
