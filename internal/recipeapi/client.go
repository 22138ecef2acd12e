// Package recipeapi calls the recipe backend's cart and favorite endpoints.
package recipeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"groceryhelper/internal/config"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// Action is the last path segment of a recipe endpoint.
type Action string

const (
	AddToCart  Action = "add-to-cart"
	Favorite   Action = "favorite"
	Unfavorite Action = "unfavorite"
)

const maxBody = 64 * 1024

// Response is the body of a successful call.
type Response struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Poster issues one recipe action.
type Poster interface {
	Post(ctx context.Context, recipeID string, action Action) (*Response, error)
}

// Client posts recipe actions to the backend.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	logger  *slog.Logger
}

var _ Poster = (*Client)(nil)

// NewClient creates a client. RetryMax defaults to zero: one attempt per
// click, with the error response handed back untouched.
func NewClient(cfg config.APIConfig, logger *slog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base != "" {
		if _, err := url.Parse(base); err != nil {
			return nil, fmt.Errorf("parse api base url: %w", err)
		}
	}
	if cfg.RetryMax < 0 {
		return nil, errors.New("retry max must not be negative")
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if logger != nil {
		rc.Logger = logger
	}
	// The pooled default client dials directly, which bypasses fetch under
	// js/wasm; the browser build passes its own client.
	if cfg.HTTPClient != nil {
		rc.HTTPClient = cfg.HTTPClient
	}
	if cfg.Timeout > 0 {
		hc := *rc.HTTPClient
		hc.Timeout = cfg.Timeout
		rc.HTTPClient = &hc
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: base, http: rc, logger: logger}, nil
}

// Endpoint returns the URL for a recipe action.
func (c *Client) Endpoint(recipeID string, action Action) string {
	return fmt.Sprintf("%s/api/recipes/%s/%s", c.baseURL, url.PathEscape(recipeID), action)
}

// Post issues the action. Non-2xx responses come back as *APIError.
func (c *Client) Post(ctx context.Context, recipeID string, action Action) (*Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(recipeID, action), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", action, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", action, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Action: action, StatusCode: resp.StatusCode}
		var payload Response
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}

	// Any 2xx is a success, even when the body carries no message.
	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		c.logger.WarnContext(ctx, "recipe action succeeded without a readable body", "action", action, "status", resp.StatusCode, "error", err)
		return &Response{}, nil
	}
	return &out, nil
}
