package recipeapi

import "fmt"

// APIError captures a non-2xx response from the recipe API. Message is the
// server's own message when the body carried one.
type APIError struct {
	Action     Action
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s request failed: status %d: %s", e.Action, e.StatusCode, e.Message)
}
