package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/crate/internal/shared"
)

// APIError is a non-2xx backend response.
//
// Message holds the body's "error" field and is empty when the body has none.
type APIError struct {
	StatusCode int
	Message    string
}

func newAPIError(resp *APIResponse) *APIError {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(resp.Body, &body)
	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(body.Error)}
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code onto the shared sentinel errors.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return shared.ErrNotAuthenticated
	case e.StatusCode == http.StatusServiceUnavailable:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrAPIRequest
	}
}

// ErrorMessage returns the text to show a user for err: the backend's own message when there is one, otherwise fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
