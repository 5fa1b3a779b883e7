package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError is a backend failure with the server-supplied message preserved so
// the UI can prefer it over a generic one.
type APIError struct {
	StatusCode int
	Endpoint   string
	// ServerMessage is the backend's human-readable message, when it sent one.
	ServerMessage string
}

func (e *APIError) Error() string {
	if e.ServerMessage != "" {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Endpoint, e.ServerMessage, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.StatusCode)
}

// errorBody covers the two message field names the backend uses.
type errorBody struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

// newAPIError builds an APIError from a non-2xx response body.
func newAPIError(endpoint string, status int, body []byte) *APIError {
	var eb errorBody
	msg := ""
	if json.Unmarshal(body, &eb) == nil {
		if eb.Message != "" {
			msg = eb.Message
		} else if eb.Err != "" {
			msg = eb.Err
		}
	}
	return &APIError{StatusCode: status, Endpoint: endpoint, ServerMessage: msg}
}

// Message extracts a display string for any error, preferring a backend
// message and falling back to the generic one.
func Message(err error, generic string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.ServerMessage != "" {
		return apiErr.ServerMessage
	}
	if err != nil && generic == "" {
		return err.Error()
	}
	return generic
}
