package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionExpired is joined to the original 401 when the silent refresh
// could not renew the session.
var ErrSessionExpired = errors.New("session expired, please login again")

// ErrNoRefreshToken is returned by Refresh when no refresh token is held.
var ErrNoRefreshToken = errors.New("no refresh token available")

// NetworkError means the request was sent but no response was received.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: no response: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response. Body holds the raw response body and
// Message the backend's "message" field when it sent one.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
}

// UnknownError wraps failures that are neither transport nor HTTP errors,
// such as an undecodable response body.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string { return fmt.Sprintf("unexpected API failure: %v", e.Err) }

func (e *UnknownError) Unwrap() error { return e.Err }

func newHTTPError(method, path string, status int, body []byte) *HTTPError {
	return &HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       body,
		Message:    bodyMessage(body),
	}
}

// bodyMessage extracts "message" from a JSON error body, or returns the
// trimmed body when it is short plain text.
func bodyMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		return env.Message
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 || strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}

// Category groups failures for choosing display text.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryNetwork
	CategoryNotFound
	CategoryForbidden
	CategoryServer
)

func (c Category) String() string {
	switch c {
	case CategoryNetwork:
		return "network"
	case CategoryNotFound:
		return "not_found"
	case CategoryForbidden:
		return "forbidden"
	case CategoryServer:
		return "server"
	default:
		return "generic"
	}
}

// Classify maps an error returned by the client to a display category.
func Classify(err error) Category {
	if err == nil {
		return CategoryGeneric
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return CategoryNetwork
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusNotFound:
			return CategoryNotFound
		case httpErr.StatusCode == http.StatusUnauthorized, httpErr.StatusCode == http.StatusForbidden:
			return CategoryForbidden
		case httpErr.StatusCode >= 500:
			return CategoryServer
		}
	}
	return CategoryGeneric
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// Message returns the backend's message carried by err, or "".
func Message(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return ""
}

// IsNetwork reports whether err means no response was received.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
