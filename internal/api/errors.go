package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	// ForbiddenMessage is shown for 403 responses on role-gated endpoints.
	ForbiddenMessage = "This feature is not available for your account role."
	// NetworkMessage is shown when the API could not be reached.
	NetworkMessage = "Network error: could not reach the server. Please try again."
)

// FieldError is one entry of a server validation error list.
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type,omitempty"`
}

// Path joins the location segments with dots, e.g. "body.salary_min".
func (f FieldError) Path() string {
	parts := make([]string, 0, len(f.Loc))
	for _, segment := range f.Loc {
		switch v := segment.(type) {
		case string:
			parts = append(parts, v)
		case float64:
			parts = append(parts, fmt.Sprintf("%d", int(v)))
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	return strings.Join(parts, ".")
}

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Status     string
	// Details holds structured validation errors when the server sent them.
	Details []FieldError
	// Message holds a plain detail or message string when the server sent one.
	Message string
}

func (e *Error) Error() string {
	switch {
	case len(e.Details) > 0:
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.flatten())
	case e.Message != "":
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("api error: %s", e.Status)
	}
}

func (e *Error) flatten() string {
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		if path := d.Path(); path != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s", path, d.Msg))
			continue
		}
		msgs = append(msgs, d.Msg)
	}
	return strings.Join(msgs, ", ")
}

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func parseError(code int, status string, body []byte) *Error {
	apiErr := &Error{StatusCode: code, Status: status}

	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	detail := bytes.TrimSpace(envelope.Detail)
	switch {
	case len(detail) > 0 && detail[0] == '[':
		var details []FieldError
		if err := json.Unmarshal(detail, &details); err == nil {
			apiErr.Details = details
		}
	case len(detail) > 0 && detail[0] == '"':
		_ = json.Unmarshal(detail, &apiErr.Message)
	}

	if apiErr.Message == "" {
		apiErr.Message = envelope.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = envelope.Error
	}

	return apiErr
}

// StatusCode returns the HTTP status of err, or 0 when err is not an API error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsForbidden reports a 403 response.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsNotFound reports a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsValidation reports a response carrying structured field errors.
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && len(apiErr.Details) > 0
}

// IsNetwork reports a transport failure.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// UserMessage converts err into a single notification line. fallback is used
// when the error shape is not recognised.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusForbidden:
			return ForbiddenMessage
		case len(apiErr.Details) > 0:
			return apiErr.flatten()
		case apiErr.Message != "":
			return apiErr.Message
		}
		return fallback
	}

	if IsNetwork(err) {
		return NetworkMessage
	}

	return fallback
}
