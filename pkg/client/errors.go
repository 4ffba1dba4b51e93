package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// APIError is a non-2xx response from the marketplace API, normalized
// from the several body shapes the backend produces: a `detail` string
// (auth errors), a `message`/`error` string, or per-field validation
// arrays. Screens consume it through DisplayMessage so every surface
// words server errors the same way.
type APIError struct {
	StatusCode  int
	Detail      string
	Message     string
	FieldErrors map[string][]string
	Body        string // raw body, kept for the fallback message
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.DisplayMessage())
}

// DisplayMessage picks the most specific human-readable message:
// detail, then message, then the first field error, then the raw body.
func (e *APIError) DisplayMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}
	if len(e.FieldErrors) > 0 {
		fields := make([]string, 0, len(e.FieldErrors))
		for f := range e.FieldErrors {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		f := fields[0]
		return f + ": " + e.FieldErrors[f][0]
	}
	return strings.TrimSpace(e.Body)
}

// parseAPIError normalizes an error response body. A body that is not
// a JSON object is kept verbatim as the fallback message.
func parseAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: string(body)}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return e
	}
	var s string
	if raw, ok := probe["detail"]; ok && json.Unmarshal(raw, &s) == nil {
		e.Detail = s
	}
	for _, key := range []string{"message", "error"} {
		if raw, ok := probe[key]; ok && e.Message == "" && json.Unmarshal(raw, &s) == nil {
			e.Message = s
		}
	}
	for key, raw := range probe {
		switch key {
		case "detail", "message", "error":
			continue
		}
		var list []string
		if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
			if e.FieldErrors == nil {
				e.FieldErrors = make(map[string][]string)
			}
			e.FieldErrors[key] = list
		}
	}
	return e
}

// Message extracts a display message from err when it wraps an
// APIError, or returns fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.DisplayMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}

// IsStatus reports whether err (or any wrapped error) is an APIError
// with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}
