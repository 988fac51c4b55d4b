package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failure reported by the backend. Detail carries the backend's
// structured "detail" message when the response body had one.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Message returns the backend's detail message for display, or fallback when
// the backend gave none.
func (e *Error) Message(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// UserMessage extracts a displayable message from any error returned by the
// client: the backend detail when available, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message(fallback)
	}
	return fallback
}

// IsNotFound reports whether err is a backend 404 for an absent entity.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a backend 401 (e.g. a rejected token).
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
