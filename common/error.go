package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type APIError struct {
	Status  int            `json:"-"`
	Message string         `json:"error"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func (e APIError) Error() string {
	return e.Message
}

func Errf(status int, format string, args ...any) APIError {
	return APIError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// NewAPIError creates an APIError with status, message, and optional fields
func NewAPIError(status int, message string, fields map[string]any) APIError {
	return APIError{
		Status:  status,
		Message: message,
		Fields:  fields,
	}
}

func NotFound(what string) APIError {
	return Errf(http.StatusNotFound, "%s not found", what)
}

func Unauthorized(message string) APIError {
	return Errf(http.StatusUnauthorized, "%s", message)
}

func Forbidden() APIError {
	return Errf(http.StatusForbidden, "not authorized")
}

// MapRepoError turns context cancellation into a timeout APIError and
// everything else into an opaque 500 so repository details never leak to
// HTTP responses.
func MapRepoError(err error, fallback string) APIError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Errf(http.StatusRequestTimeout, "request timed out")
	}
	return Errf(http.StatusInternalServerError, "%s", fallback)
}
