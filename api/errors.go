package api

import (
	"errors"
	"fmt"
	"net/http"

	"backoffice-console/utils"
)

var (
	// ErrUnauthorized is returned after the backend rejected the stored token.
	// By then the session has been cleared and the login redirect issued.
	ErrUnauthorized = errors.New("session expired, please log in again")
	// ErrNetwork means no response was received.
	ErrNetwork = errors.New("network error")
	// ErrTimeout means the per-request ceiling fired before a response arrived.
	ErrTimeout = errors.New("request timed out")
)

const (
	networkMessage = "Network error. Please check your connection and try again."
	genericMessage = "Something went wrong. Please try again."
)

// Error is a non-2xx response (or a 2xx envelope with success=false).
type Error struct {
	StatusCode int
	Message    string
	Errors     map[string][]string
	RequestID  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Message is the text to show an operator for err: the backend's message when
// it sent one, a connection hint for transport failures, a generic fallback
// otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return genericMessage
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return ErrUnauthorized.Error()
	case errors.Is(err, ErrNetwork), errors.Is(err, ErrTimeout):
		return networkMessage
	}
	return genericMessage
}

// StatusCode returns the HTTP status carried by err, 0 when there is none.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	return 0
}
