package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"backoffice-console/api"
	"backoffice-console/utils"
)

// Response is the console's own envelope; it mirrors the backend's.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Flashes []string          `json:"flashes,omitempty"`
}

func SendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func SendSuccessResponse(w http.ResponseWriter, message string, data any) {
	SendJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func SendErrorResponse(w http.ResponseWriter, status int, message string) {
	SendJSON(w, status, Response{Success: false, Message: message})
}

// errorStatus maps a backend or validation failure to the console's status.
func errorStatus(err error) int {
	var verr *utils.ValidationError
	var apiErr *api.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 {
			return apiErr.StatusCode
		}
		// a 2xx envelope with success=false
		return http.StatusBadRequest
	case errors.Is(err, api.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, api.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, api.ErrNetwork):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorFields flattens field errors from either side of the wire.
func errorFields(err error) map[string]string {
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && len(apiErr.Errors) > 0 {
		out := make(map[string]string, len(apiErr.Errors))
		for field, msgs := range apiErr.Errors {
			if len(msgs) > 0 {
				out[field] = msgs[0]
			}
		}
		return out
	}
	return nil
}
