package api

import (
	"errors"
	"net/http"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
}

// statusForError maps domain errors to HTTP status codes
func statusForError(err error) (int, ErrorResponse) {
	var (
		validation *shared.ValidationError
		inProgress *shared.CalculationInProgressError
		service    *shared.RouteServiceError
		unresolved *shared.SystemNotResolvedError
		noLog      *shared.LogUnavailableError
		degenerate *shared.DegenerateRouteError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Type: "validation", Field: validation.Field}
	case errors.As(err, &inProgress):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Type: "calculation_in_progress"}
	case errors.As(err, &service):
		return http.StatusBadGateway, ErrorResponse{Error: err.Error(), Type: "route_service"}
	case errors.As(err, &unresolved):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Type: "system_not_resolved"}
	case errors.As(err, &noLog):
		return http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Type: "log_unavailable"}
	case errors.As(err, &degenerate):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Type: "degenerate_route"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Type: "internal"}
	}
}
