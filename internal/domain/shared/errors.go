package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Route errors

type RouteError struct {
	*DomainError
}

func NewRouteError(message string) *RouteError {
	return &RouteError{DomainError: &DomainError{Message: message}}
}

// UnsupportedRouteKindError is returned when a route carries a kind tag that
// matches neither planner.
type UnsupportedRouteKindError struct {
	*RouteError
	Kind string
}

func NewUnsupportedRouteKindError(kind string) *UnsupportedRouteKindError {
	return &UnsupportedRouteKindError{
		RouteError: NewRouteError(fmt.Sprintf("unsupported route kind %q", kind)),
		Kind:       kind,
	}
}

// DegenerateRouteError is returned for routes with fewer than two hops.
type DegenerateRouteError struct {
	*RouteError
	Hops int
}

func NewDegenerateRouteError(hops int) *DegenerateRouteError {
	return &DegenerateRouteError{
		RouteError: NewRouteError(fmt.Sprintf("route needs at least 2 systems, got %d", hops)),
		Hops:       hops,
	}
}

// RouteServiceError carries the error payload returned by an external planner verbatim.
type RouteServiceError struct {
	*RouteError
	Service string
	Reason  string
}

func NewRouteServiceError(service, reason string) *RouteServiceError {
	return &RouteServiceError{
		RouteError: NewRouteError(fmt.Sprintf("%s: %s", service, reason)),
		Service:    service,
		Reason:     reason,
	}
}

// CalculationInProgressError is returned when a calculation of the same kind is
// already running.
type CalculationInProgressError struct {
	*RouteError
	Kind string
}

func NewCalculationInProgressError(kind string) *CalculationInProgressError {
	return &CalculationInProgressError{
		RouteError: NewRouteError(fmt.Sprintf("a %s route calculation is already running", kind)),
		Kind:       kind,
	}
}

// Lookup errors

// SystemNotResolvedError is returned when a star system name cannot be resolved
// to coordinates.
type SystemNotResolvedError struct {
	*DomainError
	System string
}

func NewSystemNotResolvedError(system string) *SystemNotResolvedError {
	return &SystemNotResolvedError{
		DomainError: NewDomainError(fmt.Sprintf("system %q could not be resolved", system)),
		System:      system,
	}
}

// LogUnavailableError is returned when the game journal cannot be located or read.
type LogUnavailableError struct {
	*DomainError
	Path string
}

func NewLogUnavailableError(path, reason string) *LogUnavailableError {
	msg := "game journal unavailable"
	if path != "" {
		msg += " at " + path
	}
	if reason != "" {
		msg += ": " + reason
	}
	return &LogUnavailableError{
		DomainError: NewDomainError(msg),
		Path:        path,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
