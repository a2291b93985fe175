// Package errors renders RFC 7807 problem documents for the HTTP API.
package errors

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
)

// ProblemDetail is an RFC 7807 problem document. Extension members are
// serialised at the top level next to the standard members.
type ProblemDetail struct {
	Type       string
	Title      string
	Status     int
	Detail     string
	Instance   string
	Extensions map[string]any
}

// MarshalJSON flattens Extensions; standard members win on collision.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extensions)+5)
	maps.Copy(out, p.Extensions)
	out["type"] = p.Type
	out["title"] = p.Title
	out["status"] = p.Status
	if p.Detail != "" {
		out["detail"] = p.Detail
	}
	if p.Instance != "" {
		out["instance"] = p.Instance
	}
	return json.Marshal(out)
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithInstance returns a copy with the given instance URI.
func (p ProblemDetail) WithInstance(instance string) ProblemDetail {
	p.Instance = instance
	return p
}

// WithExtension returns a copy carrying an extra member.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	maps.Copy(ext, p.Extensions)
	ext[key] = value
	p.Extensions = ext
	return p
}

const (
	TypeValidation    = "/problems/validation-error"
	TypeInvalidFilter = "/problems/invalid-filter"
	TypeInvalidPage   = "/problems/invalid-page"
	TypeNotFound      = "/problems/not-found"
	TypeConflict      = "/problems/conflict"
	TypeTooLarge      = "/problems/payload-too-large"
	TypeRateLimited   = "/problems/rate-limited"
	TypeInternal      = "/problems/internal-error"
	TypeBadRequest    = "/problems/bad-request"
	TypeUnavailable   = "/problems/service-unavailable"
)

var (
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	ErrInvalidFilter = ProblemDetail{
		Type:   TypeInvalidFilter,
		Title:  "Malformed Filter",
		Status: http.StatusBadRequest,
	}

	// ErrInvalidPage keeps the 404 status list endpoints have always used for pages past the end.
	ErrInvalidPage = ProblemDetail{
		Type:   TypeInvalidPage,
		Title:  "Invalid Page",
		Status: http.StatusNotFound,
		Detail: "Invalid page.",
	}

	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	ErrConflict = ProblemDetail{
		Type:   TypeConflict,
		Title:  "Conflict",
		Status: http.StatusConflict,
	}

	ErrPayloadTooLarge = ProblemDetail{
		Type:   TypeTooLarge,
		Title:  "Payload Too Large",
		Status: http.StatusRequestEntityTooLarge,
	}

	ErrRateLimited = ProblemDetail{
		Type:   TypeRateLimited,
		Title:  "Too Many Requests",
		Status: http.StatusTooManyRequests,
		Detail: "Request was throttled.",
	}

	ErrUnavailable = ProblemDetail{
		Type:   TypeUnavailable,
		Title:  "Service Unavailable",
		Status: http.StatusServiceUnavailable,
	}

	// ErrInternal never carries the underlying cause.
	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Detail: "An unexpected error occurred.",
	}
)

// NewValidationProblem carries field-level messages under "fields".
func NewValidationProblem(fieldErrors map[string]string) ProblemDetail {
	return ErrValidation.
		WithDetail("One or more fields are invalid.").
		WithExtension("fields", fieldErrors)
}

// NewInvalidParameterProblem names the query parameter that could not be coerced.
func NewInvalidParameterProblem(parameter, message string) ProblemDetail {
	return ErrInvalidFilter.
		WithDetail(message).
		WithExtension("parameter", parameter)
}

// NewNotFoundProblem creates a not found error for a specific resource.
func NewNotFoundProblem(resourceType string, identifier any) ProblemDetail {
	return ErrNotFound.
		WithDetail(fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier)).
		WithExtension("resourceType", resourceType).
		WithExtension("identifier", identifier)
}
