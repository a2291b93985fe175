package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for problem documents.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper turns an application error into a problem, reporting whether it matched.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes problem documents and maps errors through a chain of mappers.
type Responder struct {
	baseURI string
	logger  *slog.Logger
	mappers []ErrorMapper
}

// ResponderOption customises a Responder.
type ResponderOption func(*Responder)

// WithBaseURI prefixes relative problem type URIs.
func WithBaseURI(uri string) ResponderOption {
	return func(r *Responder) { r.baseURI = uri }
}

// WithLogger sets the logger used for unmapped errors.
func WithLogger(logger *slog.Logger) ResponderOption {
	return func(r *Responder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMappers appends error mappers, tried in order.
func WithMappers(mappers ...ErrorMapper) ResponderOption {
	return func(r *Responder) { r.mappers = append(r.mappers, mappers...) }
}

// NewResponder builds a responder.
func NewResponder(opts ...ResponderOption) *Responder {
	r := &Responder{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond writes the problem with the problem+json content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError maps err and responds. Unmapped errors are logged and answered with a generic 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.logger.ErrorContext(c.Request.Context(), "request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Any("error", err),
	)
	r.Respond(c, ErrInternal)
}

// NotFound sends a 404 for the named resource.
func (r *Responder) NotFound(c *gin.Context, resourceType string, identifier any) {
	r.Respond(c, NewNotFoundProblem(resourceType, identifier))
}

// BadRequest sends a 400 with the given detail.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

// ValidationFailed sends a 400 with field messages.
func (r *Responder) ValidationFailed(c *gin.Context, fieldErrors map[string]string) {
	r.Respond(c, NewValidationProblem(fieldErrors))
}

// HTTPStatusFromError extracts the status of a problem error, defaulting to 500.
func HTTPStatusFromError(err error) int {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem.Status
	}
	return http.StatusInternalServerError
}
