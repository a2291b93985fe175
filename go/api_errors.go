package pethubserver

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/pethub-api/internal/domains/pets/adapters/http/mapper"
	petsapp "github.com/Apurer/pethub-api/internal/domains/pets/application"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	petsports "github.com/Apurer/pethub-api/internal/domains/pets/ports"
	apierrors "github.com/Apurer/pethub-api/internal/shared/errors"
)

// NewResponder builds the problem responder used by every handler.
func NewResponder(logger *slog.Logger) *apierrors.Responder {
	return apierrors.NewResponder(
		apierrors.WithLogger(logger),
		apierrors.WithMappers(mapPetsError),
	)
}

func mapPetsError(err error) (apierrors.ProblemDetail, bool) {
	var queryErr *mapper.QueryError
	if errors.As(err, &queryErr) {
		if errors.Is(queryErr, petsapp.ErrInvalidPage) {
			return apierrors.ErrInvalidPage, true
		}
		return apierrors.NewInvalidParameterProblem(queryErr.Parameter, queryErr.Message), true
	}
	if v, ok := domain.AsValidationError(err); ok {
		return apierrors.NewValidationProblem(v.Fields), true
	}
	switch {
	case errors.Is(err, petsapp.ErrInvalidPage):
		return apierrors.ErrInvalidPage, true
	case errors.Is(err, petsapp.ErrInvalidFilter):
		return apierrors.ErrInvalidFilter.WithDetail(err.Error()), true
	case errors.Is(err, petsports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Not found."), true
	case errors.Is(err, petsports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail("Idempotency-Key was already used with a different payload."), true
	case errors.Is(err, petsapp.ErrStorageUnavailable):
		return apierrors.ErrUnavailable.WithDetail("Media uploads are not configured."), true
	}
	return apierrors.ProblemDetail{}, false
}

func (cfg *apiConfig) respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	cfg.responder.RespondError(c, err)
}
