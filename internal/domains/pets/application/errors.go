package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid pet input")
	// ErrInvalidFilter signals a query parameter that could not be coerced to its type.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidPage signals a page number past the end of the result set.
	ErrInvalidPage = errors.New("invalid page")
	// ErrStorageUnavailable signals that uploads were attempted without a media backend.
	ErrStorageUnavailable = errors.New("media storage not configured")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) {
		return err
	}
	if violation, ok := domain.MediaViolation(err); ok {
		return fmt.Errorf("%w: %w", ErrInvalidInput, violation)
	}
	if _, ok := domain.AsValidationError(err); ok {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
