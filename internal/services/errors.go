package services

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	pkgerrors "github.com/Hi-chem22/AFRAN-2025/internal/pkg/errors"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/apierr"
)

func notFound(kind string, id uuid.UUID) error {
	return apierr.New(http.StatusNotFound, "not_found", fmt.Errorf("%w: %s %s", pkgerrors.ErrNotFound, kind, id))
}

func invalid(format string, args ...any) error {
	return apierr.New(http.StatusBadRequest, "validation_error", fmt.Errorf("%w: %s", pkgerrors.ErrInvalidArgument, fmt.Sprintf(format, args...)))
}

// unknownRef rejects client input that points at a missing entity.
func unknownRef(kind string, id uuid.UUID) error {
	return apierr.New(http.StatusBadRequest, "unknown_reference", fmt.Errorf("%w: %s %s", pkgerrors.ErrNotFound, kind, id))
}
