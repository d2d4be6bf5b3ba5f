package v1

import (
	"errors"
	"net/http"

	"github.com/allowkit/backend/internal/models"
)

// status returns the appropriate HTTP status for an engine error.
// Validation errors are the default, everything the models package does
// not classify explicitly was caused by bad input.
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrPeriodHasTransactions) || errors.Is(err, models.ErrPeriodSlotNotUnique) {
		return http.StatusConflict
	}

	return http.StatusBadRequest
}
