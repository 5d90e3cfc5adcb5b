package mapping

import (
	"errors"
	"net/http"

	"github.com/eslsoft/linguatrack/internal/entity"
)

// ToHTTPStatus maps a domain error to the status code the REST layer
// should answer with.
func ToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, entity.ErrInvalidUserID),
		errors.Is(err, entity.ErrEmptySubmission),
		errors.Is(err, entity.ErrInvalidWordText),
		errors.Is(err, entity.ErrLearnedFlagRequired):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrWordNotFound),
		errors.Is(err, entity.ErrResultSetNotFound),
		errors.Is(err, entity.ErrStreakNotFound),
		errors.Is(err, entity.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrDuplicateWord):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
