package httpadapter

import (
	"net/http"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrEmptyInput), domain.IsKind(err, domain.ErrTextTooShort):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrEmailNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case domain.IsKind(err, domain.ErrCorruptDocument):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
