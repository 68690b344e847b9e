package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/paywall"
	"github.com/jonathan/resume-builder/internal/session"
)

// httpStatus maps domain errors to HTTP status codes.
func httpStatus(err error) int {
	var unsupported *document.ErrUnsupportedMedia
	switch {
	case errors.Is(err, session.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnknownField),
		errors.Is(err, session.ErrUnknownFormat),
		errors.Is(err, session.ErrUnknownTemplate),
		errors.Is(err, session.ErrSummaryUnavailable),
		errors.Is(err, session.ErrNothingToImprove),
		errors.Is(err, paywall.ErrInvalidPhoneNumber):
		return http.StatusBadRequest
	case errors.Is(err, paywall.ErrNotAwaitingInput):
		return http.StatusConflict
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
