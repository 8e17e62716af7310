package httpx

import (
	"log/slog"
	"net/http"

	"bookcatalog/internal/apperr"
)

// WriteError maps an apperr outcome to its HTTP status. Anything else is a 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		JSONError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case apperr.KindConflict:
		JSONError(w, r, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case apperr.KindForbidden:
		JSONError(w, r, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case apperr.KindInvalidState:
		JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		slog.Default().Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFrom(r),
		)
		JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
