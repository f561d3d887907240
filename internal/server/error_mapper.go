package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"sitescope/backend/internal/apperr"
)

// mapError converts a service error into an echo.HTTPError. The sentinel's
// message is never forwarded verbatim for auth failures to avoid leaking
// account state.
func mapError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	case errors.Is(err, apperr.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, apperr.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrExpired):
		return echo.NewHTTPError(http.StatusGone, err.Error())
	case errors.Is(err, apperr.ErrInvalidRole):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, apperr.ErrUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "service unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
