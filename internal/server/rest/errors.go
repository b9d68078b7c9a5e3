package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studylog/studylog/internal/common"
	"github.com/studylog/studylog/internal/logging"
	"github.com/studylog/studylog/internal/server/services"
)

// httpError maps service errors to status codes and client-safe messages.
func httpError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, common.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrTokenExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "an account with this email already exists")
	case errors.Is(err, common.ErrorAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, "already exists")
	case errors.Is(err, services.ErrExportsDisabled):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, common.ErrStore):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// fail converts err for the client and logs server side failures.
func (s *Server) fail(c echo.Context, err error) error {
	he := httpError(err)
	if he.Code >= http.StatusInternalServerError {
		ctx := c.Request().Context()
		logging.FromContext(ctx, s.logger).Error(ctx, "request failed", "error", err)
	}
	return he
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
