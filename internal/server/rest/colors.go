package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) listColors(c echo.Context) error {
	out, err := s.svc.Colors.List(c.Request().Context(), mustUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) setColor(c echo.Context) error {
	var req colorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := s.svc.Colors.Set(c.Request().Context(), mustUserID(c), req.Subject, req.ColorHex)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
