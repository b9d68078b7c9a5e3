package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// export uploads a CSV of the user's records and answers with its link.
func (s *Server) export(c echo.Context) error {
	out, err := s.svc.Exports.ExportRecords(c.Request().Context(), mustUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
