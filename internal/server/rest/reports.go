package rest

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (s *Server) dateRange(c echo.Context) (from, to time.Time, err error) {
	if from, err = queryDay(c, "start", time.Time{}); err != nil {
		return
	}
	to, err = queryDay(c, "end", time.Time{})
	return
}

func (s *Server) dailyTotals(c echo.Context) error {
	from, to, err := s.dateRange(c)
	if err != nil {
		return err
	}
	out, err := s.svc.Reports.DailyTotals(c.Request().Context(), mustUserID(c), from, to)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) dailyQuestions(c echo.Context) error {
	from, to, err := s.dateRange(c)
	if err != nil {
		return err
	}
	out, err := s.svc.Reports.DailyQuestions(c.Request().Context(), mustUserID(c), from, to)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) subjectSummary(c echo.Context) error {
	out, err := s.svc.Reports.SubjectSummary(c.Request().Context(), mustUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) dayView(c echo.Context) error {
	day, err := queryDay(c, "date", s.svc.Users.Today())
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return err
	}
	out, err := s.svc.Reports.DayView(c.Request().Context(), mustUserID(c), day, limit)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) weekView(c echo.Context) error {
	day, err := queryDay(c, "date", s.svc.Users.Today())
	if err != nil {
		return err
	}
	out, err := s.svc.Reports.WeekView(c.Request().Context(), mustUserID(c), day)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) presence(c echo.Context) error {
	out, err := s.svc.Reports.Presence(c.Request().Context(), mustUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) streak(c echo.Context) error {
	n, err := s.svc.Reports.Streak(c.Request().Context(), mustUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"streak": n})
}
