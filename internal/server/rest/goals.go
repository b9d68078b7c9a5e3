package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studylog/studylog/internal/server/models"
)

type weeklyGoalResponse struct {
	Goal     *models.WeeklyGoal   `json:"goal"`
	Progress *models.GoalProgress `json:"progress"`
}

func (s *Server) getWeeklyGoal(c echo.Context) error {
	ctx := c.Request().Context()
	uid := mustUserID(c)

	g, err := s.svc.Goals.Get(ctx, uid)
	if err != nil {
		return s.fail(c, err)
	}
	p, err := s.svc.Reports.GoalProgress(ctx, uid)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, weeklyGoalResponse{Goal: g, Progress: p})
}

func (s *Server) saveWeeklyGoal(c echo.Context) error {
	var req weeklyGoalRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	g, err := s.svc.Goals.Save(c.Request().Context(), mustUserID(c), req.TargetHours, req.TargetQuestions)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, g)
}
