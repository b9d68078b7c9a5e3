package rest

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/studylog/studylog/internal/datex"
	"github.com/studylog/studylog/internal/server/models"
)

type meResponse struct {
	*models.User
	SignupDate string `json:"signup_date"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	u, err := s.svc.Users.Register(ctx, req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	tokens, err := s.svc.Users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

func (s *Server) refresh(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	tokens, err := s.svc.Users.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

func (s *Server) me(c echo.Context) error {
	ctx := c.Request().Context()
	uid := mustUserID(c)

	u, err := s.svc.Users.GetUser(ctx, uid)
	if err != nil {
		return s.fail(c, err)
	}
	signup, err := s.svc.Users.SignupDate(ctx, uid)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, meResponse{User: u, SignupDate: datex.Format(signup)})
}

// bounds returns the signup day and today of the current user.
func (s *Server) bounds(c echo.Context) (signup, today time.Time, err error) {
	signup, err = s.svc.Users.SignupDate(c.Request().Context(), mustUserID(c))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return signup, s.svc.Users.Today(), nil
}
