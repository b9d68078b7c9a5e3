package rest

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/studylog/studylog/internal/datex"
)

type registerRequest struct {
	FirstName string `json:"first_name" validate:"notblank"`
	LastName  string `json:"last_name" validate:"notblank"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type createRecordRequest struct {
	StudyDate   string  `json:"study_date" validate:"required"`
	Category    string  `json:"category" validate:"notblank"`
	Subject     string  `json:"subject" validate:"notblank"`
	Topic       *string `json:"topic"`
	DurationSec int     `json:"duration_sec" validate:"gt=0"`
	Hits        *int    `json:"hits" validate:"omitempty,gte=0"`
	Mistakes    *int    `json:"mistakes" validate:"omitempty,gte=0"`
	PageStart   *int    `json:"page_start" validate:"omitempty,gte=0"`
	PageEnd     *int    `json:"page_end" validate:"omitempty,gte=0"`
	Comment     *string `json:"comment"`
}

type weeklyGoalRequest struct {
	TargetHours     int `json:"target_hours" validate:"gte=0"`
	TargetQuestions int `json:"target_questions" validate:"gte=0"`
}

type colorRequest struct {
	Subject  string `json:"subject" validate:"notblank"`
	ColorHex string `json:"color_hex" validate:"required"`
}

// bind decodes and validates the request body into v.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return badRequest("malformed request body")
	}
	return c.Validate(v)
}

// queryDay reads a YYYY-MM-DD query parameter. A missing parameter yields def.
func queryDay(c echo.Context, name string, def time.Time) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	d, err := datex.Parse(raw)
	if err != nil {
		return time.Time{}, badRequest(name + " must be a YYYY-MM-DD date")
	}
	return d, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(name + " must be an integer")
	}
	return n, nil
}
