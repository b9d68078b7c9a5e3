package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studylog/studylog/internal/datex"
	"github.com/studylog/studylog/internal/server/models"
)

func (s *Server) listRecords(c echo.Context) error {
	recs, err := s.svc.Records.List(c.Request().Context(), mustUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}

// createRecord clamps the study date into [signup, today] before storing.
func (s *Server) createRecord(c echo.Context) error {
	var req createRecordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	day, err := datex.Parse(req.StudyDate)
	if err != nil {
		return badRequest("study_date must be a YYYY-MM-DD date")
	}

	signup, today, err := s.bounds(c)
	if err != nil {
		return s.fail(c, err)
	}
	day = datex.Clamp(day, signup, today)

	id, err := s.svc.Records.Create(c.Request().Context(), mustUserID(c), models.NewStudyRecord{
		StudyDate:   day,
		Category:    req.Category,
		Subject:     req.Subject,
		Topic:       req.Topic,
		DurationSec: req.DurationSec,
		Hits:        req.Hits,
		Mistakes:    req.Mistakes,
		PageStart:   req.PageStart,
		PageEnd:     req.PageEnd,
		Comment:     req.Comment,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": id, "study_date": datex.Format(day)})
}

// deleteRecord answers 404 for both missing and foreign records.
func (s *Server) deleteRecord(c echo.Context) error {
	ok, err := s.svc.Records.Delete(c.Request().Context(), mustUserID(c), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	}
	return c.NoContent(http.StatusNoContent)
}
