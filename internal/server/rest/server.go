// Package rest exposes the services over a JSON HTTP API built on echo.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/studylog/studylog/internal/logging"
	"github.com/studylog/studylog/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// Services are the handlers' dependencies.
type Services struct {
	Users   *services.UserService
	Records *services.RecordService
	Reports *services.ReportService
	Colors  *services.ColorService
	Goals   *services.GoalService
	Exports *services.ExportService
}

type Server struct {
	address   string
	logger    logging.Logger
	echo      *echo.Echo
	svc       Services
	jwtSecret []byte
}

// CustomValidator plugs go-playground/validator into echo's c.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// newValidator registers notblank, which rejects whitespace-only strings.
func newValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &CustomValidator{validator: v}
}

func NewServer(address string, l logging.Logger, svc Services, secretKey string) *Server {
	s := &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		svc:       svc,
		jwtSecret: []byte(secretKey),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger)

	s.echo = e
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	e := s.echo

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	a := e.Group("/auth")
	a.POST("/register", s.register)
	a.POST("/login", s.login)
	a.POST("/refresh", s.refresh)

	v1 := e.Group("/v1", s.jwtMiddleware())
	v1.GET("/me", s.me)

	v1.GET("/records", s.listRecords)
	v1.POST("/records", s.createRecord)
	v1.DELETE("/records/:id", s.deleteRecord)

	r := v1.Group("/reports")
	r.GET("/daily-totals", s.dailyTotals)
	r.GET("/daily-questions", s.dailyQuestions)
	r.GET("/subjects", s.subjectSummary)
	r.GET("/day", s.dayView)
	r.GET("/week", s.weekView)
	r.GET("/presence", s.presence)
	r.GET("/streak", s.streak)

	v1.GET("/goals/weekly", s.getWeeklyGoal)
	v1.PUT("/goals/weekly", s.saveWeeklyGoal)

	v1.GET("/colors", s.listColors)
	v1.PUT("/colors", s.setColor)

	v1.POST("/exports", s.export)
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- s.echo.Start(s.address)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(sctx)
}
