package rest

import (
	"errors"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/studylog/studylog/internal/common"
	"github.com/studylog/studylog/internal/logging"
	"github.com/studylog/studylog/internal/server/auth"
)

const claimsKey = "claims"

// jwtMiddleware verifies the bearer token and stores its *auth.Claims
// under claimsKey.
func (s *Server) jwtMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: claimsKey,
		ParseTokenFunc: func(c echo.Context, token string) (any, error) {
			return auth.ParseToken(token, s.jwtSecret)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, common.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
		},
	})
}

func userID(c echo.Context) (string, bool) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	if !ok || claims == nil {
		return "", false
	}
	return claims.UserID, true
}

// mustUserID is only called behind jwtMiddleware.
func mustUserID(c echo.Context) string {
	id, _ := userID(c)
	return id
}

// requestLogger attaches a request scoped logger to the request context and
// logs every request once it has been handled.
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		l := s.logger.With("request_id", rid)
		c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

		if err := next(c); err != nil {
			c.Error(err)
		}

		args := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", c.Response().Status,
			"latency", time.Since(start),
		}
		if id, ok := userID(c); ok {
			args = append(args, "user_id", id)
		}
		l.Info(req.Context(), "request", args...)
		return nil
	}
}
