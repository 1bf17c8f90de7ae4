package http

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/rosterapp/roster"
)

// withTimeout creates a context with a timeout for handler operations.
func (s *Server) withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), s.RequestTimeout)
}

// bind binds the request body to a struct and validates it.
func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return roster.Invalid("Invalid request body")
	}
	if err := c.Validate(v); err != nil {
		return roster.Invalid("%v", err)
	}
	return nil
}

// log returns the request-scoped logger.
func (s *Server) log(c echo.Context) *slog.Logger {
	return s.getRequestLogger(c)
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(200, map[string]string{"status": "ok"})
}
