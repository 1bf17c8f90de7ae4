package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rosterapp/roster"
)

// errorStatusCode maps domain error codes to HTTP status codes.
func errorStatusCode(code string) int {
	switch code {
	case roster.ENOTFOUND:
		return http.StatusNotFound
	case roster.EINVALID:
		return http.StatusBadRequest
	case roster.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse represents the JSON error response format.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HandleError converts domain errors to appropriate HTTP responses.
//
// Internal errors are logged with full details; the response carries only
// the short fixed message describing which stage failed ("Failed to read
// student records", ...), never the underlying cause.
func HandleError(c echo.Context, logger *slog.Logger, err error) error {
	code := roster.ErrorCode(err)
	message := roster.ErrorMessage(err)
	fields := roster.ErrorFields(err)
	status := errorStatusCode(code)

	if code == roster.EINTERNAL {
		logger.Error("internal error",
			slog.String("error", err.Error()),
			slog.String("path", c.Path()),
			slog.String("method", c.Request().Method),
		)
	}

	// The admin pages are plain HTML form posts; only explicit JSON clients
	// get a structured body.
	if WantsJSON(c) {
		return c.JSON(status, ErrorResponse{
			Error:   code,
			Message: message,
			Fields:  fields,
		})
	}
	return c.String(status, "Error: "+message)
}

// WantsJSON returns true if the client prefers JSON responses.
func WantsJSON(c echo.Context) bool {
	accept := c.Request().Header.Get("Accept")
	return accept == "application/json"
}
