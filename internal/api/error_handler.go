package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-api/internal/core/domain"
	"github.com/99minutos/identity-api/pkg/logger"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders *domain.Error with its status and per-field messages.
//   - Passes through Echo's own errors (bind failures, 404, CSRF rejections).
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, c echo.Context) (int, errorResponse) {
	var de *domain.Error
	if errors.As(err, &de) {
		if de.Kind == domain.KindInternal {
			logUnhandled(err, c)
		}
		if de.RetryAfter > 0 {
			secs := int(math.Ceil(de.RetryAfter.Seconds()))
			c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
		}
		return de.Status, errorResponse{Title: de.Title, Message: de.Message, Errors: de.Fields}
	}

	// Echo's own errors (bind failures, 404 from router, CSRF, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(err, c)
			msg = domain.MsgInternalError
		}
		return he.Code, errorResponse{Title: http.StatusText(he.Code), Message: msg}
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnhandled(err, c)
	return http.StatusInternalServerError, errorResponse{
		Title:   domain.MsgInternalError,
		Message: domain.MsgInternalError,
	}
}

func logUnhandled(err error, c echo.Context) {
	log := logger.FromContext(c.Request().Context())
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
}
