package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"conduit/internal/apperr"
	"conduit/internal/logging"
)

// ErrorBody is the failure envelope: a message plus per-field reasons.
type ErrorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ErrorHandler translates service failures into HTTP responses. Typed
// apperr failures keep their status and field map; everything else collapses
// to a plain message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	ctx := c.Request().Context()
	span := trace.SpanFromContext(ctx)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var body ErrorBody
	var code int

	var appErr *apperr.Error
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &appErr):
		code = appErr.Status
		body = ErrorBody{Message: appErr.Message, Errors: appErr.Fields}
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			body = ErrorBody{Message: m}
		} else {
			body = ErrorBody{Message: http.StatusText(httpErr.Code)}
		}
	default:
		internal := apperr.Internal("internal server error")
		code = internal.Status
		body = ErrorBody{Message: internal.Message}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", code))

	logging.Error(ctx).
		Err(err).
		Int("status", code).
		Msg("request error")

	if err := c.JSON(code, body); err != nil {
		logging.Error(ctx).Err(err).Msg("failed to write error response")
	}
}
