package fault

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// StatusCode maps a fault kind to its HTTP status.
func StatusCode(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusBadGateway
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the uniform JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// HTTPErrorHandler returns the single echo error handler for both APIs.
// Faults map to their status; echo.HTTPError passes through (404 on unknown
// routes, 400 from Bind); everything else is a 500 with a generic body.
// Server-side errors are logged with the wrapped cause.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := errorBody{Error: "internal server error"}

		var f *Fault
		var he *echo.HTTPError
		switch {
		case errors.As(err, &f):
			status = StatusCode(f.Kind)
			body.Kind = f.Kind.String()
			if f.Kind == KindInternal {
				body.Error = "internal server error"
			} else {
				body.Error = f.Message
			}
		case errors.As(err, &he):
			status = he.Code
			body.Error = fmt.Sprintf("%v", he.Message)
		}

		if status >= http.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Msg("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("writing error response")
		}
	}
}
