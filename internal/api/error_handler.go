package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/simpleusers/users-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound, domainMessage(err)
	case domain.KindBadRequest:
		return http.StatusBadRequest, domainMessage(err)
	case domain.KindForbidden:
		return http.StatusForbidden, domain.MsgForbidden
	case domain.KindUnauthorized:
		return http.StatusUnauthorized, unauthorizedMessage(err)
	case domain.KindConflict:
		return http.StatusConflict, domain.MsgEmailConflict
	case domain.KindStorageUnavailable:
		log.Warn().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("storage unavailable")
		return http.StatusServiceUnavailable, domain.MsgStorageUnavailable
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, domain.MsgUnexpected
}

// domainMessage returns the fixed message of the classified error, without
// any wrapping context added on the way up.
func domainMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Error()
	}
	return err.Error()
}

func unauthorizedMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return domain.MsgInvalidCredentials
	}
	return domain.MsgUnauthorized
}
