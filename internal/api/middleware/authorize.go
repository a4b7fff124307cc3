package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/simpleusers/users-service/internal/api/metrics"
	"github.com/simpleusers/users-service/internal/core/authz"
	"github.com/simpleusers/users-service/internal/core/domain"
)

// Authorize enforces the access policy for op before the handler runs. The
// owner of the target resource is the :id path parameter when the route
// has one.
func Authorize(op authz.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var ownerID int64
			if raw := c.Param("id"); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
				}
				ownerID = id
			}

			if err := authz.Authorize(PrincipalFrom(c), op, ownerID); err != nil {
				if errors.Is(err, domain.ErrForbidden) {
					metrics.AuthzDenialsTotal.WithLabelValues(op.String()).Inc()
				}
				return err
			}
			return next(c)
		}
	}
}
