package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/simpleusers/users-service/internal/core/domain"
	"github.com/simpleusers/users-service/internal/core/ports"
)

const principalKey = "principal"

// Auth validates the bearer token and injects the principal into context.
func Auth(tokens ports.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			principal, err := tokens.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			SetPrincipal(c, principal)
			return next(c)
		}
	}
}

// SetPrincipal stores the authenticated identity for the current request.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the identity set by Auth, or nil for anonymous
// requests.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, ok := c.Get(principalKey).(domain.Principal)
	if !ok {
		return nil
	}
	return &p
}
