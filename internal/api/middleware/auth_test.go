package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/simpleusers/users-service/internal/core/domain"
)

type stubTokenValidator struct {
	validateFn func(token string) (domain.Principal, error)
}

func (s *stubTokenValidator) Validate(token string) (domain.Principal, error) {
	return s.validateFn(token)
}

func acceptToken(want string, p domain.Principal) *stubTokenValidator {
	return &stubTokenValidator{
		validateFn: func(token string) (domain.Principal, error) {
			if token != want {
				return domain.Principal{}, domain.ErrUnauthorized
			}
			return p, nil
		},
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(acceptToken("good-token", domain.Principal{UserID: 5, Role: domain.RoleModerator}))
	handler := mw(func(c echo.Context) error {
		called = true
		p := PrincipalFrom(c)
		if p == nil {
			t.Fatalf("principal not set")
		}
		if p.UserID != 5 || p.Role != domain.RoleModerator {
			t.Fatalf("unexpected principal: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(acceptToken("good-token", domain.Principal{UserID: 1, Role: domain.RoleUser}))
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token abc",
		"no token":       "Bearer",
		"invalid token":  "Bearer not-a-token",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			mw := Auth(acceptToken("good-token", domain.Principal{UserID: 1, Role: domain.RoleAdmin}))
			handler := mw(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestPrincipalFrom_Anonymous(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if p := PrincipalFrom(c); p != nil {
		t.Fatalf("expected nil principal, got %+v", p)
	}
}
