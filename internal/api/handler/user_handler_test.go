package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/simpleusers/users-service/internal/core/domain"
	"github.com/simpleusers/users-service/internal/core/ports"
)

type stubUserService struct {
	registerFn      func(ctx context.Context, in ports.UserInput) (int64, error)
	getByIDFn       func(ctx context.Context, id int64) (*ports.UserView, error)
	listFn          func(ctx context.Context, page, limit int) (*ports.UserPage, error)
	updateFn        func(ctx context.Context, id int64, in ports.UserInput) error
	deleteFn        func(ctx context.Context, id int64) error
	addAddressFn    func(ctx context.Context, userID int64, in ports.AddressInput) (int64, error)
	removeAddressFn func(ctx context.Context, userID, addressID int64) error
}

func (s *stubUserService) Register(ctx context.Context, in ports.UserInput) (int64, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) GetByID(ctx context.Context, id int64) (*ports.UserView, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubUserService) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) List(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	return s.listFn(ctx, page, limit)
}

func (s *stubUserService) Update(ctx context.Context, id int64, in ports.UserInput) error {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) AddAddress(ctx context.Context, userID int64, in ports.AddressInput) (int64, error) {
	return s.addAddressFn(ctx, userID, in)
}

func (s *stubUserService) RemoveAddress(ctx context.Context, userID, addressID int64) error {
	return s.removeAddressFn(ctx, userID, addressID)
}

type prefixHasher struct{}

func (prefixHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != code {
		t.Fatalf("expected HTTP %d, got %v", code, err)
	}
}

const validUserBody = `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"secret","dateOfBirth":"1990-12-10"}`

func TestUserHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.UserInput) (int64, error) {
			if in.PasswordHash != "hashed:secret" {
				t.Fatalf("password must be hashed before the service, got %q", in.PasswordHash)
			}
			if !in.DateOfBirth.Equal(time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected date of birth: %v", in.DateOfBirth)
			}
			if in.Email != "ada@example.com" || in.FirstName != "Ada" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return 7, nil
		},
	}
	h := NewUserHandler(stub, prefixHasher{})

	c, rec := newJSONContext(e, http.MethodPost, "/users", validUserBody)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/users/7" {
		t.Fatalf("unexpected Location %q", loc)
	}
	var resp createdResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != 7 {
		t.Fatalf("expected id 7, got %d", resp.ID)
	}
}

func TestUserHandler_Create_ValidationFails(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.UserInput) (int64, error) {
			t.Fatalf("should not be called")
			return 0, nil
		},
	}
	h := NewUserHandler(stub, prefixHasher{})

	c, _ := newJSONContext(e, http.MethodPost, "/users", `{"lastName":"Lovelace","password":"secret","dateOfBirth":"1990-12-10"}`)
	err := h.Create(c)
	expectHTTPError(t, err, http.StatusBadRequest)

	var he *echo.HTTPError
	errors.As(err, &he)
	if msg, _ := he.Message.(string); !strings.Contains(msg, "firstName is required") {
		t.Fatalf("unexpected message %v", he.Message)
	}
}

func TestUserHandler_Create_PasswordTooManyBytes(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.UserInput) (int64, error) {
			t.Fatalf("should not be called")
			return 0, nil
		},
	}
	h := NewUserHandler(stub, prefixHasher{})

	// 50 runes, 100 bytes: within the rune limit, past bcrypt's byte limit.
	body := strings.Replace(validUserBody, `"password":"secret"`, `"password":"`+strings.Repeat("é", 50)+`"`, 1)
	c, _ := newJSONContext(e, http.MethodPost, "/users", body)
	expectHTTPError(t, h.Create(c), http.StatusBadRequest)
}

func TestUserHandler_Create_PasswordAtByteLimit(t *testing.T) {
	e := newTestEcho()
	called := false
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.UserInput) (int64, error) {
			called = true
			return 1, nil
		},
	}
	h := NewUserHandler(stub, prefixHasher{})

	body := strings.Replace(validUserBody, `"password":"secret"`, `"password":"`+strings.Repeat("é", 36)+`"`, 1)
	c, _ := newJSONContext(e, http.MethodPost, "/users", body)
	if err := h.Create(c); err != nil || !called {
		t.Fatalf("72-byte password should be accepted, got %v", err)
	}
}

func TestUserHandler_Create_EmailTooLong(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{}, prefixHasher{})

	email := strings.Repeat("a", 250) + "@example.com"
	body := strings.Replace(validUserBody, "ada@example.com", email, 1)
	c, _ := newJSONContext(e, http.MethodPost, "/users", body)
	expectHTTPError(t, h.Create(c), http.StatusBadRequest)
}

func TestUserHandler_Create_InvalidDate(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{}, prefixHasher{})

	body := strings.Replace(validUserBody, "1990-12-10", "10/12/1990", 1)
	c, _ := newJSONContext(e, http.MethodPost, "/users", body)
	expectHTTPError(t, h.Create(c), http.StatusBadRequest)
}

func TestUserHandler_Create_ServiceError(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.UserInput) (int64, error) {
			return 0, domain.ErrEmailInUse
		},
	}
	h := NewUserHandler(stub, prefixHasher{})

	c, _ := newJSONContext(e, http.MethodPost, "/users", validUserBody)
	if err := h.Create(c); !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestUserHandler_List_Defaults(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		listFn: func(ctx context.Context, page, limit int) (*ports.UserPage, error) {
			if page != 1 || limit != 10 {
				t.Fatalf("expected defaults 1/10, got %d/%d", page, limit)
			}
			return &ports.UserPage{
				Users:      []ports.UserView{{ID: 1, Email: "a@example.com"}, {ID: 2, Email: "b@example.com"}},
				TotalItems: 2,
				TotalPages: 1,
				Page:       page,
				Limit:      limit,
			}, nil
		},
	}
	h := NewUserHandler(stub, prefixHasher{})

	c, rec := newJSONContext(e, http.MethodGet, "/users", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["totalItems"] != float64(2) || resp["totalPages"] != float64(1) ||
		resp["currentPage"] != float64(1) || resp["pageSize"] != float64(10) {
		t.Fatalf("unexpected page metadata: %+v", resp)
	}
	users, ok := resp["users"].([]any)
	if !ok || len(users) != 2 {
		t.Fatalf("expected 2 users, got %+v", resp["users"])
	}
}

func TestUserHandler_List_NonNumericPage(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{}, prefixHasher{})

	c, _ := newJSONContext(e, http.MethodGet, "/users?page=abc", "")
	if err := h.List(c); !errors.Is(err, domain.ErrInvalidPagination) {
		t.Fatalf("expected ErrInvalidPagination, got %v", err)
	}
}

func TestUserHandler_Get(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		getByIDFn: func(ctx context.Context, id int64) (*ports.UserView, error) {
			if id != 5 {
				t.Fatalf("unexpected id %d", id)
			}
			return &ports.UserView{
				ID:        5,
				FirstName: "Ada",
				Email:     "ada@example.com",
				Addresses: []ports.AddressView{{ID: 9, PostalCode: "12-345"}},
			}, nil
		},
	}
	h := NewUserHandler(stub, prefixHasher{})

	c, rec := newJSONContext(e, http.MethodGet, "/users/5", "")
	if err := h.Get(withID(c, "5")); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	for _, key := range []string{`"firstName":"Ada"`, `"postalCode":"12-345"`, `"dateOfBirth"`} {
		if !strings.Contains(body, key) {
			t.Fatalf("response missing %s: %s", key, body)
		}
	}
	if strings.Contains(strings.ToLower(body), "password") {
		t.Fatalf("response must not carry password data: %s", body)
	}
}

func TestUserHandler_Get_InvalidID(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{}, prefixHasher{})

	c, _ := newJSONContext(e, http.MethodGet, "/users/abc", "")
	expectHTTPError(t, h.Get(withID(c, "abc")), http.StatusBadRequest)
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		getByIDFn: func(ctx context.Context, id int64) (*ports.UserView, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub, prefixHasher{})

	c, _ := newJSONContext(e, http.MethodGet, "/users/5", "")
	if err := h.Get(withID(c, "5")); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Update(t *testing.T) {
	e := newTestEcho()
	called := false
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id int64, in ports.UserInput) error {
			called = true
			if id != 5 || in.PasswordHash != "hashed:secret" {
				t.Fatalf("unexpected update: %d %+v", id, in)
			}
			return nil
		},
	}
	h := NewUserHandler(stub, prefixHasher{})

	c, rec := newJSONContext(e, http.MethodPut, "/users/5", validUserBody)
	if err := h.Update(withID(c, "5")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 after update, got %d", rec.Code)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id int64) error {
			if id != 5 {
				t.Fatalf("unexpected id %d", id)
			}
			return nil
		},
	}
	h := NewUserHandler(stub, prefixHasher{})

	c, rec := newJSONContext(e, http.MethodDelete, "/users/5", "")
	if err := h.Delete(withID(c, "5")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestUserHandler_AddAddress(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		addAddressFn: func(ctx context.Context, userID int64, in ports.AddressInput) (int64, error) {
			if userID != 5 || in.PostalCode != "12-345" || in.City != "Krakow" {
				t.Fatalf("unexpected address: %d %+v", userID, in)
			}
			return 3, nil
		},
	}
	h := NewUserHandler(stub, prefixHasher{})

	body := `{"street":"Main 1","city":"Krakow","postalCode":"12-345","country":"PL"}`
	c, rec := newJSONContext(e, http.MethodPost, "/users/5/address", body)
	if err := h.AddAddress(withID(c, "5")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"id":3`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestUserHandler_RemoveAddress(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		removeAddressFn: func(ctx context.Context, userID, addressID int64) error {
			if userID != 5 || addressID != 3 {
				t.Fatalf("unexpected ids %d/%d", userID, addressID)
			}
			return nil
		},
	}
	h := NewUserHandler(stub, prefixHasher{})

	c, rec := newJSONContext(e, http.MethodDelete, "/users/5/address?addressId=3", "")
	if err := h.RemoveAddress(withID(c, "5")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestUserHandler_RemoveAddress_MissingAddressID(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{}, prefixHasher{})

	c, _ := newJSONContext(e, http.MethodDelete, "/users/5/address", "")
	expectHTTPError(t, h.RemoveAddress(withID(c, "5")), http.StatusBadRequest)
}
