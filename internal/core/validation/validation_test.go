package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/simpleusers/users-service/internal/core/domain"
)

func TestIsValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"test@example.com", true},
		{" test@example.com ", true},
		{"first.last@sub.example.org", true},
		{"invalidemail", false},
		{"", false},
		{"   ", false},
		{"test@example.com.", false},
		{"test@example.", false},
		{"John Doe <john@example.com>", false},
		{"john@example.com (work)", false},
		{"a@b@c.com", false},
		{"@example.com", false},
		{"john@", false},
	}

	for _, tc := range cases {
		if got := IsValidEmail(tc.email); got != tc.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestIsValidPostalCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"12-345", true},
		{"00-000", true},
		{"12345", false},
		{"1-2345", false},
		{"123-45", false},
		{"12-34a", false},
		{"ab-cde", false},
		{"12-3456", false},
		{" 12-345", false},
		{"12-345 ", false},
		{"", false},
		{"  ", false},
	}

	for _, tc := range cases {
		if got := IsValidPostalCode(tc.code); got != tc.want {
			t.Errorf("IsValidPostalCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

type stubEmailLookup struct {
	user  *domain.User
	err   error
	calls int
}

func (s *stubEmailLookup) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	s.calls++
	return s.user, s.err
}

func TestIsEmailInUse_Exists(t *testing.T) {
	lookup := &stubEmailLookup{user: &domain.User{ID: 1, Email: "test@example.com"}}

	inUse, err := IsEmailInUse(context.Background(), lookup, "test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inUse {
		t.Fatal("expected email to be in use")
	}
	if lookup.calls != 1 {
		t.Fatalf("expected exactly one lookup, got %d", lookup.calls)
	}
}

func TestIsEmailInUse_Missing(t *testing.T) {
	lookup := &stubEmailLookup{err: domain.ErrUserNotFound}

	inUse, err := IsEmailInUse(context.Background(), lookup, "test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inUse {
		t.Fatal("expected email to be free")
	}
}

func TestIsEmailInUse_StorageError(t *testing.T) {
	cause := errors.New("connection refused")
	lookup := &stubEmailLookup{err: domain.Unavailable(cause)}

	_, err := IsEmailInUse(context.Background(), lookup, "test@example.com")
	if domain.KindOf(err) != domain.KindStorageUnavailable {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
}
