package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/simpleusers/users-service/internal/core/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.Kind
	}{
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, domain.KindConflict},
		{"wrapped unique violation", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), domain.KindConflict},
		{"connection failure", &pgconn.PgError{Code: "08006"}, domain.KindStorageUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, domain.KindStorageUnavailable},
		{"deadline", context.DeadlineExceeded, domain.KindStorageUnavailable},
		{"syntax error", &pgconn.PgError{Code: "42601"}, domain.KindUnexpected},
		{"plain error", errors.New("boom"), domain.KindUnexpected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.KindOf(classify("op", tc.err)); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestClassify_KeepsCause(t *testing.T) {
	cause := &pgconn.PgError{Code: "08001", Message: "connection refused"}
	err := classify("find user", cause)

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr != cause {
		t.Fatalf("cause lost: %v", err)
	}
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !isForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("expected 23503 to be a foreign key violation")
	}
	if isForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("unique violation is not a foreign key violation")
	}
}
