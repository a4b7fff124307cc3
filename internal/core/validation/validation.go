// Package validation holds the predicates that guard user data integrity.
// Everything here is pure except IsEmailInUse, which costs one repository
// round-trip.
package validation

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"github.com/simpleusers/users-service/internal/core/domain"
)

var postalCodePattern = regexp.MustCompile(`^[0-9]{2}-[0-9]{3}$`)

// IsValidEmail reports whether email is a single well-formed address.
// Surrounding whitespace is ignored, but the parsed address must equal the
// trimmed input exactly, so display names, comments or anything the parser
// would repair are rejected. A trailing dot is never valid.
func IsValidEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" || strings.HasSuffix(trimmed, ".") {
		return false
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return false
	}
	return addr.Address == trimmed
}

// IsValidPostalCode reports whether code has the DD-DDD shape.
func IsValidPostalCode(code string) bool {
	if strings.TrimSpace(code) == "" {
		return false
	}
	return postalCodePattern.MatchString(code)
}

// EmailLookup is the slice of the user repository the uniqueness check needs.
type EmailLookup interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// IsEmailInUse reports whether any stored user has email. The caller's own
// record is not excluded.
func IsEmailInUse(ctx context.Context, users EmailLookup, email string) (bool, error) {
	u, err := users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return u != nil, nil
}
