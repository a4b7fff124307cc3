package ports

import (
	"context"

	"github.com/simpleusers/users-service/internal/core/domain"
)

// UserRepository defines persistence operations for the User aggregate.
// Lookups return domain.ErrUserNotFound when no user matches.
type UserRepository interface {
	// FindByID loads the user together with its addresses.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns one page of users ordered by id and the total user count.
	// page is 1-based.
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
	// Create inserts the user and assigns its ID.
	Create(ctx context.Context, user *domain.User) error
	// Update overwrites the user's scalar fields. Addresses are untouched.
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the user and every address it owns.
	Delete(ctx context.Context, user *domain.User) error
}

// AddressRepository persists addresses on behalf of their owning user.
type AddressRepository interface {
	// Create attaches the address to userID and assigns its ID.
	Create(ctx context.Context, userID int64, address *domain.Address) error
	Delete(ctx context.Context, userID int64, addressID int64) error
}

// RoleRepository resolves the seeded roles.
type RoleRepository interface {
	DefaultRole(ctx context.Context) (domain.Role, error)
}
