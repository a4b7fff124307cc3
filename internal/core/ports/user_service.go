package ports

import (
	"context"
	"time"

	"github.com/simpleusers/users-service/internal/core/domain"
)

// UserInput carries the mutable fields of a user for registration and
// update. PasswordHash must already be hashed by the caller.
type UserInput struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	DateOfBirth  time.Time
}

// AddressInput carries the fields of a new address.
type AddressInput struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// AddressView is the outward projection of an address.
type AddressView struct {
	ID         int64
	Street     string
	City       string
	PostalCode string
	Country    string
}

// UserView is the outward projection of a user. It never carries the
// password hash.
type UserView struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
	Addresses   []AddressView
}

// UserPage is one page of the paginated user listing.
type UserPage struct {
	Users      []UserView
	TotalItems int64
	TotalPages int
	Page       int
	Limit      int
}

// UserService defines the use-case operations on the User aggregate.
type UserService interface {
	Register(ctx context.Context, in UserInput) (int64, error)
	GetByID(ctx context.Context, id int64) (*UserView, error)
	// GetByEmail returns the full aggregate, including the password hash,
	// for credential checks.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, page, limit int) (*UserPage, error)
	Update(ctx context.Context, id int64, in UserInput) error
	Delete(ctx context.Context, id int64) error
	AddAddress(ctx context.Context, userID int64, in AddressInput) (int64, error)
	RemoveAddress(ctx context.Context, userID, addressID int64) error
}
