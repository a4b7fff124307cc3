package mongo

import (
	"time"

	"github.com/simpleusers/users-service/internal/core/domain"
)

const (
	collectionUsers    = "users"
	collectionRoles    = "roles"
	collectionCounters = "counters"
)

type addressDocument struct {
	ID         int64  `bson:"id"`
	Street     string `bson:"street"`
	City       string `bson:"city"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
}

type userDocument struct {
	ID           int64             `bson:"_id"`
	FirstName    string            `bson:"first_name"`
	LastName     string            `bson:"last_name"`
	Email        string            `bson:"email"`
	PasswordHash string            `bson:"password_hash"`
	DateOfBirth  time.Time         `bson:"date_of_birth"`
	CreatedAt    time.Time         `bson:"created_at"`
	UpdatedAt    *time.Time        `bson:"updated_at,omitempty"`
	IsActive     bool              `bson:"is_active"`
	RoleID       int32             `bson:"role_id"`
	Addresses    []addressDocument `bson:"addresses"`
}

type roleDocument struct {
	ID   int32  `bson:"_id"`
	Name string `bson:"name"`
}

type counterDocument struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func userDocumentFromDomain(u *domain.User) userDocument {
	doc := userDocument{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		DateOfBirth:  u.DateOfBirth,
		CreatedAt:    u.CreatedAt,
		IsActive:     u.IsActive,
		RoleID:       int32(u.Role),
		Addresses:    make([]addressDocument, 0, len(u.Addresses)),
	}
	if !u.UpdatedAt.IsZero() {
		updated := u.UpdatedAt
		doc.UpdatedAt = &updated
	}
	for _, a := range u.Addresses {
		doc.Addresses = append(doc.Addresses, addressDocumentFromDomain(a))
	}
	return doc
}

func addressDocumentFromDomain(a domain.Address) addressDocument {
	return addressDocument{
		ID:         a.ID,
		Street:     a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func (d userDocument) toDomain() *domain.User {
	u := &domain.User{
		ID:           d.ID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		DateOfBirth:  d.DateOfBirth.UTC(),
		CreatedAt:    d.CreatedAt.UTC(),
		IsActive:     d.IsActive,
		Role:         domain.Role(d.RoleID),
		Addresses:    make([]domain.Address, 0, len(d.Addresses)),
	}
	if d.UpdatedAt != nil {
		u.UpdatedAt = d.UpdatedAt.UTC()
	}
	for _, a := range d.Addresses {
		u.Addresses = append(u.Addresses, domain.Address{
			ID:         a.ID,
			Street:     a.Street,
			City:       a.City,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		})
	}
	return u
}
