package domain

import "time"

// Address is a postal address owned by exactly one user. Its lifecycle is
// bound to the owning User aggregate.
type Address struct {
	ID         int64  `json:"id" bson:"id"`
	Street     string `json:"street" bson:"street"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
}

// User is the aggregate root: a user account together with its addresses.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IsActive     bool      `json:"is_active"`
	Role         Role      `json:"role"`
	Addresses    []Address `json:"addresses"`
}

// Address returns the owned address with the given id.
func (u *User) Address(id int64) (Address, bool) {
	for _, a := range u.Addresses {
		if a.ID == id {
			return a, true
		}
	}
	return Address{}, false
}
