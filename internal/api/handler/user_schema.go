package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

// Email format and postal code shape are checked by the user service so
// that clients get its fixed messages.

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userRequest struct {
	FirstName   string `json:"firstName"   validate:"required,max=100"`
	LastName    string `json:"lastName"    validate:"required,max=100"`
	Email       string `json:"email"       validate:"max=255"`
	Password    string `json:"password"    validate:"required,max=72"`
	DateOfBirth string `json:"dateOfBirth" validate:"required"`
}

type addressRequest struct {
	Street     string `json:"street"     validate:"required,max=200"`
	City       string `json:"city"       validate:"required,max=100"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"    validate:"required,max=100"`
}

// --- Response types ---

type tokenResponse struct {
	Token string `json:"token"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

type addressResponse struct {
	ID         int64  `json:"id"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type userResponse struct {
	ID          int64             `json:"id"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Email       string            `json:"email"`
	DateOfBirth time.Time         `json:"dateOfBirth"`
	Addresses   []addressResponse `json:"addresses"`
}

type listUsersResponse struct {
	TotalItems  int64          `json:"totalItems"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	PageSize    int            `json:"pageSize"`
	Users       []userResponse `json:"users"`
}
