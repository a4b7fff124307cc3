package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/simpleusers/users-service/internal/core/ports"
)

// Accepted dateOfBirth layouts, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "dateOfBirth must be a date (YYYY-MM-DD or RFC 3339)")
}

// --- Request → Service input ---

func toUserInput(req userRequest, passwordHash string, dob time.Time) ports.UserInput {
	return ports.UserInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		DateOfBirth:  dob,
	}
}

func toAddressInput(req addressRequest) ports.AddressInput {
	return ports.AddressInput{
		Street:     req.Street,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
}

// --- Service output → Response ---

func toUserResponse(v *ports.UserView) userResponse {
	addresses := make([]addressResponse, 0, len(v.Addresses))
	for _, a := range v.Addresses {
		addresses = append(addresses, addressResponse{
			ID:         a.ID,
			Street:     a.Street,
			City:       a.City,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		})
	}
	return userResponse{
		ID:          v.ID,
		FirstName:   v.FirstName,
		LastName:    v.LastName,
		Email:       v.Email,
		DateOfBirth: v.DateOfBirth,
		Addresses:   addresses,
	}
}

func toListUsersResponse(p *ports.UserPage) listUsersResponse {
	users := make([]userResponse, 0, len(p.Users))
	for i := range p.Users {
		users = append(users, toUserResponse(&p.Users[i]))
	}
	return listUsersResponse{
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
		CurrentPage: p.Page,
		PageSize:    p.Limit,
		Users:       users,
	}
}
