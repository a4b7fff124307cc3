package postgres

import (
	"time"

	"github.com/simpleusers/users-service/internal/core/domain"
)

type roleModel struct {
	ID   int16  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name"`
}

func (roleModel) TableName() string { return "roles" }

type userModel struct {
	ID           int64          `gorm:"column:id;primaryKey"`
	FirstName    string         `gorm:"column:first_name"`
	LastName     string         `gorm:"column:last_name"`
	Email        string         `gorm:"column:email"`
	PasswordHash string         `gorm:"column:password_hash"`
	DateOfBirth  time.Time      `gorm:"column:date_of_birth"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt    *time.Time     `gorm:"column:updated_at;autoUpdateTime:false"`
	IsActive     bool           `gorm:"column:is_active"`
	RoleID       int16          `gorm:"column:role_id"`
	Addresses    []addressModel `gorm:"foreignKey:UserID"`
}

func (userModel) TableName() string { return "users" }

type addressModel struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	UserID     int64  `gorm:"column:user_id"`
	Street     string `gorm:"column:street"`
	City       string `gorm:"column:city"`
	PostalCode string `gorm:"column:postal_code"`
	Country    string `gorm:"column:country"`
}

func (addressModel) TableName() string { return "addresses" }

func userModelFromDomain(u *domain.User) userModel {
	row := userModel{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		DateOfBirth:  u.DateOfBirth,
		CreatedAt:    u.CreatedAt,
		IsActive:     u.IsActive,
		RoleID:       int16(u.Role),
	}
	if !u.UpdatedAt.IsZero() {
		updated := u.UpdatedAt
		row.UpdatedAt = &updated
	}
	return row
}

func (m userModel) toDomain() *domain.User {
	u := &domain.User{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		DateOfBirth:  m.DateOfBirth.UTC(),
		CreatedAt:    m.CreatedAt.UTC(),
		IsActive:     m.IsActive,
		Role:         domain.Role(m.RoleID),
		Addresses:    make([]domain.Address, 0, len(m.Addresses)),
	}
	if m.UpdatedAt != nil {
		u.UpdatedAt = m.UpdatedAt.UTC()
	}
	for _, a := range m.Addresses {
		u.Addresses = append(u.Addresses, a.toDomain())
	}
	return u
}

func (m addressModel) toDomain() domain.Address {
	return domain.Address{
		ID:         m.ID,
		Street:     m.Street,
		City:       m.City,
		PostalCode: m.PostalCode,
		Country:    m.Country,
	}
}
