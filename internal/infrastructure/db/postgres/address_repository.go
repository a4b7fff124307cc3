package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/simpleusers/users-service/internal/core/domain"
	"github.com/simpleusers/users-service/internal/core/ports"
)

type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// Create attaches the address to userID and assigns the id.
func (r *AddressRepository) Create(ctx context.Context, userID int64, address *domain.Address) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := addressModel{
		UserID:     userID,
		Street:     address.Street,
		City:       address.City,
		PostalCode: address.PostalCode,
		Country:    address.Country,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return classify("insert address", err)
	}
	address.ID = row.ID
	return nil
}

// Delete removes the address only when userID owns it.
func (r *AddressRepository) Delete(ctx context.Context, userID, addressID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&addressModel{})
	if res.Error != nil {
		return classify("delete address", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAddressNotInUser
	}
	return nil
}

var _ ports.AddressRepository = (*AddressRepository)(nil)
