package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/simpleusers/users-service/internal/core/domain"
	"github.com/simpleusers/users-service/internal/core/ports"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) withAddresses(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Addresses", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	})
}

// FindByID loads the user and its addresses.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row userModel
	if err := r.withAddresses(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, classify("find user", err)
	}
	return row.toDomain(), nil
}

// FindByEmail matches the stored email exactly.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row userModel
	if err := r.withAddresses(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, classify("find user by email", err)
	}
	return row.toDomain(), nil
}

// List returns one page ordered by id and the total number of users.
func (r *UserRepository) List(ctx context.Context, page, limit int) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var total int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).Count(&total).Error; err != nil {
		return nil, 0, classify("count users", err)
	}
	offset, ok := ports.PageOffset(page, limit, total)
	if !ok {
		return []*domain.User{}, total, nil
	}

	var rows []userModel
	if err := r.withAddresses(ctx).
		Order("id ASC").
		Offset(int(offset)).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, classify("list users", err)
	}

	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}
	return users, total, nil
}

// Create inserts the user without its addresses and assigns the id.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := userModelFromDomain(user)
	if err := r.db.WithContext(ctx).Omit("Addresses").Create(&row).Error; err != nil {
		return classify("insert user", err)
	}
	user.ID = row.ID
	return nil
}

// Update overwrites the mutable scalar columns.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := userModelFromDomain(user)
	res := r.db.WithContext(ctx).
		Model(&userModel{ID: user.ID}).
		Select("first_name", "last_name", "email", "password_hash", "date_of_birth", "updated_at").
		Updates(&row)
	if res.Error != nil {
		return classify("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes the user's addresses and then the user in one transaction.
func (r *UserRepository) Delete(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&addressModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", user.ID).Delete(&userModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return classify("delete user", err)
	}
	return nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
