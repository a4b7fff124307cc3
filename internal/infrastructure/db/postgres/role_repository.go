package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/simpleusers/users-service/internal/core/domain"
	"github.com/simpleusers/users-service/internal/core/ports"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// DefaultRole looks up the seeded role assigned to new users.
func (r *RoleRepository) DefaultRole(ctx context.Context) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row roleModel
	err := r.db.WithContext(ctx).Where("name = ?", domain.DefaultRole.String()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("role %q is not seeded", domain.DefaultRole)
		}
		return 0, classify("find default role", err)
	}

	role := domain.Role(row.ID)
	if !role.Valid() {
		return 0, fmt.Errorf("role %q has unknown id %d", row.Name, row.ID)
	}
	return role, nil
}

var _ ports.RoleRepository = (*RoleRepository)(nil)
