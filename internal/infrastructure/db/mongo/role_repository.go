package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/simpleusers/users-service/internal/core/domain"
	"github.com/simpleusers/users-service/internal/core/ports"
)

type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

// Seed upserts the fixed roles. It is idempotent.
func (r *RoleRepository) Seed(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, role := range domain.Roles() {
		_, err := r.col.UpdateOne(ctx,
			bson.M{"_id": int32(role)},
			bson.M{"$set": bson.M{"name": role.String()}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return classify("seed role "+role.String(), err)
		}
	}
	return nil
}

// DefaultRole looks up the seeded role assigned to new users.
func (r *RoleRepository) DefaultRole(ctx context.Context) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDocument
	err := r.col.FindOne(ctx, bson.M{"name": domain.DefaultRole.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, fmt.Errorf("role %q is not seeded", domain.DefaultRole)
		}
		return 0, classify("find default role", err)
	}

	role := domain.Role(doc.ID)
	if !role.Valid() {
		return 0, fmt.Errorf("role %q has unknown id %d", doc.Name, doc.ID)
	}
	return role, nil
}

var _ ports.RoleRepository = (*RoleRepository)(nil)
