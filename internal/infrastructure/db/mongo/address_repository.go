package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/simpleusers/users-service/internal/core/domain"
	"github.com/simpleusers/users-service/internal/core/ports"
)

// AddressRepository edits the addresses embedded in user documents.
type AddressRepository struct {
	col *mongo.Collection
	ids sequence
}

func NewAddressRepository(db *mongo.Database) *AddressRepository {
	return &AddressRepository{col: db.Collection(collectionUsers), ids: newSequence(db)}
}

// Create pushes the address onto the user's document and assigns the id.
func (r *AddressRepository) Create(ctx context.Context, userID int64, address *domain.Address) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx, "addresses")
	if err != nil {
		return err
	}

	doc := addressDocumentFromDomain(*address)
	doc.ID = id
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"addresses": doc}},
	)
	if err != nil {
		return classify("insert address", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	address.ID = id
	return nil
}

// Delete pulls the address only when userID owns it.
func (r *AddressRepository) Delete(ctx context.Context, userID, addressID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID, "addresses.id": addressID},
		bson.M{"$pull": bson.M{"addresses": bson.M{"id": addressID}}},
	)
	if err != nil {
		return classify("delete address", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAddressNotInUser
	}
	return nil
}

var _ ports.AddressRepository = (*AddressRepository)(nil)
