package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sequence hands out increasing int64 ids per name.
type sequence struct {
	col *mongo.Collection
}

func newSequence(db *mongo.Database) sequence {
	return sequence{col: db.Collection(collectionCounters)}
}

func (s sequence) next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counterDocument
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, classify("next "+name+" id", err)
	}
	return c.Seq, nil
}
