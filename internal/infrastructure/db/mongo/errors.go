package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/simpleusers/users-service/internal/core/domain"
)

// classify maps a driver error to the domain taxonomy, keeping the cause.
func classify(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	switch {
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrEmailConflict
	case mongo.IsNetworkError(err),
		mongo.IsTimeout(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, mongo.ErrClientDisconnected):
		return domain.Unavailable(wrapped)
	default:
		return wrapped
	}
}
