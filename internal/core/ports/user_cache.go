package ports

import "context"

// UserCache stores user projections by id. A miss is reported as
// (nil, nil). Implementations may fail; callers treat cache errors as
// misses.
//
// Invalidate must also stop Set from storing that id for a while, so a
// read that loaded the user before a write cannot cache the old view after
// the write has invalidated it.
type UserCache interface {
	Get(ctx context.Context, id int64) (*UserView, error)
	Set(ctx context.Context, view *UserView) error
	Invalidate(ctx context.Context, id int64) error
}
