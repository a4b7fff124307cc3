package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/simpleusers/users-service/internal/core/domain"
	"github.com/simpleusers/users-service/internal/core/ports"
	"github.com/simpleusers/users-service/internal/core/validation"
)

// UserService implements ports.UserService on top of the repository ports.
// It holds no per-request state.
type UserService struct {
	users     ports.UserRepository
	addresses ports.AddressRepository
	roles     ports.RoleRepository
	cache     ports.UserCache
	log       zerolog.Logger
	now       func() time.Time
}

// UserServiceOption customises a UserService.
type UserServiceOption func(*UserService)

// WithCache enables the read-through projection cache for GetByID.
func WithCache(cache ports.UserCache) UserServiceOption {
	return func(s *UserService) { s.cache = cache }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) UserServiceOption {
	return func(s *UserService) { s.now = now }
}

func NewUserService(
	users ports.UserRepository,
	addresses ports.AddressRepository,
	roles ports.RoleRepository,
	log zerolog.Logger,
	opts ...UserServiceOption,
) *UserService {
	s := &UserService{
		users:     users,
		addresses: addresses,
		roles:     roles,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.UserService = (*UserService)(nil)

// Register validates and stores a new user with the default role and
// returns its id.
func (s *UserService) Register(ctx context.Context, in ports.UserInput) (int64, error) {
	if !validation.IsValidEmail(in.Email) {
		return 0, domain.ErrInvalidEmail
	}
	inUse, err := validation.IsEmailInUse(ctx, s.users, in.Email)
	if err != nil {
		return 0, err
	}
	if inUse {
		return 0, domain.ErrEmailInUse
	}

	role, err := s.roles.DefaultRole(ctx)
	if err != nil {
		return 0, err
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		DateOfBirth:  in.DateOfBirth,
		CreatedAt:    s.now().UTC(),
		IsActive:     true,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return 0, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user registered")
	return user.ID, nil
}

// GetByID returns the projection of one user.
func (s *UserService) GetByID(ctx context.Context, id int64) (*ports.UserView, error) {
	if view := s.cached(ctx, id); view != nil {
		return view, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toUserView(user)
	s.remember(ctx, view)
	return view, nil
}

// GetByEmail returns the stored aggregate for email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, email)
}

// List returns one page of users. page and limit are both 1-based counts
// and must be positive.
func (s *UserService) List(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	if page < 1 || limit < 1 {
		return nil, domain.ErrInvalidPagination
	}

	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	views := make([]ports.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, *toUserView(u))
	}

	return &ports.UserPage{
		Users:      views,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Page:       page,
		Limit:      limit,
	}, nil
}

// Update overwrites every mutable field of the user. The uniqueness check
// does not exclude the user's own current email.
func (s *UserService) Update(ctx context.Context, id int64, in ports.UserInput) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	inUse, err := validation.IsEmailInUse(ctx, s.users, in.Email)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrEmailInUse
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	user.PasswordHash = in.PasswordHash
	user.DateOfBirth = in.DateOfBirth
	user.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.forget(ctx, id)

	s.log.Info().Int64("user_id", id).Msg("user updated")
	return nil
}

// Delete removes the user together with its addresses.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user); err != nil {
		return err
	}
	s.forget(ctx, id)

	s.log.Info().Int64("user_id", id).Int("addresses", len(user.Addresses)).Msg("user deleted")
	return nil
}

// AddAddress attaches a new address to the user and returns its id.
func (s *UserService) AddAddress(ctx context.Context, userID int64, in ports.AddressInput) (int64, error) {
	if !validation.IsValidPostalCode(in.PostalCode) {
		return 0, domain.ErrInvalidPostalCode
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return 0, err
	}

	address := &domain.Address{
		Street:     in.Street,
		City:       in.City,
		PostalCode: in.PostalCode,
		Country:    in.Country,
	}
	if err := s.addresses.Create(ctx, userID, address); err != nil {
		return 0, err
	}
	s.forget(ctx, userID)

	s.log.Info().Int64("user_id", userID).Int64("address_id", address.ID).Msg("address added")
	return address.ID, nil
}

// RemoveAddress deletes one of the user's own addresses. An address id that
// exists under another user is reported as not belonging to this one.
func (s *UserService) RemoveAddress(ctx context.Context, userID, addressID int64) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := user.Address(addressID); !ok {
		return domain.ErrAddressNotInUser
	}

	if err := s.addresses.Delete(ctx, userID, addressID); err != nil {
		return err
	}
	s.forget(ctx, userID)

	s.log.Info().Int64("user_id", userID).Int64("address_id", addressID).Msg("address removed")
	return nil
}

func (s *UserService) cached(ctx context.Context, id int64) *ports.UserView {
	if s.cache == nil {
		return nil
	}
	view, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", id).Msg("user cache read failed, loading from storage")
		return nil
	}
	return view
}

func (s *UserService) remember(ctx context.Context, view *ports.UserView) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, view); err != nil {
		s.log.Warn().Err(err).Int64("user_id", view.ID).Msg("user cache write failed")
	}
}

func (s *UserService) forget(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn().Err(err).Int64("user_id", id).Msg("user cache invalidation failed")
	}
}

func toUserView(u *domain.User) *ports.UserView {
	addresses := make([]ports.AddressView, 0, len(u.Addresses))
	for _, a := range u.Addresses {
		addresses = append(addresses, ports.AddressView{
			ID:         a.ID,
			Street:     a.Street,
			City:       a.City,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		})
	}
	return &ports.UserView{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth,
		Addresses:   addresses,
	}
}
