// Package memory keeps users in process memory. It backs local runs and
// tests and enforces the same email uniqueness as the database drivers.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/simpleusers/users-service/internal/core/domain"
	"github.com/simpleusers/users-service/internal/core/ports"
)

type Store struct {
	mu sync.RWMutex

	users   map[int64]*domain.User
	byEmail map[string]int64
	roles   []domain.Role

	nextUserID    int64
	nextAddressID int64
}

// NewStore returns an empty store seeded with the fixed roles.
func NewStore() *Store {
	return &Store{
		users:   make(map[int64]*domain.User),
		byEmail: make(map[string]int64),
		roles:   domain.Roles(),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Addresses returns the address repository view of the store.
func (s *Store) Addresses() *AddressRepository { return &AddressRepository{s: s} }

// Roles returns the role repository view of the store.
func (s *Store) Roles() *RoleRepository { return &RoleRepository{s: s} }

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Addresses = make([]domain.Address, len(u.Addresses))
	copy(clone.Addresses, u.Addresses)
	return &clone
}

type UserRepository struct {
	s *Store
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r *UserRepository) List(_ context.Context, page, limit int) ([]*domain.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]int64, 0, len(r.s.users))
	for id := range r.s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	offset, ok := ports.PageOffset(page, limit, total)
	if !ok {
		return []*domain.User{}, total, nil
	}
	start := int(offset)
	end := start + min(limit, len(ids)-start)

	out := make([]*domain.User, 0, end-start)
	for _, id := range ids[start:end] {
		out = append(out, cloneUser(r.s.users[id]))
	}
	return out, total, nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.byEmail[user.Email]; taken {
		return domain.ErrEmailConflict
	}

	r.s.nextUserID++
	user.ID = r.s.nextUserID
	stored := cloneUser(user)
	stored.Addresses = stored.Addresses[:0]
	r.s.users[user.ID] = stored
	r.s.byEmail[user.Email] = user.ID
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if owner, taken := r.s.byEmail[user.Email]; taken && owner != user.ID {
		return domain.ErrEmailConflict
	}

	delete(r.s.byEmail, stored.Email)
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.DateOfBirth = user.DateOfBirth
	stored.UpdatedAt = user.UpdatedAt
	r.s.byEmail[stored.Email] = stored.ID
	return nil
}

func (r *UserRepository) Delete(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.byEmail, stored.Email)
	delete(r.s.users, user.ID)
	return nil
}

type AddressRepository struct {
	s *Store
}

func (r *AddressRepository) Create(_ context.Context, userID int64, address *domain.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.s.nextAddressID++
	address.ID = r.s.nextAddressID
	u.Addresses = append(u.Addresses, *address)
	return nil
}

func (r *AddressRepository) Delete(_ context.Context, userID, addressID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for i, a := range u.Addresses {
		if a.ID == addressID {
			u.Addresses = append(u.Addresses[:i], u.Addresses[i+1:]...)
			return nil
		}
	}
	return domain.ErrAddressNotInUser
}

type RoleRepository struct {
	s *Store
}

func (r *RoleRepository) DefaultRole(context.Context) (domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, role := range r.s.roles {
		if role == domain.DefaultRole {
			return role, nil
		}
	}
	return 0, fmt.Errorf("role %q is not seeded", domain.DefaultRole)
}

var (
	_ ports.UserRepository    = (*UserRepository)(nil)
	_ ports.AddressRepository = (*AddressRepository)(nil)
	_ ports.RoleRepository    = (*RoleRepository)(nil)
)
