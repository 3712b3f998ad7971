package memory

import (
	"context"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
)

type UserRepository struct{ s *Store }

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *UserRepository) GetByID(_ context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) Create(_ context.Context, newUser user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("user.create", newUser.Email); err != nil {
		return user.User{}, err
	}
	for _, u := range r.s.data.users {
		if u.Email == newUser.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	if newUser.ID == "" {
		newUser.ID = newID()
	}
	now := time.Now()
	newUser.CreatedAt, newUser.UpdatedAt = now, now
	r.s.data.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == user.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.data.users, func(a, b user.User) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

func (r *UserRepository) UpdateRole(_ context.Context, id string, role user.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	r.s.data.users[id] = u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("user.delete", id); err != nil {
		return err
	}
	if _, ok := r.s.data.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.s.data.users, id)
	return nil
}

func (r *UserRepository) DeleteByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("user.delete_by_email", email); err != nil {
		return false, err
	}
	for id, u := range r.s.data.users {
		if u.Email == email {
			delete(r.s.data.users, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) CountByRole(_ context.Context) (map[user.Role]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[user.Role]int64{}
	for _, u := range r.s.data.users {
		out[u.Role]++
	}
	return out, nil
}
