package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id string, role Role) error
	Delete(ctx context.Context, id string) error
	// DeleteByEmail reports whether a row was removed. A missing row is not an error.
	DeleteByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context) (map[Role]int64, error)
}
