package archive

import "context"

type PreviousStaffRepository interface {
	Create(ctx context.Context, snapshot PreviousStaff) (PreviousStaff, error)
	GetByID(ctx context.Context, id string) (PreviousStaff, error)
	List(ctx context.Context, page, limit int) ([]PreviousStaff, int64, error)
}
