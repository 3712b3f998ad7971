package employee

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	ListLeaving(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) error
	UpdateSalary(ctx context.Context, id string, salary decimal.Decimal) error
	MarkLeaving(ctx context.Context, id string, leavingDate time.Time, reason *string) error
	// TransitionStatus flips current_status from -> to only if the stored
	// status still equals from. Returns ErrStatusConflict otherwise.
	TransitionStatus(ctx context.Context, id string, from, to AttendanceStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteByEmail(ctx context.Context, email string) (bool, error)
	CountActive(ctx context.Context) (int64, error)
	CountActiveCheckedIn(ctx context.Context) (int64, error)
}
