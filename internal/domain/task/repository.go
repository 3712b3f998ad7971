package task

import (
	"context"

	"github.com/shopspring/decimal"
)

type TaskRepository interface {
	Create(ctx context.Context, newTask Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
	List(ctx context.Context, filter TaskFilter) ([]Task, int64, error)
	ListByAssignee(ctx context.Context, employeeID string) ([]Task, error)
	// ListOpenBelowHigh returns open tasks whose priority can still escalate.
	ListOpenBelowHigh(ctx context.Context) ([]Task, error)
	Update(ctx context.Context, t Task) (Task, error)
	UpdatePriority(ctx context.Context, id string, priority Priority) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	CountOpenByPriority(ctx context.Context) (map[Priority]int64, error)
	// SumCompletedRevenue sums price of completed tasks, restricted to month
	// (YYYY-MM of completed_at) when non-nil.
	SumCompletedRevenue(ctx context.Context, month *string) (total decimal.Decimal, count int64, err error)
}
