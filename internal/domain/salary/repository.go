package salary

import (
	"context"

	"github.com/shopspring/decimal"
)

type SalaryRepository interface {
	ListByEmployee(ctx context.Context, employeeID string) ([]Record, error)
	ExistsPaidForMonth(ctx context.Context, employeeID string, month string) (bool, error)
	// Create returns ErrAlreadyPaid when a paid record for the month already exists.
	Create(ctx context.Context, record Record) (Record, error)
	GetPaidForMonth(ctx context.Context, employeeID string, month string) (Record, error)
	// SumPaid sums paid amounts, restricted to month when non-nil.
	SumPaid(ctx context.Context, month *string) (total decimal.Decimal, records int64, err error)
	CountEmployeesPaid(ctx context.Context, month string) (int64, error)
}
