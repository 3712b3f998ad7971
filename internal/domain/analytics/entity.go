package analytics

import (
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
	"github.com/shopspring/decimal"
)

// TaskFact is the flattened task row every task projection is computed from.
type TaskFact struct {
	ID                 string
	Title              string
	Status             task.Status
	Priority           task.Priority
	Price              *decimal.Decimal
	CompletedAt        *time.Time
	AssignedTo         string
	AssigneeName       *string
	AssigneePosition   *string
	AssigneeDepartment *string
}

// EmployeeFact is one active employee with attendance counters taken from
// the daily rollups.
type EmployeeFact struct {
	ID             string
	Name           string
	Position       string
	Department     string
	Salary         decimal.Decimal
	CurrentStatus  string
	TotalPunchIns  int64
	RecentPunchIns int64
}

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func (p Period) IsValid() bool {
	return p == PeriodDay || p == PeriodWeek || p == PeriodMonth
}

// RecentWindow is how far back attendance leaders look.
const RecentWindow = 30 * 24 * time.Hour
