package salary

import (
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeInfo struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Position string          `json:"position"`
	Salary   decimal.Decimal `json:"salary"`
}

// PendingSalary is a read-time preview and is never persisted.
type PendingSalary struct {
	Amount decimal.Decimal `json:"amount"`
	Month  string          `json:"month"`
	Status RecordStatus    `json:"status"`
}

type HistoryResponse struct {
	Employee      EmployeeInfo   `json:"employee"`
	PendingSalary *PendingSalary `json:"pendingSalary"`
	SalaryHistory []Record       `json:"salaryHistory"`
}

type PayResponse struct {
	Employee EmployeeInfo `json:"employee"`
	Record   Record       `json:"record"`
}

type StatsResponse struct {
	TotalSalaryGiven decimal.Decimal `json:"totalSalaryGiven"`
	EmployeesPaid    int64           `json:"employeesPaid"`
	TotalEmployees   int64           `json:"totalEmployees"`
	CurrentMonth     string          `json:"currentMonth"`
}

type PayslipRequest struct {
	EmployeeID string
	Month      string
}

func (r *PayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employeeId", "employeeId is required")
	}
	if validator.IsEmpty(r.Month) {
		errs.Add("month", "month is required")
	} else if !validator.IsValidMonth(r.Month) {
		errs.Add("month", ErrInvalidMonth.Error())
	}

	return errs.Err()
}

type PayslipFile struct {
	FileName    string
	ContentType string
	Content     []byte
	GeneratedAt time.Time
}
