package archive

import (
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

const DefaultReasonForLeaving = "Employee marked as leaving"

// PreviousStaff is the immutable snapshot written when an employee leaves.
type PreviousStaff struct {
	ID                 string
	OriginalEmployeeID string
	Name               string
	Email              string
	Phone              string
	LastPosition       string
	Department         string
	Address            *string
	DateOfBirth        *time.Time
	EmergencyContact   *employee.EmergencyContact
	JoinDate           time.Time
	LeavingDate        time.Time
	LastSalary         decimal.Decimal
	TotalIncome        decimal.Decimal
	PaidIncome         decimal.Decimal
	PendingIncome      decimal.Decimal
	SalaryHistory      []salary.Record
	ReasonForLeaving   string
	PerformanceRating  *int
	CreatedAt          time.Time
}

// NewSnapshot builds the archive record for emp. The reason falls back to
// the stored leaving reason, then to DefaultReasonForLeaving.
func NewSnapshot(emp employee.Employee, history []salary.Record, reason *string, rating *int, now time.Time) PreviousStaff {
	totals := salary.ComputeTotals(history)

	leavingDate := now
	if emp.LeavingDate != nil {
		leavingDate = *emp.LeavingDate
	}

	finalReason := DefaultReasonForLeaving
	switch {
	case reason != nil && *reason != "":
		finalReason = *reason
	case emp.LeavingReason != nil && *emp.LeavingReason != "":
		finalReason = *emp.LeavingReason
	}

	copied := make([]salary.Record, len(history))
	copy(copied, history)

	return PreviousStaff{
		OriginalEmployeeID: emp.ID,
		Name:               emp.Name,
		Email:              emp.Email,
		Phone:              emp.Phone,
		LastPosition:       emp.Position,
		Department:         emp.Department,
		Address:            emp.Address,
		DateOfBirth:        emp.DateOfBirth,
		EmergencyContact:   emp.EmergencyContact,
		JoinDate:           emp.JoinDate,
		LeavingDate:        leavingDate,
		LastSalary:         emp.Salary,
		TotalIncome:        totals.TotalIncome,
		PaidIncome:         totals.PaidIncome,
		PendingIncome:      totals.PendingIncome,
		SalaryHistory:      copied,
		ReasonForLeaving:   finalReason,
		PerformanceRating:  rating,
	}
}
