package archive

import (
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type MoveToPreviousStaffRequest struct {
	EmployeeID        string  `json:"-"`
	ReasonForLeaving  *string `json:"reasonForLeaving,omitempty"`
	PerformanceRating *int    `json:"performanceRating,omitempty"`
}

func (r *MoveToPreviousStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employeeId", "employeeId is required")
	}
	if r.PerformanceRating != nil && (*r.PerformanceRating < 1 || *r.PerformanceRating > 5) {
		errs.Add("performanceRating", ErrInvalidPerformanceRating.Error())
	}

	return errs.Err()
}

type ArchiveResult struct {
	PreviousStaffID      string        `json:"previousStaffId"`
	MovedToPreviousStaff bool          `json:"movedToPreviousStaff"`
	UserDeleted          bool          `json:"userDeleted"`
	EmployeeDeleted      bool          `json:"employeeDeleted"`
	SalaryData           salary.Totals `json:"salaryData"`
}

type ProcessedEmployee struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	LeavingDate   time.Time       `json:"leavingDate"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	PaidIncome    decimal.Decimal `json:"paidIncome"`
	PendingIncome decimal.Decimal `json:"pendingIncome"`
}

type FailedEmployee struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type CleanupResponse struct {
	ProcessedCount     int                 `json:"processedCount"`
	ProcessedEmployees []ProcessedEmployee `json:"processedEmployees"`
	Failed             []FailedEmployee    `json:"failed"`
}

type PreviousStaffResponse struct {
	ID                string                     `json:"id"`
	Name              string                     `json:"name"`
	Email             string                     `json:"email"`
	Phone             string                     `json:"phone"`
	LastPosition      string                     `json:"lastPosition"`
	Department        string                     `json:"department"`
	Address           *string                    `json:"address,omitempty"`
	DateOfBirth       *time.Time                 `json:"dateOfBirth,omitempty"`
	EmergencyContact  *employee.EmergencyContact `json:"emergencyContact,omitempty"`
	JoinDate          time.Time                  `json:"joinDate"`
	LeavingDate       time.Time                  `json:"leavingDate"`
	LastSalary        decimal.Decimal            `json:"lastSalary"`
	TotalIncome       decimal.Decimal            `json:"totalIncome"`
	PaidIncome        decimal.Decimal            `json:"paidIncome"`
	PendingIncome     decimal.Decimal            `json:"pendingIncome"`
	SalaryHistory     []salary.Record            `json:"salaryHistory"`
	ReasonForLeaving  string                     `json:"reasonForLeaving"`
	PerformanceRating *int                       `json:"performanceRating,omitempty"`
	CreatedAt         time.Time                  `json:"createdAt"`
}

func NewPreviousStaffResponse(p PreviousStaff) PreviousStaffResponse {
	return PreviousStaffResponse{
		ID:                p.ID,
		Name:              p.Name,
		Email:             p.Email,
		Phone:             p.Phone,
		LastPosition:      p.LastPosition,
		Department:        p.Department,
		Address:           p.Address,
		DateOfBirth:       p.DateOfBirth,
		EmergencyContact:  p.EmergencyContact,
		JoinDate:          p.JoinDate,
		LeavingDate:       p.LeavingDate,
		LastSalary:        p.LastSalary,
		TotalIncome:       p.TotalIncome,
		PaidIncome:        p.PaidIncome,
		PendingIncome:     p.PendingIncome,
		SalaryHistory:     p.SalaryHistory,
		ReasonForLeaving:  p.ReasonForLeaving,
		PerformanceRating: p.PerformanceRating,
		CreatedAt:         p.CreatedAt,
	}
}

type ListPreviousStaffResponse struct {
	PreviousStaff []PreviousStaffResponse `json:"previousStaff"`
	TotalCount    int64                   `json:"totalCount"`
	Page          int                     `json:"page"`
	Limit         int                     `json:"limit"`
	TotalPages    int                     `json:"totalPages"`
}
