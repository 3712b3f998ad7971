package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceStatus is owned by the attendance component; nothing else writes it.
type AttendanceStatus string

const (
	StatusCheckedIn  AttendanceStatus = "checked_in"
	StatusCheckedOut AttendanceStatus = "checked_out"
)

func (s AttendanceStatus) IsValid() bool {
	return s == StatusCheckedIn || s == StatusCheckedOut
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type Employee struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	Position         string
	Department       string
	Address          *string
	DateOfBirth      *time.Time
	EmergencyContact *EmergencyContact
	JoinDate         time.Time
	IsActive         bool
	Salary           decimal.Decimal
	CurrentStatus    AttendanceStatus
	LastPunchIn      *time.Time
	LastPunchOut     *time.Time
	IsLeaving        bool
	LeavingDate      *time.Time
	LeavingReason    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsCheckedIn reports whether the employee is currently on the floor.
func (e *Employee) IsCheckedIn() bool {
	return e.CurrentStatus == StatusCheckedIn
}

// ValidateLeaving enforces that a leaving date is only set on a leaving employee.
func (e *Employee) ValidateLeaving() error {
	if e.LeavingDate != nil && !e.IsLeaving {
		return ErrLeavingDateWithoutFlag
	}
	return nil
}

// Summary is the compact form embedded in attendance and task payloads.
type Summary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

func (e *Employee) Summary() Summary {
	return Summary{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Position:   e.Position,
		Department: e.Department,
	}
}
