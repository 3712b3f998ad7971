package employee

import (
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	Position         string            `json:"position"`
	Department       string            `json:"department"`
	Salary           decimal.Decimal   `json:"salary"`
	JoinDate         *string           `json:"joinDate,omitempty"`
	IsActive         *bool             `json:"isActive,omitempty"`
	Address          *string           `json:"address,omitempty"`
	DateOfBirth      *string           `json:"dateOfBirth,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(validator.NormalizeEmail(r.Email)) {
		errs.Add("email", "invalid email format")
	}
	if validator.IsEmpty(r.Phone) {
		errs.Add("phone", "phone is required")
	} else if !validator.IsValidPhoneNumber(r.Phone) {
		errs.Add("phone", "phone must contain 7-15 digits")
	}
	if validator.IsEmpty(r.Position) {
		errs.Add("position", "position is required")
	}
	if validator.IsEmpty(r.Department) {
		errs.Add("department", "department is required")
	}
	if !validator.IsNonNegative(r.Salary) {
		errs.Add("salary", "salary must be greater than or equal to 0")
	}
	if r.JoinDate != nil && *r.JoinDate != "" {
		if _, ok := validator.ParseDateOrDateTime(*r.JoinDate); !ok {
			errs.Add("joinDate", "joinDate must be YYYY-MM-DD or RFC3339")
		}
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs.Add("dateOfBirth", "dateOfBirth must be YYYY-MM-DD")
		}
	}
	if r.EmergencyContact != nil && r.EmergencyContact.Phone != "" && !validator.IsValidPhoneNumber(r.EmergencyContact.Phone) {
		errs.Add("emergencyContact.phone", "phone must contain 7-15 digits")
	}

	return errs.Err()
}

// UpdateEmployeeRequest is a partial update. CurrentStatus, LastPunchIn and
// LastPunchOut are only decoded so they can be rejected.
type UpdateEmployeeRequest struct {
	ID               string            `json:"-"`
	Name             *string           `json:"name,omitempty"`
	Email            *string           `json:"email,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	Position         *string           `json:"position,omitempty"`
	Department       *string           `json:"department,omitempty"`
	Salary           *decimal.Decimal  `json:"salary,omitempty"`
	IsActive         *bool             `json:"isActive,omitempty"`
	Address          *string           `json:"address,omitempty"`
	DateOfBirth      *string           `json:"dateOfBirth,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
	IsLeaving        *bool             `json:"isLeaving,omitempty"`
	LeavingDate      *string           `json:"leavingDate,omitempty"`

	CurrentStatus *string `json:"currentStatus,omitempty"`
	LastPunchIn   *string `json:"lastPunchIn,omitempty"`
	LastPunchOut  *string `json:"lastPunchOut,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}

	const ownedByAttendance = "field is managed by attendance punches and cannot be updated"
	if r.CurrentStatus != nil {
		errs.Add("currentStatus", ownedByAttendance)
	}
	if r.LastPunchIn != nil {
		errs.Add("lastPunchIn", ownedByAttendance)
	}
	if r.LastPunchOut != nil {
		errs.Add("lastPunchOut", ownedByAttendance)
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name cannot be empty")
	}
	if r.Email != nil && !validator.IsValidEmail(validator.NormalizeEmail(*r.Email)) {
		errs.Add("email", "invalid email format")
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must contain 7-15 digits")
	}
	if r.Position != nil && validator.IsEmpty(*r.Position) {
		errs.Add("position", "position cannot be empty")
	}
	if r.Department != nil && validator.IsEmpty(*r.Department) {
		errs.Add("department", "department cannot be empty")
	}
	if r.Salary != nil && !validator.IsNonNegative(*r.Salary) {
		errs.Add("salary", "salary must be greater than or equal to 0")
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs.Add("dateOfBirth", "dateOfBirth must be YYYY-MM-DD")
		}
	}
	if r.LeavingDate != nil && *r.LeavingDate != "" {
		if _, ok := validator.ParseDateOrDateTime(*r.LeavingDate); !ok {
			errs.Add("leavingDate", "leavingDate must be YYYY-MM-DD or RFC3339")
		}
	}

	return errs.Err()
}

type MarkLeavingRequest struct {
	ID          string  `json:"-"`
	LeavingDate *string `json:"leavingDate,omitempty"`
	Reason      *string `json:"reason,omitempty"`
}

func (r *MarkLeavingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.LeavingDate != nil && *r.LeavingDate != "" {
		if _, ok := validator.ParseDateOrDateTime(*r.LeavingDate); !ok {
			errs.Add("leavingDate", "leavingDate must be YYYY-MM-DD or RFC3339")
		}
	}

	return errs.Err()
}

type UpdateSalaryRequest struct {
	ID     string           `json:"-"`
	Salary *decimal.Decimal `json:"salary"`
}

func (r *UpdateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Salary == nil {
		errs.Add("salary", "salary is required")
	} else if !validator.IsNonNegative(*r.Salary) {
		errs.Add("salary", "salary must be greater than or equal to 0")
	}

	return errs.Err()
}

type EmployeeFilter struct {
	Search     *string
	Department *string
	Status     *string
	IsActive   *bool
	IsLeaving  *bool
	Page       int
	Limit      int
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.Status != nil && *f.Status != "" && !AttendanceStatus(*f.Status).IsValid() {
		errs.Add("status", "status must be checked_in or checked_out")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	Position         string            `json:"position"`
	Department       string            `json:"department"`
	Address          *string           `json:"address,omitempty"`
	DateOfBirth      *string           `json:"dateOfBirth,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
	JoinDate         string            `json:"joinDate"`
	IsActive         bool              `json:"isActive"`
	Salary           decimal.Decimal   `json:"salary"`
	CurrentStatus    string            `json:"currentStatus"`
	LastPunchIn      *time.Time        `json:"lastPunchIn"`
	LastPunchOut     *time.Time        `json:"lastPunchOut"`
	IsLeaving        bool              `json:"isLeaving"`
	LeavingDate      *time.Time        `json:"leavingDate"`
	LeavingReason    *string           `json:"leavingReason,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:               e.ID,
		Name:             e.Name,
		Email:            e.Email,
		Phone:            e.Phone,
		Position:         e.Position,
		Department:       e.Department,
		Address:          e.Address,
		EmergencyContact: e.EmergencyContact,
		JoinDate:         e.JoinDate.Format("2006-01-02"),
		IsActive:         e.IsActive,
		Salary:           e.Salary,
		CurrentStatus:    string(e.CurrentStatus),
		LastPunchIn:      e.LastPunchIn,
		LastPunchOut:     e.LastPunchOut,
		IsLeaving:        e.IsLeaving,
		LeavingDate:      e.LeavingDate,
		LeavingReason:    e.LeavingReason,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if e.DateOfBirth != nil {
		dob := e.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &dob
	}
	return resp
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	TotalCount int64              `json:"totalCount"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}
