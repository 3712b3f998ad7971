package task

import (
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateTaskRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	AssignedTo  string           `json:"assignedTo"`
	Priority    string           `json:"priority,omitempty"`
	DueDate     string           `json:"dueDate"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	AssignedBy  string           `json:"-"`

	// Parsed by Validate
	Due time.Time `json:"-"`
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 200 {
		errs.Add("title", "title must not exceed 200 characters")
	}
	if validator.IsEmpty(r.Description) {
		errs.Add("description", "description is required")
	}
	if validator.IsEmpty(r.AssignedTo) {
		errs.Add("assignedTo", "assignedTo is required")
	}
	if validator.IsEmpty(r.AssignedBy) {
		errs.Add("assignedBy", "assignedBy is required")
	}
	if r.Priority == "" {
		r.Priority = string(PriorityMedium)
	} else if !Priority(r.Priority).IsValid() {
		errs.Add("priority", "priority must be low, medium or high")
	}
	if validator.IsEmpty(r.DueDate) {
		errs.Add("dueDate", "dueDate is required")
	} else if due, ok := validator.ParseDateOrDateTime(r.DueDate); !ok {
		errs.Add("dueDate", "dueDate must be YYYY-MM-DD or RFC3339")
	} else {
		r.Due = due
	}
	if r.Price != nil && r.Price.IsNegative() {
		errs.Add("price", ErrNegativePrice.Error())
	}

	return errs.Err()
}

type UpdateTaskRequest struct {
	ID          string           `json:"-"`
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	AssignedTo  *string          `json:"assignedTo,omitempty"`
	Status      *string          `json:"status,omitempty"`
	Priority    *string          `json:"priority,omitempty"`
	DueDate     *string          `json:"dueDate,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`

	Due *time.Time `json:"-"`
}

func (r *UpdateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Title != nil && validator.IsEmpty(*r.Title) {
		errs.Add("title", "title cannot be empty")
	}
	if r.AssignedTo != nil && validator.IsEmpty(*r.AssignedTo) {
		errs.Add("assignedTo", "assignedTo cannot be empty")
	}
	if r.Status != nil && !Status(*r.Status).IsValid() {
		errs.Add("status", "status must be assigned, in_progress, completed or cancelled")
	}
	if r.Priority != nil && !Priority(*r.Priority).IsValid() {
		errs.Add("priority", "priority must be low, medium or high")
	}
	if r.DueDate != nil {
		if due, ok := validator.ParseDateOrDateTime(*r.DueDate); !ok {
			errs.Add("dueDate", "dueDate must be YYYY-MM-DD or RFC3339")
		} else {
			r.Due = &due
		}
	}
	if r.Price != nil && r.Price.IsNegative() {
		errs.Add("price", ErrNegativePrice.Error())
	}

	return errs.Err()
}

type TaskFilter struct {
	Status     *string
	Priority   *string
	AssignedTo *string
	Page       int
	Limit      int
}

func (f *TaskFilter) Validate() error {
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
	if f.Status != nil && *f.Status != "" && !Status(*f.Status).IsValid() {
		errs.Add("status", ErrInvalidStatus.Error())
	}
	if f.Priority != nil && *f.Priority != "" && !Priority(*f.Priority).IsValid() {
		errs.Add("priority", ErrInvalidPriority.Error())
	}

	return errs.Err()
}

type TaskResponse struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	AssignedTo   string           `json:"assignedTo"`
	AssigneeName *string          `json:"assigneeName,omitempty"`
	AssignedBy   string           `json:"assignedBy"`
	Status       string           `json:"status"`
	Priority     string           `json:"priority"`
	DueDate      time.Time        `json:"dueDate"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	CompletedAt  *time.Time       `json:"completedAt"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func NewTaskResponse(t Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		AssignedTo:   t.AssignedTo,
		AssigneeName: t.AssigneeName,
		AssignedBy:   t.AssignedBy,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		DueDate:      t.DueDate,
		Price:        t.Price,
		CompletedAt:  t.CompletedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

type ListTaskResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	TotalCount int64          `json:"totalCount"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

type PriorityCounts struct {
	Low    int64 `json:"low"`
	Medium int64 `json:"medium"`
	High   int64 `json:"high"`
}

type StatsResponse struct {
	TotalTasks           int64          `json:"totalTasks"`
	Assigned             int64          `json:"assigned"`
	InProgress           int64          `json:"inProgress"`
	Completed            int64          `json:"completed"`
	Cancelled            int64          `json:"cancelled"`
	IncompleteByPriority PriorityCounts `json:"incompleteByPriority"`
}

type RevenueResponse struct {
	TotalEarned            decimal.Decimal `json:"totalEarned"`
	TotalSalaryGiven       decimal.Decimal `json:"totalSalaryGiven"`
	NetRevenue             decimal.Decimal `json:"netRevenue"`
	CompletedTasksCount    int64           `json:"completedTasksCount"`
	TotalSalaryRecords     int64           `json:"totalSalaryRecords"`
	EmployeesPaidThisMonth int64           `json:"employeesPaidThisMonth"`
	CurrentMonthSalary     decimal.Decimal `json:"currentMonthSalary"`
	TotalEmployees         int64           `json:"totalEmployees"`
	CurrentMonth           string          `json:"currentMonth"`
	Month                  *string         `json:"month,omitempty"`
}
