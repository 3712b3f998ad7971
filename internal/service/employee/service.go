package employee

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/realtime"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	statsCache   attendance.StatsCache
	publisher    realtime.Publisher
	now          func() time.Time
}

// NewEmployeeService builds the service. statsCache may be nil.
func NewEmployeeService(employeeRepo employee.EmployeeRepository, statsCache attendance.StatsCache, publisher realtime.Publisher) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		statsCache:   statsCache,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *EmployeeServiceImpl) publish(ctx context.Context, action string, e employee.EmployeeResponse) {
	s.publisher.Publish(ctx, realtime.NewEvent(
		realtime.EventEmployeeUpdate,
		realtime.TypeEmployeeChange,
		realtime.Change{Action: action, ID: e.ID, Data: e},
		realtime.ManagementRooms(),
		s.now(),
	))
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	email := validator.NormalizeEmail(req.Email)

	exists, err := s.employeeRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	}

	joinDate := s.now()
	if req.JoinDate != nil && *req.JoinDate != "" {
		if t, ok := validator.ParseDateOrDateTime(*req.JoinDate); ok {
			joinDate = t
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var dob *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		if t, ok := validator.IsValidDate(*req.DateOfBirth); ok {
			dob = &t
		}
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		Name:             req.Name,
		Email:            email,
		Phone:            req.Phone,
		Position:         req.Position,
		Department:       req.Department,
		Address:          req.Address,
		DateOfBirth:      dob,
		EmergencyContact: req.EmergencyContact,
		JoinDate:         joinDate,
		IsActive:         isActive,
		Salary:           req.Salary,
		CurrentStatus:    employee.StatusCheckedOut,
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	attendance.InvalidateStats(ctx, s.statsCache)
	resp := employee.NewEmployeeResponse(created)
	s.publish(ctx, realtime.ActionCreated, resp)
	slog.Info("employee created", "employee_id", created.ID)
	return resp, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	out := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, employee.NewEmployeeResponse(e))
	}

	return employee.ListEmployeeResponse{
		Employees:  out,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(max(filter.Limit, 1)))),
	}, nil
}

// UpdateEmployee implements employee.EmployeeService. Attendance-owned
// fields are rejected by the request validator before reaching here.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	existing, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Email != nil {
		email := validator.NormalizeEmail(*req.Email)
		req.Email = &email
		if email != existing.Email {
			taken, err := s.employeeRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return employee.EmployeeResponse{}, employee.ErrEmailExists
			}
		}
	}

	// Clearing the flag clears the date unless a date was sent too, in
	// which case the leaving check below rejects the request.
	if req.IsLeaving != nil && !*req.IsLeaving && req.LeavingDate == nil {
		cleared := ""
		req.LeavingDate = &cleared
	}

	next := existing
	if req.IsLeaving != nil {
		next.IsLeaving = *req.IsLeaving
	}
	if req.LeavingDate != nil {
		next.LeavingDate = nil
		if t, ok := validator.ParseDateOrDateTime(*req.LeavingDate); ok {
			next.LeavingDate = &t
		}
	}
	if err := next.ValidateLeaving(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.employeeRepo.Update(ctx, req); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}
	if req.IsActive != nil && *req.IsActive != existing.IsActive {
		attendance.InvalidateStats(ctx, s.statsCache)
	}

	updated, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	resp := employee.NewEmployeeResponse(updated)
	s.publish(ctx, realtime.ActionUpdated, resp)
	return resp, nil
}

// MarkAsLeaving implements employee.EmployeeService. It only flags the
// employee; archival happens on cleanup.
func (s *EmployeeServiceImpl) MarkAsLeaving(ctx context.Context, req employee.MarkLeavingRequest) (employee.EmployeeResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, req.ID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	leavingDate := s.now()
	if req.LeavingDate != nil && *req.LeavingDate != "" {
		if t, ok := validator.ParseDateOrDateTime(*req.LeavingDate); ok {
			leavingDate = t
		}
	}

	if err := s.employeeRepo.MarkLeaving(ctx, req.ID, leavingDate, req.Reason); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to mark employee as leaving: %w", err)
	}

	updated, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	resp := employee.NewEmployeeResponse(updated)
	s.publish(ctx, realtime.ActionUpdated, resp)
	slog.Info("employee marked as leaving", "employee_id", req.ID, "leaving_date", leavingDate)
	return resp, nil
}

// UpdateSalary implements employee.EmployeeService. The rate is overwritten;
// no ledger entry is written.
func (s *EmployeeServiceImpl) UpdateSalary(ctx context.Context, req employee.UpdateSalaryRequest) (employee.EmployeeResponse, error) {
	if req.Salary == nil || req.Salary.IsNegative() {
		return employee.EmployeeResponse{}, employee.ErrInvalidSalary
	}

	if err := s.employeeRepo.UpdateSalary(ctx, req.ID, *req.Salary); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	resp := employee.NewEmployeeResponse(updated)
	s.publish(ctx, realtime.ActionUpdated, resp)
	return resp, nil
}
