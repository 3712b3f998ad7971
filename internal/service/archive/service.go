package archive

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/archive"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/realtime"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/database"
)

type ArchiveServiceImpl struct {
	tx                database.Transactor
	employeeRepo      employee.EmployeeRepository
	salaryRepo        salary.SalaryRepository
	userRepo          user.UserRepository
	previousStaffRepo archive.PreviousStaffRepository
	statsCache        attendance.StatsCache
	publisher         realtime.Publisher
	now               func() time.Time

	cleanupRunning atomic.Bool
}

// NewArchiveService builds the service. statsCache may be nil.
func NewArchiveService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	salaryRepo salary.SalaryRepository,
	userRepo user.UserRepository,
	previousStaffRepo archive.PreviousStaffRepository,
	statsCache attendance.StatsCache,
	publisher realtime.Publisher,
) archive.ArchiveService {
	return &ArchiveServiceImpl{
		tx:                tx,
		employeeRepo:      employeeRepo,
		salaryRepo:        salaryRepo,
		userRepo:          userRepo,
		previousStaffRepo: previousStaffRepo,
		statsCache:        statsCache,
		publisher:         publisher,
		now:               time.Now,
	}
}

// archiveAndDelete snapshots emp, drops its login and deletes the live row.
// It must run inside a transaction so a failed step leaves emp untouched.
func (s *ArchiveServiceImpl) archiveAndDelete(ctx context.Context, emp employee.Employee, reason *string, rating *int) (archive.ArchiveResult, archive.PreviousStaff, error) {
	history, err := s.salaryRepo.ListByEmployee(ctx, emp.ID)
	if err != nil {
		return archive.ArchiveResult{}, archive.PreviousStaff{}, fmt.Errorf("failed to load salary history: %w", err)
	}

	snapshot, err := s.previousStaffRepo.Create(ctx, archive.NewSnapshot(emp, history, reason, rating, s.now()))
	if err != nil {
		return archive.ArchiveResult{}, archive.PreviousStaff{}, fmt.Errorf("failed to archive employee: %w", err)
	}

	userDeleted, err := s.userRepo.DeleteByEmail(ctx, emp.Email)
	if err != nil {
		return archive.ArchiveResult{}, archive.PreviousStaff{}, fmt.Errorf("failed to delete user account: %w", err)
	}

	if err := s.employeeRepo.Delete(ctx, emp.ID); err != nil {
		return archive.ArchiveResult{}, archive.PreviousStaff{}, fmt.Errorf("failed to delete employee: %w", err)
	}

	return archive.ArchiveResult{
		PreviousStaffID:      snapshot.ID,
		MovedToPreviousStaff: true,
		UserDeleted:          userDeleted,
		EmployeeDeleted:      true,
		SalaryData: salary.Totals{
			TotalIncome:   snapshot.TotalIncome,
			PaidIncome:    snapshot.PaidIncome,
			PendingIncome: snapshot.PendingIncome,
		},
	}, snapshot, nil
}

func (s *ArchiveServiceImpl) publish(ctx context.Context, action string, employeeID string, result archive.ArchiveResult) {
	s.publisher.Publish(ctx, realtime.NewEvent(
		realtime.EventEmployeeUpdate,
		realtime.TypeEmployeeChange,
		realtime.Change{Action: action, ID: employeeID, Data: result},
		realtime.ManagementRooms(),
		s.now(),
	))
}

// DeleteEmployee implements archive.ArchiveService.
func (s *ArchiveServiceImpl) DeleteEmployee(ctx context.Context, employeeID string) (archive.ArchiveResult, error) {
	var result archive.ArchiveResult
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.GetByID(txCtx, employeeID)
		if err != nil {
			return err
		}
		result, _, err = s.archiveAndDelete(txCtx, emp, nil, nil)
		return err
	})
	if err != nil {
		return archive.ArchiveResult{}, err
	}

	attendance.InvalidateStats(ctx, s.statsCache)
	slog.Info("employee deleted", "employee_id", employeeID, "previous_staff_id", result.PreviousStaffID)
	s.publish(ctx, realtime.ActionDeleted, employeeID, result)
	return result, nil
}

// MoveToPreviousStaff implements archive.ArchiveService.
func (s *ArchiveServiceImpl) MoveToPreviousStaff(ctx context.Context, req archive.MoveToPreviousStaffRequest) (archive.ArchiveResult, error) {
	var result archive.ArchiveResult
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.GetByID(txCtx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !emp.IsLeaving {
			return archive.ErrNotMarkedLeaving
		}
		result, _, err = s.archiveAndDelete(txCtx, emp, req.ReasonForLeaving, req.PerformanceRating)
		return err
	})
	if err != nil {
		return archive.ArchiveResult{}, err
	}

	attendance.InvalidateStats(ctx, s.statsCache)
	slog.Info("employee moved to previous staff", "employee_id", req.EmployeeID, "previous_staff_id", result.PreviousStaffID)
	s.publish(ctx, realtime.ActionArchived, req.EmployeeID, result)
	return result, nil
}

// CleanupLeftEmployees implements archive.ArchiveService. Every leaving
// employee gets its own transaction; a failure is reported and the loop
// moves on.
func (s *ArchiveServiceImpl) CleanupLeftEmployees(ctx context.Context) (archive.CleanupResponse, error) {
	if !s.cleanupRunning.CompareAndSwap(false, true) {
		return archive.CleanupResponse{}, archive.ErrCleanupAlreadyRunning
	}
	defer s.cleanupRunning.Store(false)

	leaving, err := s.employeeRepo.ListLeaving(ctx)
	if err != nil {
		return archive.CleanupResponse{}, fmt.Errorf("failed to list leaving employees: %w", err)
	}

	resp := archive.CleanupResponse{
		ProcessedEmployees: []archive.ProcessedEmployee{},
		Failed:             []archive.FailedEmployee{},
	}
	for _, emp := range leaving {
		if ctx.Err() != nil {
			return resp, ctx.Err()
		}

		var snapshot archive.PreviousStaff
		var result archive.ArchiveResult
		err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			var err error
			result, snapshot, err = s.archiveAndDelete(txCtx, emp, nil, nil)
			return err
		})
		if err != nil {
			slog.Error("failed to archive leaving employee", "employee_id", emp.ID, "error", err)
			resp.Failed = append(resp.Failed, archive.FailedEmployee{ID: emp.ID, Name: emp.Name, Error: err.Error()})
			continue
		}

		resp.ProcessedEmployees = append(resp.ProcessedEmployees, archive.ProcessedEmployee{
			ID:            emp.ID,
			Name:          emp.Name,
			Email:         emp.Email,
			LeavingDate:   snapshot.LeavingDate,
			TotalIncome:   snapshot.TotalIncome,
			PaidIncome:    snapshot.PaidIncome,
			PendingIncome: snapshot.PendingIncome,
		})
		attendance.InvalidateStats(ctx, s.statsCache)
		s.publish(ctx, realtime.ActionArchived, emp.ID, result)
	}
	resp.ProcessedCount = len(resp.ProcessedEmployees)

	slog.Info("departure cleanup finished", "processed", resp.ProcessedCount, "failed", len(resp.Failed))
	return resp, nil
}

// ListPreviousStaff implements archive.ArchiveService.
func (s *ArchiveServiceImpl) ListPreviousStaff(ctx context.Context, page, limit int) (archive.ListPreviousStaffResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	records, total, err := s.previousStaffRepo.List(ctx, page, limit)
	if err != nil {
		return archive.ListPreviousStaffResponse{}, fmt.Errorf("failed to list previous staff: %w", err)
	}

	out := make([]archive.PreviousStaffResponse, 0, len(records))
	for _, r := range records {
		out = append(out, archive.NewPreviousStaffResponse(r))
	}
	return archive.ListPreviousStaffResponse{
		PreviousStaff: out,
		TotalCount:    total,
		Page:          page,
		Limit:         limit,
		TotalPages:    int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// GetPreviousStaff implements archive.ArchiveService.
func (s *ArchiveServiceImpl) GetPreviousStaff(ctx context.Context, id string) (archive.PreviousStaffResponse, error) {
	p, err := s.previousStaffRepo.GetByID(ctx, id)
	if err != nil {
		return archive.PreviousStaffResponse{}, err
	}
	return archive.NewPreviousStaffResponse(p), nil
}
