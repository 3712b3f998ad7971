package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/realtime"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	statsCache     attendance.StatsCache
	publisher      realtime.Publisher
	loc            *time.Location
	now            func() time.Time
}

// NewAttendanceService builds the service. statsCache may be nil.
func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	statsCache attendance.StatsCache,
	publisher realtime.Publisher,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		statsCache:     statsCache,
		publisher:      publisher,
		loc:            loc,
		now:            time.Now,
	}
}

func conflictFor(action attendance.Action) error {
	if action == attendance.ActionPunchIn {
		return attendance.ErrAlreadyCheckedIn
	}
	return attendance.ErrAlreadyCheckedOut
}

// Punch implements attendance.AttendanceService. The status flip and the
// record append commit together; a rejected punch writes and publishes
// nothing.
func (s *AttendanceServiceImpl) Punch(ctx context.Context, req attendance.PunchRequest) (attendance.RecordResponse, error) {
	action := attendance.Action(req.Action)
	if !action.IsValid() {
		return attendance.RecordResponse{}, attendance.ErrInvalidAction
	}

	now := s.now()
	var record attendance.Record

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.GetByID(txCtx, req.EmployeeID)
		if err != nil {
			return err
		}
		if emp.CurrentStatus != action.RequiredStatus() {
			return conflictFor(action)
		}

		err = s.employeeRepo.TransitionStatus(txCtx, emp.ID, action.RequiredStatus(), action.ResultingStatus(), now)
		if errors.Is(err, employee.ErrStatusConflict) {
			return conflictFor(action)
		}
		if err != nil {
			return fmt.Errorf("failed to update employee status: %w", err)
		}

		record, err = s.attendanceRepo.Create(txCtx, attendance.Record{
			EmployeeID: emp.ID,
			Action:     action,
			Timestamp:  now,
			IPAddress:  req.IPAddress,
			Location:   req.Location,
			Notes:      req.Notes,
		})
		if err != nil {
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		if record.Employee == nil {
			sum := emp.Summary()
			record.Employee = &sum
		}
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	resp := attendance.NewRecordResponse(record)
	s.afterPunch(ctx, resp)
	slog.Info("attendance punch recorded", "employee_id", record.EmployeeID, "action", action)
	return resp, nil
}

// afterPunch drops the cached stats and notifies dashboards. Failures here
// are logged and never reach the caller.
func (s *AttendanceServiceImpl) afterPunch(ctx context.Context, resp attendance.RecordResponse) {
	attendance.InvalidateStats(ctx, s.statsCache)

	rooms := realtime.AttendanceRooms(resp.EmployeeID)
	s.publisher.Publish(ctx, realtime.NewEvent(realtime.EventAttendanceUpdate, realtime.TypePunchUpdate, resp, rooms, s.now()))

	stats, err := s.GetStats(ctx)
	if err != nil {
		slog.Warn("failed to compute attendance stats for broadcast", "error", err)
		return
	}
	s.publisher.Publish(ctx, realtime.NewEvent(realtime.EventAttendanceStatsUpdate, realtime.TypeStatsUpdate, stats, rooms, s.now()))
}

// GetStats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStats(ctx context.Context) (attendance.Stats, error) {
	if s.statsCache != nil {
		if cached, ok, err := s.statsCache.Get(ctx); err != nil {
			slog.Warn("attendance stats cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	start := attendance.StartOfDay(s.now(), s.loc)
	end := start.AddDate(0, 0, 1)

	total, err := s.employeeRepo.CountActive(ctx)
	if err != nil {
		return attendance.Stats{}, fmt.Errorf("failed to count employees: %w", err)
	}
	checkedIn, err := s.employeeRepo.CountActiveCheckedIn(ctx)
	if err != nil {
		return attendance.Stats{}, fmt.Errorf("failed to count checked in employees: %w", err)
	}
	present, err := s.attendanceRepo.CountPresentBetween(ctx, start, end)
	if err != nil {
		return attendance.Stats{}, fmt.Errorf("failed to count present employees: %w", err)
	}

	stats := attendance.Stats{
		TotalEmployees:       total,
		PresentToday:         present,
		CurrentlyCheckedIn:   checkedIn,
		AttendancePercentage: attendance.AttendancePercentage(checkedIn, total),
		Date:                 start.Format("2006-01-02"),
	}

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, stats); err != nil {
			slog.Warn("attendance stats cache write failed", "error", err)
		}
	}
	return stats, nil
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance.ListAttendanceResponse{
		Records:    attendance.NewRecordResponses(records),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(max(filter.Limit, 1)))),
	}, nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return s.list(ctx, filter)
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	start := attendance.StartOfDay(s.now(), s.loc)
	records, err := s.attendanceRepo.ListBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	var summary attendance.TodaySummary
	unique := map[string]struct{}{}
	for _, r := range records {
		switch r.Action {
		case attendance.ActionPunchIn:
			summary.TotalPunchIns++
		case attendance.ActionPunchOut:
			summary.TotalPunchOuts++
		}
		unique[r.EmployeeID] = struct{}{}
	}
	summary.UniqueEmployees = len(unique)

	return attendance.TodayResponse{
		Date:    start.Format("2006-01-02"),
		Records: attendance.NewRecordResponses(records),
		Summary: summary,
	}, nil
}

// GetEmployeeAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEmployeeAttendance(ctx context.Context, employeeID string, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	filter.EmployeeID = &employeeID
	return s.list(ctx, filter)
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, email string, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	emp, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	filter.EmployeeID = &emp.ID
	return s.list(ctx, filter)
}

// GetHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetHistory(ctx context.Context, employeeID string) ([]attendance.RollupResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	rollups, err := s.attendanceRepo.ListRollups(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance history: %w", err)
	}
	out := make([]attendance.RollupResponse, 0, len(rollups))
	for _, r := range rollups {
		out = append(out, attendance.NewRollupResponse(r))
	}
	return out, nil
}

// RollupDay implements attendance.AttendanceService. Each employee is
// upserted independently; one failure does not stop the rest.
func (s *AttendanceServiceImpl) RollupDay(ctx context.Context, day time.Time) (attendance.RollupResult, error) {
	start := attendance.StartOfDay(day, s.loc)
	records, err := s.attendanceRepo.ListBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return attendance.RollupResult{}, fmt.Errorf("failed to load punches for rollup: %w", err)
	}

	var order []string
	byEmployee := map[string][]attendance.Record{}
	for _, r := range records {
		if _, seen := byEmployee[r.EmployeeID]; !seen {
			order = append(order, r.EmployeeID)
		}
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	result := attendance.RollupResult{Date: start.Format("2006-01-02")}
	for _, employeeID := range order {
		rollup := attendance.BuildRollup(employeeID, start, byEmployee[employeeID])
		if err := s.attendanceRepo.UpsertRollup(ctx, rollup); err != nil {
			slog.Error("failed to write attendance rollup", "employee_id", employeeID, "date", result.Date, "error", err)
			result.FailedEmployees = append(result.FailedEmployees, employeeID)
			continue
		}
		result.EmployeesProcessed++
	}
	return result, nil
}

// PruneBefore implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.attendanceRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune attendance records: %w", err)
	}
	return n, nil
}

// Cleanup implements attendance.AttendanceService. It prunes everything
// before yesterday's local midnight.
func (s *AttendanceServiceImpl) Cleanup(ctx context.Context) (attendance.CleanupResponse, error) {
	cutoff := attendance.RetentionCutoff(s.now(), s.loc)
	n, err := s.PruneBefore(ctx, cutoff)
	if err != nil {
		return attendance.CleanupResponse{}, err
	}
	if n > 0 {
		attendance.InvalidateStats(ctx, s.statsCache)
	}
	return attendance.CleanupResponse{DeletedCount: n, Cutoff: cutoff}, nil
}
