package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
)

const (
	JobAttendanceRollup     = "attendance_daily_rollup"
	JobAttendancePruneNoon  = "attendance_prune_noon"
	JobAttendancePruneNight = "attendance_prune_midnight"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		now:               time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	if err := scheduler.AddCalendarJob(JobAttendanceRollup, "0 22 * * *", j.RollupToday); err != nil {
		return err
	}
	if err := scheduler.AddCalendarJob(JobAttendancePruneNoon, "0 12 * * *", j.Prune); err != nil {
		return err
	}
	return scheduler.AddCalendarJob(JobAttendancePruneNight, "0 0 * * *", j.Prune)
}

// RollupToday writes one rollup per employee who punched today.
func (j *AttendanceJobs) RollupToday(ctx context.Context) error {
	result, err := j.attendanceService.RollupDay(ctx, j.now())
	if err != nil {
		return err
	}
	slog.Info("Cron: attendance rollup done",
		"date", result.Date,
		"employees_processed", result.EmployeesProcessed,
		"failed", len(result.FailedEmployees),
	)
	return nil
}

func (j *AttendanceJobs) Prune(ctx context.Context) error {
	result, err := j.attendanceService.Cleanup(ctx)
	if err != nil {
		return err
	}
	slog.Info("Cron: attendance records pruned", "deleted", result.DeletedCount, "cutoff", result.Cutoff)
	return nil
}
