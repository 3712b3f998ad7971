package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/archive"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
)

const (
	JobDepartureCleanup = "departure_cleanup"
	JobPrioritySweep    = "task_priority_sweep"
)

// StaffJobs archives departed employees and keeps task priorities fresh.
type StaffJobs struct {
	archiveService archive.ArchiveService
	taskService    task.TaskService
	sweepInterval  time.Duration
}

func NewStaffJobs(archiveService archive.ArchiveService, taskService task.TaskService, sweepInterval time.Duration) *StaffJobs {
	return &StaffJobs{
		archiveService: archiveService,
		taskService:    taskService,
		sweepInterval:  sweepInterval,
	}
}

func (j *StaffJobs) RegisterJobs(scheduler *Scheduler) error {
	if err := scheduler.AddCalendarJob(JobDepartureCleanup, "0 0 * * *", j.CleanupDepartures); err != nil {
		return err
	}
	scheduler.AddJob(JobPrioritySweep, j.sweepInterval, j.SweepPriorities)
	return nil
}

func (j *StaffJobs) CleanupDepartures(ctx context.Context) error {
	result, err := j.archiveService.CleanupLeftEmployees(ctx)
	if errors.Is(err, archive.ErrCleanupAlreadyRunning) {
		slog.Info("Cron: departure cleanup already running, skipped")
		return nil
	}
	if err != nil {
		return err
	}
	for _, f := range result.Failed {
		slog.Error("Cron: failed to archive departed employee", "employee_id", f.ID, "error", f.Error)
	}
	slog.Info("Cron: departure cleanup done", "processed", result.ProcessedCount, "failed", len(result.Failed))
	return nil
}

func (j *StaffJobs) SweepPriorities(ctx context.Context) error {
	n, err := j.taskService.EscalatePriorities(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("Cron: task priorities escalated", "count", n)
	}
	return nil
}
