package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	Punch(ctx context.Context, req PunchRequest) (RecordResponse, error)
	GetStats(ctx context.Context) (Stats, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetToday(ctx context.Context) (TodayResponse, error)
	GetEmployeeAttendance(ctx context.Context, employeeID string, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetMyAttendance(ctx context.Context, email string, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetHistory(ctx context.Context, employeeID string) ([]RollupResponse, error)

	// Jobs
	RollupDay(ctx context.Context, day time.Time) (RollupResult, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Cleanup(ctx context.Context) (CleanupResponse, error)
}
