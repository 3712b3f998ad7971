package attendance

import (
	"context"
	"log/slog"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, record Record) (Record, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Record, int64, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Record, error)
	// CountPresentBetween counts distinct active employees with a punch_in in [from, to).
	CountPresentBetween(ctx context.Context, from, to time.Time) (int64, error)
	// DeleteBefore removes records with timestamp strictly before cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	UpsertRollup(ctx context.Context, rollup Rollup) error
	ListRollups(ctx context.Context, employeeID string) ([]Rollup, error)
}

// StatsCache holds the last computed Stats between punches.
type StatsCache interface {
	Get(ctx context.Context) (Stats, bool, error)
	Set(ctx context.Context, stats Stats) error
	Invalidate(ctx context.Context) error
}

// InvalidateStats drops the cached stats after a punch or a roster change.
// cache may be nil; a failure is only logged.
func InvalidateStats(ctx context.Context, cache StatsCache) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		slog.Warn("failed to invalidate attendance stats cache", "error", err)
	}
}
