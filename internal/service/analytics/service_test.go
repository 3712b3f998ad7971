package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/analytics"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
	"github.com/parlour-hq/parlour-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, store *memory.Store, now time.Time) employee.Employee {
	t.Helper()
	ctx := context.Background()

	e, err := store.Employees().Create(ctx, employee.Employee{
		Name:       "Asha",
		Email:      "asha@parlour.test",
		Phone:      "5550001",
		Position:   "Stylist",
		Department: "Hair",
		Salary:     decimal.NewFromInt(30000),
		IsActive:   true,
	})
	require.NoError(t, err)

	completedAt := now.Add(-time.Hour)
	p := decimal.NewFromInt(1500)
	_, err = store.Tasks().Create(ctx, task.Task{
		Title:       "Hair colour",
		AssignedTo:  e.ID,
		AssignedBy:  "admin",
		Status:      task.StatusCompleted,
		Priority:    task.PriorityMedium,
		Price:       &p,
		CompletedAt: &completedAt,
		CreatedAt:   now.Add(-2 * time.Hour),
	})
	require.NoError(t, err)

	store.Salaries().Seed(salary.Record{EmployeeID: e.ID, Amount: decimal.NewFromInt(30000), Date: now, Month: "2026-05", Status: salary.StatusPaid})

	day := attendance.StartOfDay(now, time.UTC).AddDate(0, 0, -1)
	require.NoError(t, store.Attendance().UpsertRollup(ctx, attendance.Rollup{
		EmployeeID: e.ID,
		Date:       day,
		PunchIns:   []time.Time{day.Add(9 * time.Hour)},
		PunchOuts:  []time.Time{day.Add(17 * time.Hour)},
	}))
	return e
}

func TestGetDashboard_CombinesAllProjections(t *testing.T) {
	// Setup
	store := memory.NewStore()
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	e := seed(t, store, now)
	svc := NewAnalyticsService(store.Analytics(), time.UTC).(*AnalyticsServiceImpl)
	svc.now = func() time.Time { return now }

	// Act
	dash, err := svc.GetDashboard(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, dash.RevenueTrends.Trends, 1)
	assert.Equal(t, "May 2026", dash.RevenueTrends.Trends[0].Period)
	assert.True(t, dash.SalaryDistribution.TotalSalaryPaid.Equal(decimal.NewFromInt(30000)))
	assert.Equal(t, 1, dash.SalaryDistribution.TotalEmployees)
	require.Len(t, dash.TaskAnalytics.CategoryAnalysis, 1)
	require.Len(t, dash.EmployeePerformance.TopPerformers, 1)
	assert.Equal(t, e.ID, dash.EmployeePerformance.TopPerformers[0].EmployeeID)
	require.Len(t, dash.EmployeePerformance.AttendanceLeaders, 1)
	assert.Equal(t, int64(1), dash.EmployeePerformance.AttendanceLeaders[0].RecentAttendance)
}

func TestGetRevenueTrends_InvalidPeriod(t *testing.T) {
	svc := NewAnalyticsService(memory.NewStore().Analytics(), time.UTC)

	_, err := svc.GetRevenueTrends(context.Background(), analytics.Period("year"))

	assert.ErrorIs(t, err, analytics.ErrInvalidPeriod)
}

func TestGetRevenueTrends_DefaultsToMonth(t *testing.T) {
	svc := NewAnalyticsService(memory.NewStore().Analytics(), time.UTC)

	got, err := svc.GetRevenueTrends(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, analytics.PeriodMonth, got.Period)
	assert.Empty(t, got.Trends)
}
