package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/archive"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/realtime"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
	"github.com/parlour-hq/parlour-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *memory.Store
	events *memory.EventLog
	cache  *memory.StatsCache
	svc    *ArchiveServiceImpl
	clock  time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	events := &memory.EventLog{}
	f := &fixture{store: store, events: events, cache: &memory.StatsCache{}, clock: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)}
	f.svc = NewArchiveService(
		store.Transactor(),
		store.Employees(),
		store.Salaries(),
		store.Users(),
		store.PreviousStaff(),
		f.cache,
		events,
	).(*ArchiveServiceImpl)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

// addStaff creates a linked user and employee with a 500 paid / 300 pending ledger.
func (f *fixture) addStaff(t *testing.T, name string, leaving bool) employee.Employee {
	t.Helper()
	ctx := context.Background()
	email := name + "@parlour.test"

	_, err := f.store.Users().Create(ctx, user.User{Name: name, Email: email, PasswordHash: "x", Role: user.RoleEmployee})
	require.NoError(t, err)

	e, err := f.store.Employees().Create(ctx, employee.Employee{
		Name:       name,
		Email:      email,
		Phone:      "5550001",
		Position:   "Stylist",
		Department: "Hair",
		Salary:     decimal.NewFromInt(500),
		JoinDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
	})
	require.NoError(t, err)

	f.store.Salaries().Seed(salary.Record{EmployeeID: e.ID, Amount: decimal.NewFromInt(500), Date: f.clock.AddDate(0, -1, 0), Month: "2026-06", Status: salary.StatusPaid})
	f.store.Salaries().Seed(salary.Record{EmployeeID: e.ID, Amount: decimal.NewFromInt(300), Date: f.clock, Month: "2026-07", Status: salary.StatusPending})

	if leaving {
		reason := "Relocating"
		require.NoError(t, f.store.Employees().MarkLeaving(ctx, e.ID, f.clock.AddDate(0, 0, -1), &reason))
	}
	return e
}

func (f *fixture) assertGone(t *testing.T, e employee.Employee) {
	t.Helper()
	ctx := context.Background()
	_, err := f.store.Employees().GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	_, err = f.store.Users().GetByEmail(ctx, e.Email)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	records, err := f.store.Salaries().ListByEmployee(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMoveToPreviousStaff_SnapshotTotals(t *testing.T) {
	// Setup
	f := newFixture(t)
	e := f.addStaff(t, "kavya", true)
	rating := 4

	// Act
	result, err := f.svc.MoveToPreviousStaff(context.Background(), archive.MoveToPreviousStaffRequest{
		EmployeeID:        e.ID,
		PerformanceRating: &rating,
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.MovedToPreviousStaff)
	assert.True(t, result.UserDeleted)
	assert.True(t, result.EmployeeDeleted)
	assert.True(t, result.SalaryData.TotalIncome.Equal(decimal.NewFromInt(800)))
	assert.True(t, result.SalaryData.PaidIncome.Equal(decimal.NewFromInt(500)))
	assert.True(t, result.SalaryData.PendingIncome.Equal(decimal.NewFromInt(300)))

	snapshot, err := f.svc.GetPreviousStaff(context.Background(), result.PreviousStaffID)
	require.NoError(t, err)
	assert.Equal(t, "Relocating", snapshot.ReasonForLeaving)
	assert.Len(t, snapshot.SalaryHistory, 2)
	require.NotNil(t, snapshot.PerformanceRating)
	assert.Equal(t, 4, *snapshot.PerformanceRating)

	f.assertGone(t, e)
	events := f.events.Named(realtime.EventEmployeeUpdate)
	require.Len(t, events, 1)
	assert.Equal(t, realtime.ActionArchived, events[0].Payload.(realtime.Envelope).Data.(realtime.Change).Action)
}

func TestMoveToPreviousStaff_RequiresLeavingFlag(t *testing.T) {
	f := newFixture(t)
	e := f.addStaff(t, "kavya", false)

	_, err := f.svc.MoveToPreviousStaff(context.Background(), archive.MoveToPreviousStaffRequest{EmployeeID: e.ID})

	assert.ErrorIs(t, err, archive.ErrNotMarkedLeaving)
	_, err = f.store.Employees().GetByID(context.Background(), e.ID)
	assert.NoError(t, err)
}

func TestDeleteEmployee_ArchivesEvenWhenNotLeaving(t *testing.T) {
	// Setup
	f := newFixture(t)
	e := f.addStaff(t, "kavya", false)
	_, err := f.store.Attendance().Create(context.Background(), attendance.Record{EmployeeID: e.ID, Action: attendance.ActionPunchIn, Timestamp: f.clock})
	require.NoError(t, err)

	// Act
	result, err := f.svc.DeleteEmployee(context.Background(), e.ID)

	// Assert
	require.NoError(t, err)
	snapshot, err := f.svc.GetPreviousStaff(context.Background(), result.PreviousStaffID)
	require.NoError(t, err)
	assert.Equal(t, archive.DefaultReasonForLeaving, snapshot.ReasonForLeaving)
	assert.Equal(t, f.clock, snapshot.LeavingDate)
	f.assertGone(t, e)
}

func TestDeleteEmployee_KeepsCompletedTaskRevenue(t *testing.T) {
	// Setup
	f := newFixture(t)
	ctx := context.Background()
	e := f.addStaff(t, "kavya", false)
	price := decimal.NewFromInt(100)
	done := f.clock
	created, err := f.store.Tasks().Create(ctx, task.Task{
		Title: "Facial", Description: "Gold facial", AssignedTo: e.ID, AssignedBy: "admin-1",
		Status: task.StatusCompleted, Priority: task.PriorityLow, DueDate: done, Price: &price, CompletedAt: &done,
	})
	require.NoError(t, err)
	before, countBefore, err := f.store.Tasks().SumCompletedRevenue(ctx, nil)
	require.NoError(t, err)

	// Act
	_, err = f.svc.DeleteEmployee(ctx, e.ID)

	// Assert
	require.NoError(t, err)
	f.assertGone(t, e)
	after, countAfter, err := f.store.Tasks().SumCompletedRevenue(ctx, nil)
	require.NoError(t, err)
	assert.True(t, after.Equal(before))
	assert.True(t, after.Equal(price))
	assert.Equal(t, countBefore, countAfter)

	kept, err := f.store.Tasks().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, kept.AssignedTo)
	assert.Nil(t, kept.AssigneeName)
}

func TestDeleteEmployee_ArchiveFailure_EmployeeKept(t *testing.T) {
	// Setup
	f := newFixture(t)
	e := f.addStaff(t, "kavya", false)
	f.store.FailOn("previous_staff.create", errors.New("insert failed"))

	// Act
	_, err := f.svc.DeleteEmployee(context.Background(), e.ID)

	// Assert
	require.Error(t, err)
	_, err = f.store.Employees().GetByID(context.Background(), e.ID)
	assert.NoError(t, err)
	_, err = f.store.Users().GetByEmail(context.Background(), e.Email)
	assert.NoError(t, err)
	assert.Empty(t, f.events.Events())
}

func TestDeleteEmployee_LateFailureRollsBackSnapshot(t *testing.T) {
	// Setup
	f := newFixture(t)
	e := f.addStaff(t, "kavya", false)
	f.store.FailOn("employee.delete", errors.New("locked"))

	// Act
	_, err := f.svc.DeleteEmployee(context.Background(), e.ID)

	// Assert
	require.Error(t, err)
	list, err := f.svc.ListPreviousStaff(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.TotalCount)
	_, err = f.store.Users().GetByEmail(context.Background(), e.Email)
	assert.NoError(t, err)
}

func TestDeleteEmployee_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.DeleteEmployee(context.Background(), "missing")

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCleanupLeftEmployees_IsolatesFailures(t *testing.T) {
	// Setup
	f := newFixture(t)
	ok := f.addStaff(t, "kavya", true)
	bad := f.addStaff(t, "leela", true)
	stays := f.addStaff(t, "maya", false)
	f.store.FailOn("employee.delete:"+bad.ID, errors.New("locked"))

	// Act
	resp, err := f.svc.CleanupLeftEmployees(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ProcessedCount)
	require.Len(t, resp.ProcessedEmployees, 1)
	assert.Equal(t, ok.ID, resp.ProcessedEmployees[0].ID)
	assert.True(t, resp.ProcessedEmployees[0].TotalIncome.Equal(decimal.NewFromInt(800)))
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, bad.ID, resp.Failed[0].ID)
	assert.Contains(t, resp.Failed[0].Error, "locked")

	f.assertGone(t, ok)
	_, err = f.store.Employees().GetByID(context.Background(), bad.ID)
	assert.NoError(t, err)
	_, err = f.store.Employees().GetByID(context.Background(), stays.ID)
	assert.NoError(t, err)

	list, err := f.svc.ListPreviousStaff(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
}

func TestCleanupLeftEmployees_RejectsOverlap(t *testing.T) {
	f := newFixture(t)
	f.svc.cleanupRunning.Store(true)

	_, err := f.svc.CleanupLeftEmployees(context.Background())

	assert.ErrorIs(t, err, archive.ErrCleanupAlreadyRunning)
}

func TestCleanupLeftEmployees_NothingToDo(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.CleanupLeftEmployees(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, resp.ProcessedCount)
	assert.NotNil(t, resp.ProcessedEmployees)
	assert.NotNil(t, resp.Failed)
}

func TestArchivePaths_InvalidateAttendanceStats(t *testing.T) {
	tests := []struct {
		name string
		run  func(f *fixture, e employee.Employee) error
	}{
		{"delete", func(f *fixture, e employee.Employee) error {
			_, err := f.svc.DeleteEmployee(context.Background(), e.ID)
			return err
		}},
		{"move to previous staff", func(f *fixture, e employee.Employee) error {
			_, err := f.svc.MoveToPreviousStaff(context.Background(), archive.MoveToPreviousStaffRequest{EmployeeID: e.ID})
			return err
		}},
		{"cleanup", func(f *fixture, _ employee.Employee) error {
			_, err := f.svc.CleanupLeftEmployees(context.Background())
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			f := newFixture(t)
			e := f.addStaff(t, "kavya", true)
			require.NoError(t, f.cache.Set(context.Background(), attendance.Stats{TotalEmployees: 1}))

			// Act
			err := tt.run(f, e)

			// Assert
			require.NoError(t, err)
			assert.False(t, f.cache.Cached())
			assert.Equal(t, 1, f.cache.Invalidations())
		})
	}
}

func TestDeleteEmployee_FailureKeepsStatsCache(t *testing.T) {
	f := newFixture(t)
	e := f.addStaff(t, "kavya", false)
	require.NoError(t, f.cache.Set(context.Background(), attendance.Stats{TotalEmployees: 1}))
	f.store.FailOn("previous_staff.create", errors.New("insert failed"))

	_, err := f.svc.DeleteEmployee(context.Background(), e.ID)

	require.Error(t, err)
	assert.True(t, f.cache.Cached())
	assert.Equal(t, 0, f.cache.Invalidations())
}
