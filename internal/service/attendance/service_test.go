package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/realtime"
	"github.com/parlour-hq/parlour-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *memory.Store
	events *memory.EventLog
	svc    *AttendanceServiceImpl
	clock  time.Time
}

func newFixture(t *testing.T, cache attendance.StatsCache) *fixture {
	t.Helper()
	store := memory.NewStore()
	events := &memory.EventLog{}
	f := &fixture{
		store:  store,
		events: events,
		clock:  time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewAttendanceService(store.Transactor(), store.Attendance(), store.Employees(), cache, events, time.UTC).(*AttendanceServiceImpl)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) addEmployee(t *testing.T, name string, active bool) employee.Employee {
	t.Helper()
	e, err := f.store.Employees().Create(context.Background(), employee.Employee{
		Name:       name,
		Email:      name + "@parlour.test",
		Phone:      "5550001",
		Position:   "Stylist",
		Department: "Hair",
		Salary:     decimal.NewFromInt(1000),
		JoinDate:   f.clock,
		IsActive:   active,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) punch(t *testing.T, employeeID string, action attendance.Action) (attendance.RecordResponse, error) {
	t.Helper()
	return f.svc.Punch(context.Background(), attendance.PunchRequest{EmployeeID: employeeID, Action: string(action)})
}

func TestPunch_PunchIn_UpdatesStatusAndPublishes(t *testing.T) {
	// Setup
	f := newFixture(t, nil)
	e := f.addEmployee(t, "asha", true)

	// Act
	resp, err := f.punch(t, e.ID, attendance.ActionPunchIn)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "punch_in", resp.Action)
	assert.Equal(t, f.clock, resp.Timestamp)
	require.NotNil(t, resp.Employee)
	assert.Equal(t, "asha", resp.Employee.Name)

	stored, err := f.store.Employees().GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, employee.StatusCheckedIn, stored.CurrentStatus)
	require.NotNil(t, stored.LastPunchIn)
	assert.Equal(t, f.clock, *stored.LastPunchIn)

	updates := f.events.Named(realtime.EventAttendanceUpdate)
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0].Rooms, realtime.RoomAttendanceUpdates)
	assert.Contains(t, updates[0].Rooms, realtime.EmployeeRoom(e.ID))
	assert.Contains(t, updates[0].Rooms, "admin_dashboard")
	assert.Contains(t, updates[0].Rooms, "super_admin_dashboard")
	envelope := updates[0].Payload.(realtime.Envelope)
	assert.Equal(t, realtime.TypePunchUpdate, envelope.Type)

	stats := f.events.Named(realtime.EventAttendanceStatsUpdate)
	require.Len(t, stats, 1)
	assert.Equal(t, realtime.TypeStatsUpdate, stats[0].Payload.(realtime.Envelope).Type)
}

func TestPunch_DoublePunchIn_ConflictWithoutSideEffects(t *testing.T) {
	// Setup
	f := newFixture(t, nil)
	e := f.addEmployee(t, "asha", true)
	_, err := f.punch(t, e.ID, attendance.ActionPunchIn)
	require.NoError(t, err)
	eventsBefore := len(f.events.Events())

	// Act
	_, err = f.punch(t, e.ID, attendance.ActionPunchIn)

	// Assert
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	records, total, err := f.store.Attendance().List(context.Background(), attendance.AttendanceFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, records, 1)
	assert.Len(t, f.events.Events(), eventsBefore)

	stats, err := f.svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.CurrentlyCheckedIn)
}

func TestPunch_PunchOutWhileCheckedOut_Conflict(t *testing.T) {
	// Setup
	f := newFixture(t, nil)
	e := f.addEmployee(t, "asha", true)

	// Act
	_, err := f.punch(t, e.ID, attendance.ActionPunchOut)

	// Assert
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
	assert.Empty(t, f.events.Events())
}

func TestPunch_RecordWriteFails_StatusRolledBack(t *testing.T) {
	// Setup
	f := newFixture(t, nil)
	e := f.addEmployee(t, "asha", true)
	f.store.FailOn("attendance.create", errors.New("disk full"))

	// Act
	_, err := f.punch(t, e.ID, attendance.ActionPunchIn)

	// Assert
	require.Error(t, err)
	stored, err := f.store.Employees().GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, employee.StatusCheckedOut, stored.CurrentStatus)
	assert.Nil(t, stored.LastPunchIn)
	assert.Empty(t, f.events.Events())
}

func TestPunch_UnknownEmployee_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.punch(t, "missing", attendance.ActionPunchIn)

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPunch_InvalidAction(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Punch(context.Background(), attendance.PunchRequest{EmployeeID: "x", Action: "lunch"})

	assert.ErrorIs(t, err, attendance.ErrInvalidAction)
}

func TestGetStats_PercentageAndPresence(t *testing.T) {
	// Setup
	f := newFixture(t, nil)
	a := f.addEmployee(t, "asha", true)
	b := f.addEmployee(t, "bina", true)
	f.addEmployee(t, "chitra", true)
	inactive := f.addEmployee(t, "dev", false)

	_, err := f.punch(t, a.ID, attendance.ActionPunchIn)
	require.NoError(t, err)
	_, err = f.punch(t, b.ID, attendance.ActionPunchIn)
	require.NoError(t, err)
	f.clock = f.clock.Add(time.Hour)
	_, err = f.punch(t, b.ID, attendance.ActionPunchOut)
	require.NoError(t, err)
	_, err = f.punch(t, inactive.ID, attendance.ActionPunchIn)
	require.NoError(t, err)

	// Act
	stats, err := f.svc.GetStats(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalEmployees)
	assert.Equal(t, int64(1), stats.CurrentlyCheckedIn)
	assert.Equal(t, int64(2), stats.PresentToday)
	assert.Equal(t, 33, stats.AttendancePercentage)
	assert.Equal(t, "2026-03-10", stats.Date)
}

func TestGetStats_NoEmployees_ZeroPercent(t *testing.T) {
	f := newFixture(t, nil)

	stats, err := f.svc.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalEmployees)
	assert.Equal(t, 0, stats.AttendancePercentage)
}

func TestGetStats_ServedFromCacheUntilPunch(t *testing.T) {
	// Setup
	cache := &memory.StatsCache{}
	f := newFixture(t, cache)
	e := f.addEmployee(t, "asha", true)

	first, err := f.svc.GetStats(context.Background())
	require.NoError(t, err)
	require.True(t, cache.Cached())

	// A direct store write is invisible while the cache is warm.
	require.NoError(t, f.store.Employees().TransitionStatus(context.Background(), e.ID, employee.StatusCheckedOut, employee.StatusCheckedIn, f.clock))
	cached, err := f.svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	// Act
	_, err = f.punch(t, e.ID, attendance.ActionPunchOut)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Invalidations())
	fresh, err := f.svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), fresh.CurrentlyCheckedIn)
}

func TestEndToEnd_PunchDayAndRollup(t *testing.T) {
	// Setup
	f := newFixture(t, nil)
	e := f.addEmployee(t, "asha", true)
	ctx := context.Background()

	// Act
	_, err := f.punch(t, e.ID, attendance.ActionPunchIn)
	require.NoError(t, err)
	afterIn, err := f.svc.GetStats(ctx)
	require.NoError(t, err)

	_, err = f.punch(t, e.ID, attendance.ActionPunchIn)
	require.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	afterReject, err := f.svc.GetStats(ctx)
	require.NoError(t, err)

	f.clock = time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	_, err = f.punch(t, e.ID, attendance.ActionPunchOut)
	require.NoError(t, err)
	afterOut, err := f.svc.GetStats(ctx)
	require.NoError(t, err)

	result, err := f.svc.RollupDay(ctx, f.clock)
	require.NoError(t, err)
	history, err := f.svc.GetHistory(ctx, e.ID)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(1), afterIn.CurrentlyCheckedIn)
	assert.Equal(t, afterIn, afterReject)
	assert.Equal(t, int64(0), afterOut.CurrentlyCheckedIn)
	assert.Equal(t, 1, result.EmployeesProcessed)
	require.Len(t, history, 1)
	assert.Equal(t, "2026-03-10", history[0].Date)
	assert.InDelta(t, 8.0, history[0].TotalHours, 0.001)
	assert.Equal(t, 1, history[0].TotalSessions)
}

func TestRollupDay_UnpairedPunchInKeptButNotCounted(t *testing.T) {
	// Setup
	f := newFixture(t, nil)
	e := f.addEmployee(t, "asha", true)
	ctx := context.Background()

	_, err := f.punch(t, e.ID, attendance.ActionPunchIn)
	require.NoError(t, err)
	f.clock = f.clock.Add(2 * time.Hour)
	_, err = f.punch(t, e.ID, attendance.ActionPunchOut)
	require.NoError(t, err)
	f.clock = f.clock.Add(time.Hour)
	_, err = f.punch(t, e.ID, attendance.ActionPunchIn)
	require.NoError(t, err)

	// Act
	_, err = f.svc.RollupDay(ctx, f.clock)
	require.NoError(t, err)

	// Assert
	history, err := f.svc.GetHistory(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Len(t, history[0].PunchIns, 2)
	assert.Len(t, history[0].PunchOuts, 1)
	assert.Equal(t, 1, history[0].TotalSessions)
	assert.InDelta(t, 2.0, history[0].TotalHours, 0.001)
}

func TestRollupDay_RerunOverwritesAndIsolatesFailures(t *testing.T) {
	// Setup
	f := newFixture(t, nil)
	a := f.addEmployee(t, "asha", true)
	b := f.addEmployee(t, "bina", true)
	ctx := context.Background()
	_, err := f.punch(t, a.ID, attendance.ActionPunchIn)
	require.NoError(t, err)
	_, err = f.punch(t, b.ID, attendance.ActionPunchIn)
	require.NoError(t, err)
	f.store.FailOn("attendance.upsert_rollup:"+a.ID, errors.New("write failed"))

	// Act
	result, err := f.svc.RollupDay(ctx, f.clock)
	require.NoError(t, err)
	again, err := f.svc.RollupDay(ctx, f.clock)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, result.EmployeesProcessed)
	assert.Equal(t, []string{a.ID}, result.FailedEmployees)
	assert.Equal(t, 1, again.EmployeesProcessed)
	history, err := f.svc.GetHistory(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCleanup_BoundaryAtYesterdayMidnight(t *testing.T) {
	// Setup
	f := newFixture(t, nil)
	e := f.addEmployee(t, "asha", true)
	ctx := context.Background()
	cutoff := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	for _, ts := range []time.Time{
		cutoff.Add(-time.Nanosecond),
		cutoff,
		cutoff.Add(time.Hour),
	} {
		_, err := f.store.Attendance().Create(ctx, attendance.Record{EmployeeID: e.ID, Action: attendance.ActionPunchIn, Timestamp: ts})
		require.NoError(t, err)
	}

	// Act
	resp, err := f.svc.Cleanup(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.DeletedCount)
	assert.True(t, cutoff.Equal(resp.Cutoff))
	remaining, err := f.store.Attendance().ListBetween(ctx, time.Time{}, f.clock.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	for _, r := range remaining {
		assert.False(t, r.Timestamp.Before(cutoff))
	}
}

func TestGetToday_Summary(t *testing.T) {
	// Setup
	f := newFixture(t, nil)
	a := f.addEmployee(t, "asha", true)
	b := f.addEmployee(t, "bina", true)
	_, err := f.punch(t, a.ID, attendance.ActionPunchIn)
	require.NoError(t, err)
	_, err = f.punch(t, a.ID, attendance.ActionPunchOut)
	require.NoError(t, err)
	_, err = f.punch(t, b.ID, attendance.ActionPunchIn)
	require.NoError(t, err)

	// Act
	today, err := f.svc.GetToday(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", today.Date)
	assert.Len(t, today.Records, 3)
	assert.Equal(t, attendance.TodaySummary{TotalPunchIns: 2, TotalPunchOuts: 1, UniqueEmployees: 2}, today.Summary)
}

func TestGetMyAttendance_ResolvesByEmail(t *testing.T) {
	// Setup
	f := newFixture(t, nil)
	a := f.addEmployee(t, "asha", true)
	b := f.addEmployee(t, "bina", true)
	_, err := f.punch(t, a.ID, attendance.ActionPunchIn)
	require.NoError(t, err)
	_, err = f.punch(t, b.ID, attendance.ActionPunchIn)
	require.NoError(t, err)

	// Act
	mine, err := f.svc.GetMyAttendance(context.Background(), a.Email, attendance.AttendanceFilter{Page: 1, Limit: 50})

	// Assert
	require.NoError(t, err)
	require.Len(t, mine.Records, 1)
	assert.Equal(t, a.ID, mine.Records[0].EmployeeID)
	assert.Equal(t, 1, mine.TotalPages)

	_, err = f.svc.GetMyAttendance(context.Background(), "nobody@parlour.test", attendance.AttendanceFilter{Page: 1, Limit: 50})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
