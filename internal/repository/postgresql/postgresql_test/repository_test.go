package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
	"github.com/parlour-hq/parlour-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEmployee(t *testing.T, repo employee.EmployeeRepository, email string) employee.Employee {
	t.Helper()
	e, err := repo.Create(context.Background(), employee.Employee{
		Name:       "Anita",
		Email:      email,
		Phone:      "5550001",
		Position:   "Stylist",
		Department: "Hair",
		Salary:     decimal.NewFromInt(20000),
		IsActive:   true,
	})
	require.NoError(t, err)
	return e
}

func TestEmployeeRepository_CreateAndDuplicateEmail(t *testing.T) {
	// Setup
	db := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(db.DB)
	ctx := context.Background()

	// Act
	created := createEmployee(t, repo, "anita@parlour.test")
	_, err := repo.Create(ctx, employee.Employee{Name: "x", Email: "anita@parlour.test", Phone: "5550002", Position: "p", Department: "d"})

	// Assert
	assert.Equal(t, employee.StatusCheckedOut, created.CurrentStatus)
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	got, err := repo.GetByEmail(ctx, "anita@parlour.test")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestEmployeeRepository_TransitionStatus_ConcurrentPunchesOneWins(t *testing.T) {
	// Setup
	db := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(db.DB)
	e := createEmployee(t, repo, "anita@parlour.test")
	ctx := context.Background()

	// Act
	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.TransitionStatus(ctx, e.ID, employee.StatusCheckedOut, employee.StatusCheckedIn, time.Now())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, employee.ErrStatusConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	// Assert
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, employee.StatusCheckedIn, got.CurrentStatus)
	assert.NotNil(t, got.LastPunchIn)
}

func TestEmployeeRepository_TransitionStatus_UnknownEmployee(t *testing.T) {
	db := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(db.DB)

	err := repo.TransitionStatus(context.Background(), "0190f0a4-0000-7000-8000-000000000000", employee.StatusCheckedOut, employee.StatusCheckedIn, time.Now())

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestSalaryRepository_PaidMonthUnique(t *testing.T) {
	// Setup
	db := NewTestDatabase(t)
	employees := postgresql.NewEmployeeRepository(db.DB)
	salaries := postgresql.NewSalaryRepository(db.DB)
	e := createEmployee(t, employees, "anita@parlour.test")
	ctx := context.Background()
	rec := salary.Record{EmployeeID: e.ID, Amount: decimal.NewFromInt(1000), Date: time.Now(), Month: "2026-04", Status: salary.StatusPaid}

	// Act
	_, err := salaries.Create(ctx, rec)
	require.NoError(t, err)
	_, dupErr := salaries.Create(ctx, rec)
	rec.Status = salary.StatusPending
	_, pendingErr := salaries.Create(ctx, rec)

	// Assert
	assert.ErrorIs(t, dupErr, salary.ErrAlreadyPaid)
	assert.NoError(t, pendingErr)

	total, count, err := salaries.SumPaid(ctx, nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, int64(1), count)
}

func TestAttendanceRepository_RollupUpsertAndPrune(t *testing.T) {
	// Setup
	db := NewTestDatabase(t)
	employees := postgresql.NewEmployeeRepository(db.DB)
	repo := postgresql.NewAttendanceRepository(db.DB)
	e := createEmployee(t, employees, "anita@parlour.test")
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	in := day.Add(9 * time.Hour)
	out := day.Add(17 * time.Hour)

	// Act
	for _, r := range []attendance.Record{
		{EmployeeID: e.ID, Action: attendance.ActionPunchIn, Timestamp: in},
		{EmployeeID: e.ID, Action: attendance.ActionPunchOut, Timestamp: out},
	} {
		_, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}
	records, err := repo.ListBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	rollup := attendance.BuildRollup(e.ID, day, records)
	require.NoError(t, repo.UpsertRollup(ctx, rollup))
	require.NoError(t, repo.UpsertRollup(ctx, rollup))
	deleted, err := repo.DeleteBefore(ctx, out)

	// Assert
	rollups, err2 := repo.ListRollups(ctx, e.ID)
	require.NoError(t, err2)
	require.Len(t, rollups, 1)
	assert.InDelta(t, 8.0, rollups[0].TotalHours, 0.001)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	require.Len(t, records, 2)
	assert.Equal(t, "Anita", records[0].Employee.Name)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	// Setup
	db := NewTestDatabase(t)
	users := postgresql.NewUserRepository(db.DB)
	tx := postgresql.NewTransactor(db.DB)
	ctx := context.Background()
	boom := errors.New("boom")

	// Act
	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := users.Create(txCtx, user.User{Name: "Owner", Email: "owner@parlour.test", PasswordHash: "x", Role: user.RoleSuperAdmin}); err != nil {
			return err
		}
		return boom
	})

	// Assert
	assert.ErrorIs(t, err, boom)
	exists, err := users.ExistsByEmail(ctx, "owner@parlour.test")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTaskRepository_RevenueByMonth(t *testing.T) {
	// Setup
	db := NewTestDatabase(t)
	users := postgresql.NewUserRepository(db.DB)
	employees := postgresql.NewEmployeeRepository(db.DB)
	tasks := postgresql.NewTaskRepository(db.DB, time.UTC)
	ctx := context.Background()
	owner, err := users.Create(ctx, user.User{Name: "Owner", Email: "owner@parlour.test", PasswordHash: "x", Role: user.RoleSuperAdmin})
	require.NoError(t, err)
	e := createEmployee(t, employees, "anita@parlour.test")
	price := decimal.NewFromInt(750)
	completed := time.Date(2026, 5, 3, 12, 0, 0, 0, time.UTC)

	// Act
	_, err = tasks.Create(ctx, task.Task{
		Title: "Bridal makeup", Description: "Full look", AssignedTo: e.ID, AssignedBy: owner.ID,
		Status: task.StatusCompleted, Priority: task.PriorityHigh, DueDate: completed, Price: &price, CompletedAt: &completed,
	})
	require.NoError(t, err)

	// Assert
	may := "2026-05"
	june := "2026-06"
	total, count, err := tasks.SumCompletedRevenue(ctx, &may)
	require.NoError(t, err)
	assert.True(t, total.Equal(price))
	assert.Equal(t, int64(1), count)

	total, count, err = tasks.SumCompletedRevenue(ctx, &june)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.Equal(t, int64(0), count)
}

func TestTaskRepository_TaskOutlivesAssignee(t *testing.T) {
	// Setup
	db := NewTestDatabase(t)
	users := postgresql.NewUserRepository(db.DB)
	employees := postgresql.NewEmployeeRepository(db.DB)
	tasks := postgresql.NewTaskRepository(db.DB, time.UTC)
	ctx := context.Background()
	owner, err := users.Create(ctx, user.User{Name: "Owner", Email: "owner@parlour.test", PasswordHash: "x", Role: user.RoleSuperAdmin})
	require.NoError(t, err)
	e := createEmployee(t, employees, "anita@parlour.test")
	price := decimal.NewFromInt(100)
	completed := time.Date(2026, 5, 3, 12, 0, 0, 0, time.UTC)
	created, err := tasks.Create(ctx, task.Task{
		Title: "Pedicure", Description: "Spa pedicure", AssignedTo: e.ID, AssignedBy: owner.ID,
		Status: task.StatusCompleted, Priority: task.PriorityLow, DueDate: completed, Price: &price, CompletedAt: &completed,
	})
	require.NoError(t, err)

	// Act
	err = employees.Delete(ctx, e.ID)

	// Assert
	require.NoError(t, err)
	total, count, err := tasks.SumCompletedRevenue(ctx, nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(price))
	assert.Equal(t, int64(1), count)
	kept, err := tasks.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.AssigneeName)
}
