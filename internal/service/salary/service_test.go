package salary

import (
	"context"
	"testing"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/payslip"
	"github.com/parlour-hq/parlour-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memory.Store
	svc   *SalaryServiceImpl
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{store: store, clock: time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)}
	f.svc = NewSalaryService(store.Transactor(), store.Salaries(), store.Employees(), &memory.EventLog{}, "Parlour", time.UTC).(*SalaryServiceImpl)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) addEmployee(t *testing.T, amount int64) employee.Employee {
	t.Helper()
	e, err := f.store.Employees().Create(context.Background(), employee.Employee{
		Name:       "Meera Iyer",
		Email:      "meera@parlour.test",
		Phone:      "5550001",
		Position:   "Stylist",
		Department: "Hair",
		Salary:     decimal.NewFromInt(amount),
		JoinDate:   f.clock,
		IsActive:   true,
	})
	require.NoError(t, err)
	return e
}

func TestPaySalary_EndToEnd(t *testing.T) {
	// Setup
	f := newFixture(t)
	e := f.addEmployee(t, 1000)
	f.store.Salaries().Seed(salary.Record{
		EmployeeID: e.ID,
		Amount:     decimal.NewFromInt(900),
		Date:       time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC),
		Month:      "2026-03",
		Status:     salary.StatusPaid,
	})

	before, err := f.svc.GetHistory(context.Background(), e.ID)
	require.NoError(t, err)
	require.NotNil(t, before.PendingSalary)
	assert.True(t, before.PendingSalary.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "2026-04", before.PendingSalary.Month)

	// Act
	paid, err := f.svc.PaySalary(context.Background(), e.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, salary.StatusPaid, paid.Record.Status)
	assert.Equal(t, "2026-04", paid.Record.Month)
	assert.True(t, paid.Record.Amount.Equal(decimal.NewFromInt(1000)))

	after, err := f.svc.GetHistory(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Nil(t, after.PendingSalary)
	require.Len(t, after.SalaryHistory, 2)
	assert.Equal(t, "2026-04", after.SalaryHistory[0].Month)
	assert.Equal(t, "2026-03", after.SalaryHistory[1].Month)
}

func TestPaySalary_SecondPaymentSameMonth_Conflict(t *testing.T) {
	// Setup
	f := newFixture(t)
	e := f.addEmployee(t, 1000)
	_, err := f.svc.PaySalary(context.Background(), e.ID)
	require.NoError(t, err)

	// Act
	f.clock = f.clock.Add(48 * time.Hour)
	_, err = f.svc.PaySalary(context.Background(), e.ID)

	// Assert
	assert.ErrorIs(t, err, salary.ErrAlreadyPaid)
	records, err := f.store.Salaries().ListByEmployee(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPaySalary_NextMonthAllowed(t *testing.T) {
	f := newFixture(t)
	e := f.addEmployee(t, 1000)
	_, err := f.svc.PaySalary(context.Background(), e.ID)
	require.NoError(t, err)

	f.clock = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	_, err = f.svc.PaySalary(context.Background(), e.ID)

	require.NoError(t, err)
}

func TestPaySalary_ZeroSalary_Rejected(t *testing.T) {
	f := newFixture(t)
	e := f.addEmployee(t, 0)

	_, err := f.svc.PaySalary(context.Background(), e.ID)

	assert.ErrorIs(t, err, salary.ErrInvalidSalaryAmount)
	history, err := f.svc.GetHistory(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Empty(t, history.SalaryHistory)
	assert.Nil(t, history.PendingSalary)
}

func TestPaySalary_UnknownEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PaySalary(context.Background(), "missing")

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetStats_CurrentMonthOnly(t *testing.T) {
	// Setup
	f := newFixture(t)
	e := f.addEmployee(t, 1200)
	f.store.Salaries().Seed(salary.Record{
		EmployeeID: e.ID,
		Amount:     decimal.NewFromInt(700),
		Date:       time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC),
		Month:      "2026-03",
		Status:     salary.StatusPaid,
	})
	_, err := f.svc.PaySalary(context.Background(), e.ID)
	require.NoError(t, err)

	// Act
	stats, err := f.svc.GetStats(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2026-04", stats.CurrentMonth)
	assert.True(t, stats.TotalSalaryGiven.Equal(decimal.NewFromInt(1200)), stats.TotalSalaryGiven.String())
	assert.Equal(t, int64(1), stats.EmployeesPaid)
	assert.Equal(t, int64(1), stats.TotalEmployees)
}

func TestGeneratePayslip(t *testing.T) {
	// Setup
	f := newFixture(t)
	e := f.addEmployee(t, 1000)
	_, err := f.svc.PaySalary(context.Background(), e.ID)
	require.NoError(t, err)

	// Act
	file, err := f.svc.GeneratePayslip(context.Background(), salary.PayslipRequest{EmployeeID: e.ID, Month: "2026-04"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, payslip.ContentType, file.ContentType)
	assert.Contains(t, file.FileName, "2026-04")
	assert.True(t, len(file.Content) > 4)
	assert.Equal(t, "%PDF", string(file.Content[:4]))

	_, err = f.svc.GeneratePayslip(context.Background(), salary.PayslipRequest{EmployeeID: e.ID, Month: "2026-01"})
	assert.ErrorIs(t, err, salary.ErrRecordNotFound)
}
