package task

import (
	"context"
	"testing"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/realtime"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
	"github.com/parlour-hq/parlour-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memory.Store
	events   *memory.EventLog
	svc      *TaskServiceImpl
	clock    time.Time
	assignee employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	events := &memory.EventLog{}
	f := &fixture{store: store, events: events, clock: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	f.svc = NewTaskService(store.Tasks(), store.Employees(), store.Salaries(), events, time.UTC).(*TaskServiceImpl)
	f.svc.now = func() time.Time { return f.clock }

	e, err := store.Employees().Create(context.Background(), employee.Employee{
		Name:       "Ritu",
		Email:      "ritu@parlour.test",
		Phone:      "5550001",
		Position:   "Stylist",
		Department: "Hair",
		Salary:     decimal.NewFromInt(500),
		IsActive:   true,
	})
	require.NoError(t, err)
	f.assignee = e
	return f
}

func (f *fixture) create(t *testing.T, priority task.Priority, price int64) task.TaskResponse {
	t.Helper()
	p := decimal.NewFromInt(price)
	req := task.CreateTaskRequest{
		Title:       "Hair colour",
		Description: "Full head colour",
		AssignedTo:  f.assignee.ID,
		AssignedBy:  "admin-1",
		Priority:    string(priority),
		DueDate:     "2026-06-02",
		Price:       &p,
	}
	require.NoError(t, req.Validate())
	resp, err := f.svc.CreateTask(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func TestCreateTask_PublishesAndJoinsAssignee(t *testing.T) {
	f := newFixture(t)

	resp := f.create(t, task.PriorityLow, 300)

	assert.Equal(t, "assigned", resp.Status)
	require.NotNil(t, resp.AssigneeName)
	assert.Equal(t, "Ritu", *resp.AssigneeName)
	events := f.events.Named(realtime.EventTaskUpdate)
	require.Len(t, events, 1)
	assert.ElementsMatch(t, []string{"admin_dashboard", "super_admin_dashboard"}, events[0].Rooms)
}

func TestCreateTask_UnknownAssignee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTask(context.Background(), task.CreateTaskRequest{
		Title:      "Manicure",
		AssignedTo: "missing",
		AssignedBy: "admin-1",
		Priority:   "low",
	})

	assert.ErrorIs(t, err, task.ErrAssigneeNotFound)
}

func TestGetTask_LazyEscalation(t *testing.T) {
	tests := []struct {
		name     string
		priority task.Priority
		age      time.Duration
		expected task.Priority
	}{
		{"low stays low before five minutes", task.PriorityLow, 4 * time.Minute, task.PriorityLow},
		{"low stays low just under five minutes", task.PriorityLow, 5*time.Minute - time.Second, task.PriorityLow},
		{"low becomes medium at exactly five minutes", task.PriorityLow, 5 * time.Minute, task.PriorityMedium},
		{"low becomes medium at six minutes", task.PriorityLow, 6 * time.Minute, task.PriorityMedium},
		{"low stays medium just under twenty five minutes", task.PriorityLow, 25*time.Minute - time.Second, task.PriorityMedium},
		{"low becomes high at exactly twenty five minutes", task.PriorityLow, 25 * time.Minute, task.PriorityHigh},
		{"low becomes high at twenty six minutes", task.PriorityLow, 26 * time.Minute, task.PriorityHigh},
		{"medium stays medium just under ten minutes", task.PriorityMedium, 10*time.Minute - time.Second, task.PriorityMedium},
		{"medium becomes high at exactly ten minutes", task.PriorityMedium, 10 * time.Minute, task.PriorityHigh},
		{"medium becomes high after ten minutes", task.PriorityMedium, 11 * time.Minute, task.PriorityHigh},
		{"high stays high", task.PriorityHigh, time.Hour, task.PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			f := newFixture(t)
			created := f.create(t, tt.priority, 100)
			f.clock = f.clock.Add(tt.age)

			// Act
			got, err := f.svc.GetTask(context.Background(), created.ID)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, string(tt.expected), got.Priority)
			stored, err := f.store.Tasks().GetByID(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stored.Priority)
		})
	}
}

func TestGetTask_ClosedTasksStillEscalate(t *testing.T) {
	tests := []struct {
		name   string
		status task.Status
	}{
		{"completed", task.StatusCompleted},
		{"cancelled", task.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			f := newFixture(t)
			created := f.create(t, task.PriorityLow, 100)
			status := string(tt.status)
			_, err := f.svc.UpdateTask(context.Background(), task.UpdateTaskRequest{ID: created.ID, Status: &status})
			require.NoError(t, err)
			f.clock = f.clock.Add(26 * time.Minute)

			// Act
			got, err := f.svc.GetTask(context.Background(), created.ID)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, "high", got.Priority)
			stored, err := f.store.Tasks().GetByID(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, task.PriorityHigh, stored.Priority)
		})
	}
}

func TestListTasks_EscalatesCompletedTask(t *testing.T) {
	// Setup
	f := newFixture(t)
	created := f.create(t, task.PriorityLow, 100)
	done := string(task.StatusCompleted)
	_, err := f.svc.UpdateTask(context.Background(), task.UpdateTaskRequest{ID: created.ID, Status: &done})
	require.NoError(t, err)
	f.clock = f.clock.Add(6 * time.Minute)

	// Act
	list, err := f.svc.ListTasks(context.Background(), task.TaskFilter{Page: 1, Limit: 20})

	// Assert
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, "medium", list.Tasks[0].Priority)
}

func TestEscalatePriorities_SweepPublishesOnlyChanges(t *testing.T) {
	// Setup
	f := newFixture(t)
	stale := f.create(t, task.PriorityLow, 100)
	f.clock = f.clock.Add(6 * time.Minute)
	fresh := f.create(t, task.PriorityLow, 100)
	before := len(f.events.Named(realtime.EventTaskUpdate))

	// Act
	n, err := f.svc.EscalatePriorities(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	events := f.events.Named(realtime.EventTaskUpdate)
	require.Len(t, events, before+1)
	change := events[len(events)-1].Payload.(realtime.Envelope).Data.(realtime.Change)
	assert.Equal(t, realtime.ActionEscalated, change.Action)
	assert.Equal(t, stale.ID, change.ID)

	again, err := f.svc.EscalatePriorities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, again)

	got, err := f.svc.GetTask(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "low", got.Priority)
}

func TestUpdateTask_CompletedAtFollowsStatus(t *testing.T) {
	// Setup
	f := newFixture(t)
	created := f.create(t, task.PriorityLow, 100)
	completed := string(task.StatusCompleted)
	inProgress := string(task.StatusInProgress)

	// Act
	done, err := f.svc.UpdateTask(context.Background(), task.UpdateTaskRequest{ID: created.ID, Status: &completed})
	require.NoError(t, err)
	reopened, err := f.svc.UpdateTask(context.Background(), task.UpdateTaskRequest{ID: created.ID, Status: &inProgress})
	require.NoError(t, err)

	// Assert
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, f.clock, *done.CompletedAt)
	assert.Nil(t, reopened.CompletedAt)
}

func TestGetStats_CountsOpenByPriority(t *testing.T) {
	// Setup
	f := newFixture(t)
	f.create(t, task.PriorityLow, 100)
	f.create(t, task.PriorityHigh, 100)
	closed := f.create(t, task.PriorityHigh, 100)
	cancelled := string(task.StatusCancelled)
	_, err := f.svc.UpdateTask(context.Background(), task.UpdateTaskRequest{ID: closed.ID, Status: &cancelled})
	require.NoError(t, err)

	// Act
	stats, err := f.svc.GetStats(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalTasks)
	assert.Equal(t, int64(2), stats.Assigned)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.Equal(t, task.PriorityCounts{Low: 1, Medium: 0, High: 1}, stats.IncompleteByPriority)
}

func TestGetRevenue_NetOfPaidSalaries(t *testing.T) {
	// Setup
	f := newFixture(t)
	completed := string(task.StatusCompleted)
	for _, price := range []int64{1200, 800} {
		created := f.create(t, task.PriorityLow, price)
		_, err := f.svc.UpdateTask(context.Background(), task.UpdateTaskRequest{ID: created.ID, Status: &completed})
		require.NoError(t, err)
	}
	f.create(t, task.PriorityLow, 5000)
	f.store.Salaries().Seed(salary.Record{
		EmployeeID: f.assignee.ID,
		Amount:     decimal.NewFromInt(500),
		Date:       f.clock,
		Month:      "2026-06",
		Status:     salary.StatusPaid,
	})
	f.store.Salaries().Seed(salary.Record{
		EmployeeID: f.assignee.ID,
		Amount:     decimal.NewFromInt(450),
		Date:       time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
		Month:      "2026-05",
		Status:     salary.StatusPaid,
	})

	// Act
	all, err := f.svc.GetRevenue(context.Background(), nil)
	require.NoError(t, err)
	may := "2026-05"
	inMay, err := f.svc.GetRevenue(context.Background(), &may)
	require.NoError(t, err)

	// Assert
	assert.True(t, all.TotalEarned.Equal(decimal.NewFromInt(2000)))
	assert.True(t, all.TotalSalaryGiven.Equal(decimal.NewFromInt(950)))
	assert.True(t, all.NetRevenue.Equal(decimal.NewFromInt(1050)))
	assert.Equal(t, int64(2), all.CompletedTasksCount)
	assert.Equal(t, int64(2), all.TotalSalaryRecords)
	assert.Equal(t, "2026-06", all.CurrentMonth)
	assert.Equal(t, int64(1), all.EmployeesPaidThisMonth)
	assert.True(t, all.CurrentMonthSalary.Equal(decimal.NewFromInt(500)))

	assert.True(t, inMay.TotalEarned.IsZero())
	assert.True(t, inMay.TotalSalaryGiven.Equal(decimal.NewFromInt(450)))
	assert.True(t, inMay.NetRevenue.Equal(decimal.NewFromInt(-450)))
}

func TestGetRevenue_InvalidMonth(t *testing.T) {
	f := newFixture(t)
	bad := "June"

	_, err := f.svc.GetRevenue(context.Background(), &bad)

	assert.ErrorIs(t, err, salary.ErrInvalidMonth)
}

func TestGetMyTasks_NoEmployeeRecord(t *testing.T) {
	f := newFixture(t)
	f.create(t, task.PriorityLow, 100)

	mine, err := f.svc.GetMyTasks(context.Background(), f.assignee.Email)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = f.svc.GetMyTasks(context.Background(), "owner@parlour.test")
	assert.ErrorIs(t, err, task.ErrNotEmployeeRecord)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, task.PriorityLow, 100)

	require.NoError(t, f.svc.DeleteTask(context.Background(), created.ID))

	_, err := f.svc.GetTask(context.Background(), created.ID)
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
	assert.ErrorIs(t, f.svc.DeleteTask(context.Background(), created.ID), task.ErrTaskNotFound)
}
