package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/realtime"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/validator"
)

type TaskServiceImpl struct {
	taskRepo     task.TaskRepository
	employeeRepo employee.EmployeeRepository
	salaryRepo   salary.SalaryRepository
	publisher    realtime.Publisher
	loc          *time.Location
	now          func() time.Time
}

func NewTaskService(
	taskRepo task.TaskRepository,
	employeeRepo employee.EmployeeRepository,
	salaryRepo salary.SalaryRepository,
	publisher realtime.Publisher,
	loc *time.Location,
) task.TaskService {
	return &TaskServiceImpl{
		taskRepo:     taskRepo,
		employeeRepo: employeeRepo,
		salaryRepo:   salaryRepo,
		publisher:    publisher,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *TaskServiceImpl) publish(ctx context.Context, action string, id string, data interface{}) {
	s.publisher.Publish(ctx, realtime.NewEvent(
		realtime.EventTaskUpdate,
		realtime.TypeTaskChange,
		realtime.Change{Action: action, ID: id, Data: data},
		realtime.ManagementRooms(),
		s.now(),
	))
}

// refresh recomputes t's priority from its age and persists it when it has
// gone stale. Status plays no part.
func (s *TaskServiceImpl) refresh(ctx context.Context, t task.Task) (task.Task, bool, error) {
	next := task.Escalate(t.Priority, t.CreatedAt, s.now())
	if next == t.Priority {
		return t, false, nil
	}
	if err := s.taskRepo.UpdatePriority(ctx, t.ID, next); err != nil {
		return t, false, err
	}
	t.Priority = next
	return t, true, nil
}

// refreshAll is the read-path variant: a failed write is logged and the
// computed priority is still returned.
func (s *TaskServiceImpl) refreshAll(ctx context.Context, tasks []task.Task) []task.TaskResponse {
	out := make([]task.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		refreshed, _, err := s.refresh(ctx, t)
		if err != nil {
			slog.Warn("failed to persist escalated priority", "task_id", t.ID, "error", err)
			refreshed.Priority = task.Escalate(t.Priority, t.CreatedAt, s.now())
		}
		out = append(out, task.NewTaskResponse(refreshed))
	}
	return out
}

func (s *TaskServiceImpl) ensureAssignee(ctx context.Context, employeeID string) error {
	_, err := s.employeeRepo.GetByID(ctx, employeeID)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return task.ErrAssigneeNotFound
	}
	return err
}

// CreateTask implements task.TaskService.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error) {
	if err := s.ensureAssignee(ctx, req.AssignedTo); err != nil {
		return task.TaskResponse{}, err
	}

	created, err := s.taskRepo.Create(ctx, task.Task{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		AssignedBy:  req.AssignedBy,
		Status:      task.StatusAssigned,
		Priority:    task.Priority(req.Priority),
		DueDate:     req.Due,
		Price:       req.Price,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to create task: %w", err)
	}

	resp := task.NewTaskResponse(created)
	s.publish(ctx, realtime.ActionCreated, resp.ID, resp)
	return resp, nil
}

// GetTask implements task.TaskService.
func (s *TaskServiceImpl) GetTask(ctx context.Context, id string) (task.TaskResponse, error) {
	t, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return s.refreshAll(ctx, []task.Task{t})[0], nil
}

// ListTasks implements task.TaskService.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filter task.TaskFilter) (task.ListTaskResponse, error) {
	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return task.ListTaskResponse{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return task.ListTaskResponse{
		Tasks:      s.refreshAll(ctx, tasks),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(max(filter.Limit, 1)))),
	}, nil
}

// ListByEmployee implements task.TaskService.
func (s *TaskServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]task.TaskResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByAssignee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return s.refreshAll(ctx, tasks), nil
}

// GetMyTasks implements task.TaskService.
func (s *TaskServiceImpl) GetMyTasks(ctx context.Context, email string) ([]task.TaskResponse, error) {
	emp, err := s.employeeRepo.GetByEmail(ctx, email)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return nil, task.ErrNotEmployeeRecord
	}
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByAssignee(ctx, emp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return s.refreshAll(ctx, tasks), nil
}

// UpdateTask implements task.TaskService.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, req task.UpdateTaskRequest) (task.TaskResponse, error) {
	t, err := s.taskRepo.GetByID(ctx, req.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}

	if req.AssignedTo != nil && *req.AssignedTo != t.AssignedTo {
		if err := s.ensureAssignee(ctx, *req.AssignedTo); err != nil {
			return task.TaskResponse{}, err
		}
		t.AssignedTo = *req.AssignedTo
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Priority != nil {
		t.Priority = task.Priority(*req.Priority)
	}
	if req.Due != nil {
		t.DueDate = *req.Due
	}
	if req.Price != nil {
		t.Price = req.Price
	}
	if req.Status != nil {
		t.SetStatus(task.Status(*req.Status), s.now())
	}

	updated, err := s.taskRepo.Update(ctx, t)
	if err != nil {
		return task.TaskResponse{}, err
	}

	resp := task.NewTaskResponse(updated)
	s.publish(ctx, realtime.ActionUpdated, resp.ID, resp)
	return resp, nil
}

// DeleteTask implements task.TaskService.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, realtime.ActionDeleted, id, nil)
	return nil
}

// GetStats implements task.TaskService.
func (s *TaskServiceImpl) GetStats(ctx context.Context) (task.StatsResponse, error) {
	byStatus, err := s.taskRepo.CountByStatus(ctx)
	if err != nil {
		return task.StatsResponse{}, fmt.Errorf("failed to count tasks: %w", err)
	}
	byPriority, err := s.taskRepo.CountOpenByPriority(ctx)
	if err != nil {
		return task.StatsResponse{}, fmt.Errorf("failed to count tasks by priority: %w", err)
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	return task.StatsResponse{
		TotalTasks: total,
		Assigned:   byStatus[task.StatusAssigned],
		InProgress: byStatus[task.StatusInProgress],
		Completed:  byStatus[task.StatusCompleted],
		Cancelled:  byStatus[task.StatusCancelled],
		IncompleteByPriority: task.PriorityCounts{
			Low:    byPriority[task.PriorityLow],
			Medium: byPriority[task.PriorityMedium],
			High:   byPriority[task.PriorityHigh],
		},
	}, nil
}

// GetRevenue implements task.TaskService. Without a month both sums cover
// all history.
func (s *TaskServiceImpl) GetRevenue(ctx context.Context, month *string) (task.RevenueResponse, error) {
	if month != nil && *month == "" {
		month = nil
	}
	if month != nil && !validator.IsValidMonth(*month) {
		return task.RevenueResponse{}, salary.ErrInvalidMonth
	}

	earned, completed, err := s.taskRepo.SumCompletedRevenue(ctx, month)
	if err != nil {
		return task.RevenueResponse{}, fmt.Errorf("failed to sum task revenue: %w", err)
	}
	given, records, err := s.salaryRepo.SumPaid(ctx, month)
	if err != nil {
		return task.RevenueResponse{}, fmt.Errorf("failed to sum salaries: %w", err)
	}

	currentMonth := salary.MonthKey(s.now(), s.loc)
	paidThisMonth, err := s.salaryRepo.CountEmployeesPaid(ctx, currentMonth)
	if err != nil {
		return task.RevenueResponse{}, fmt.Errorf("failed to count paid employees: %w", err)
	}
	currentSalary, _, err := s.salaryRepo.SumPaid(ctx, &currentMonth)
	if err != nil {
		return task.RevenueResponse{}, fmt.Errorf("failed to sum current month salaries: %w", err)
	}
	employees, err := s.employeeRepo.CountActive(ctx)
	if err != nil {
		return task.RevenueResponse{}, fmt.Errorf("failed to count employees: %w", err)
	}

	return task.RevenueResponse{
		TotalEarned:            earned,
		TotalSalaryGiven:       given,
		NetRevenue:             earned.Sub(given),
		CompletedTasksCount:    completed,
		TotalSalaryRecords:     records,
		EmployeesPaidThisMonth: paidThisMonth,
		CurrentMonthSalary:     currentSalary,
		TotalEmployees:         employees,
		CurrentMonth:           currentMonth,
		Month:                  month,
	}, nil
}

// EscalatePriorities implements task.TaskService.
func (s *TaskServiceImpl) EscalatePriorities(ctx context.Context) (int, error) {
	tasks, err := s.taskRepo.ListOpenBelowHigh(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list open tasks: %w", err)
	}

	escalated := 0
	for _, t := range tasks {
		refreshed, changed, err := s.refresh(ctx, t)
		if err != nil {
			slog.Error("failed to escalate task priority", "task_id", t.ID, "error", err)
			continue
		}
		if !changed {
			continue
		}
		escalated++
		resp := task.NewTaskResponse(refreshed)
		s.publish(ctx, realtime.ActionEscalated, resp.ID, resp)
	}
	return escalated, nil
}
