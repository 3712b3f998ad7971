package task

import "context"

type TaskService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	GetTask(ctx context.Context, id string) (TaskResponse, error)
	ListTasks(ctx context.Context, filter TaskFilter) (ListTaskResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]TaskResponse, error)
	GetMyTasks(ctx context.Context, email string) ([]TaskResponse, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error)
	DeleteTask(ctx context.Context, id string) error
	GetStats(ctx context.Context) (StatsResponse, error)
	GetRevenue(ctx context.Context, month *string) (RevenueResponse, error)
	// EscalatePriorities recomputes and persists stale priorities for all open tasks.
	EscalatePriorities(ctx context.Context) (int, error)
}
