package employee

import "context"

type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	MarkAsLeaving(ctx context.Context, req MarkLeavingRequest) (EmployeeResponse, error)
	UpdateSalary(ctx context.Context, req UpdateSalaryRequest) (EmployeeResponse, error)
}
