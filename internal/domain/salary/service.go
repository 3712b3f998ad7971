package salary

import "context"

type SalaryService interface {
	PaySalary(ctx context.Context, employeeID string) (PayResponse, error)
	GetHistory(ctx context.Context, employeeID string) (HistoryResponse, error)
	GetStats(ctx context.Context) (StatsResponse, error)
	GeneratePayslip(ctx context.Context, req PayslipRequest) (PayslipFile, error)
}
