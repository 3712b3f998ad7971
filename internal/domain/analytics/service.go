package analytics

import "context"

type AnalyticsService interface {
	GetRevenueTrends(ctx context.Context, period Period) (RevenueTrendsResponse, error)
	GetSalaryDistribution(ctx context.Context) (SalaryDistributionResponse, error)
	GetTaskAnalytics(ctx context.Context) (TaskAnalyticsResponse, error)
	GetEmployeePerformance(ctx context.Context) (EmployeePerformanceResponse, error)
	GetDashboard(ctx context.Context) (DashboardResponse, error)
}
