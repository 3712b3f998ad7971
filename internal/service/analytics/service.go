package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/analytics"
	"golang.org/x/sync/errgroup"
)

type AnalyticsServiceImpl struct {
	analyticsRepo analytics.AnalyticsRepository
	loc           *time.Location
	now           func() time.Time
}

func NewAnalyticsService(analyticsRepo analytics.AnalyticsRepository, loc *time.Location) analytics.AnalyticsService {
	return &AnalyticsServiceImpl{
		analyticsRepo: analyticsRepo,
		loc:           loc,
		now:           time.Now,
	}
}

// GetRevenueTrends implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) GetRevenueTrends(ctx context.Context, period analytics.Period) (analytics.RevenueTrendsResponse, error) {
	if period == "" {
		period = analytics.PeriodMonth
	}
	if !period.IsValid() {
		return analytics.RevenueTrendsResponse{}, analytics.ErrInvalidPeriod
	}
	facts, err := s.analyticsRepo.ListTaskFacts(ctx)
	if err != nil {
		return analytics.RevenueTrendsResponse{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	return analytics.BuildRevenueTrends(facts, period, s.loc), nil
}

// GetSalaryDistribution implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) GetSalaryDistribution(ctx context.Context) (analytics.SalaryDistributionResponse, error) {
	emps, err := s.analyticsRepo.ListActiveEmployeeFacts(ctx, s.now().Add(-analytics.RecentWindow))
	if err != nil {
		return analytics.SalaryDistributionResponse{}, fmt.Errorf("failed to load employees: %w", err)
	}
	paid, err := s.analyticsRepo.SumLedgerForActive(ctx)
	if err != nil {
		return analytics.SalaryDistributionResponse{}, fmt.Errorf("failed to sum salary ledger: %w", err)
	}
	return analytics.BuildSalaryDistribution(emps, paid), nil
}

// GetTaskAnalytics implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) GetTaskAnalytics(ctx context.Context) (analytics.TaskAnalyticsResponse, error) {
	facts, err := s.analyticsRepo.ListTaskFacts(ctx)
	if err != nil {
		return analytics.TaskAnalyticsResponse{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	return analytics.BuildTaskAnalytics(facts, s.loc), nil
}

// GetEmployeePerformance implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) GetEmployeePerformance(ctx context.Context) (analytics.EmployeePerformanceResponse, error) {
	facts, err := s.analyticsRepo.ListTaskFacts(ctx)
	if err != nil {
		return analytics.EmployeePerformanceResponse{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	emps, err := s.analyticsRepo.ListActiveEmployeeFacts(ctx, s.now().Add(-analytics.RecentWindow))
	if err != nil {
		return analytics.EmployeePerformanceResponse{}, fmt.Errorf("failed to load employees: %w", err)
	}
	return analytics.BuildEmployeePerformance(facts, emps), nil
}

// GetDashboard implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) GetDashboard(ctx context.Context) (analytics.DashboardResponse, error) {
	var resp analytics.DashboardResponse

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		trends, err := s.GetRevenueTrends(gCtx, analytics.PeriodMonth)
		resp.RevenueTrends = trends
		return err
	})

	g.Go(func() error {
		dist, err := s.GetSalaryDistribution(gCtx)
		resp.SalaryDistribution = dist
		return err
	})

	g.Go(func() error {
		tasks, err := s.GetTaskAnalytics(gCtx)
		resp.TaskAnalytics = tasks
		return err
	})

	g.Go(func() error {
		perf, err := s.GetEmployeePerformance(gCtx)
		resp.EmployeePerformance = perf
		return err
	})

	if err := g.Wait(); err != nil {
		return analytics.DashboardResponse{}, err
	}
	return resp, nil
}
