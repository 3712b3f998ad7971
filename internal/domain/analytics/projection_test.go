package analytics

import (
	"testing"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func strp(s string) *string { return &s }

func TestBuildRevenueTrends_Periods(t *testing.T) {
	facts := []TaskFact{
		{Status: task.StatusCompleted, Price: price(100), CompletedAt: at("2026-01-05T10:00:00Z")},
		{Status: task.StatusCompleted, Price: price(300), CompletedAt: at("2026-01-06T10:00:00Z")},
		{Status: task.StatusCompleted, Price: price(250), CompletedAt: at("2026-02-01T10:00:00Z")},
		{Status: task.StatusCompleted, Price: price(0), CompletedAt: at("2026-02-01T10:00:00Z")},
		{Status: task.StatusAssigned, Price: price(999)},
		{Status: task.StatusCompleted, Price: nil, CompletedAt: at("2026-02-01T10:00:00Z")},
	}

	tests := []struct {
		name   string
		period Period
		labels []string
	}{
		{"month", PeriodMonth, []string{"Jan 2026", "Feb 2026"}},
		{"week", PeriodWeek, []string{"Week 2, 2026", "Week 5, 2026"}},
		{"day", PeriodDay, []string{"5/1/2026", "6/1/2026", "1/2/2026"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildRevenueTrends(facts, tt.period, time.UTC)

			require.Len(t, got.Trends, len(tt.labels))
			for i, label := range tt.labels {
				assert.Equal(t, label, got.Trends[i].Period)
			}
			assert.Equal(t, tt.period, got.Period)
		})
	}

	monthly := BuildRevenueTrends(facts, PeriodMonth, time.UTC)
	assert.True(t, monthly.Trends[0].Revenue.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 2, monthly.Trends[0].Tasks)
	assert.True(t, monthly.Trends[0].AvgRevenue.Equal(decimal.NewFromInt(200)))
}

func TestBuildRevenueTrends_UsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	facts := []TaskFact{
		{Status: task.StatusCompleted, Price: price(100), CompletedAt: at("2026-01-31T20:00:00Z")},
	}

	got := BuildRevenueTrends(facts, PeriodMonth, kolkata)

	require.Len(t, got.Trends, 1)
	assert.Equal(t, "Feb 2026", got.Trends[0].Period)
}

func TestBuildSalaryDistribution(t *testing.T) {
	emps := []EmployeeFact{
		{Department: "Hair", Salary: decimal.NewFromInt(15000)},
		{Department: "Hair", Salary: decimal.NewFromInt(20000)},
		{Department: "Spa", Salary: decimal.NewFromInt(90000)},
		{Department: "", Salary: decimal.NewFromInt(25001)},
	}

	got := BuildSalaryDistribution(emps, decimal.NewFromInt(5000))

	require.Len(t, got.SalaryRanges, 3)
	assert.Equal(t, "0-20k", got.SalaryRanges[0].Range)
	assert.Equal(t, 1, got.SalaryRanges[0].Count)
	assert.Equal(t, "20k-40k", got.SalaryRanges[1].Range)
	assert.Equal(t, 2, got.SalaryRanges[1].Count)
	assert.Equal(t, "80k+", got.SalaryRanges[2].Range)

	require.Len(t, got.DepartmentSalaries, 3)
	assert.Equal(t, "Hair", got.DepartmentSalaries[0].Department)
	assert.True(t, got.DepartmentSalaries[0].AvgSalary.Equal(decimal.NewFromInt(17500)))
	assert.Equal(t, "Unknown", got.DepartmentSalaries[2].Department)
	assert.Equal(t, 4, got.TotalEmployees)
	assert.True(t, got.TotalSalaryPaid.Equal(decimal.NewFromInt(5000)))
}

func TestCategorize(t *testing.T) {
	tests := map[string]string{
		"Haircut and blow dry": "Hair Services",
		"Bridal makeup":        "Beauty Services",
		"Gel manicure":         "Nail Services",
		"Deep tissue massage":  "Spa Services",
		"Eyebrow threading":    "Eyebrow Services",
		"Consultation":         "Other Services",
	}
	for title, expected := range tests {
		assert.Equal(t, expected, Categorize(title), title)
	}
}

func TestBuildTaskAnalytics(t *testing.T) {
	facts := []TaskFact{
		{Title: "Hair spa", Status: task.StatusCompleted, Priority: task.PriorityHigh, Price: price(500), CompletedAt: at("2026-03-02T10:00:00Z")},
		{Title: "Hair colour", Status: task.StatusAssigned, Priority: task.PriorityLow, Price: price(800)},
		{Title: "Pedicure", Status: task.StatusCompleted, Priority: task.PriorityLow, Price: price(200), CompletedAt: at("2026-04-02T10:00:00Z")},
	}

	got := BuildTaskAnalytics(facts, time.UTC)

	require.Len(t, got.StatusDistribution, 4)
	assert.Equal(t, "assigned", got.StatusDistribution[0].Status)
	assert.Equal(t, 1, got.StatusDistribution[0].Count)
	assert.Equal(t, "completed", got.StatusDistribution[2].Status)
	assert.True(t, got.StatusDistribution[2].TotalValue.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, 0, got.StatusDistribution[3].Count)

	require.Len(t, got.PriorityDistribution, 3)
	assert.Equal(t, PriorityBucket{Priority: "low", Count: 2, Completed: 1}, got.PriorityDistribution[0])

	require.Len(t, got.CategoryAnalysis, 2)
	assert.Equal(t, "Hair Services", got.CategoryAnalysis[0].Category)
	assert.Equal(t, 2, got.CategoryAnalysis[0].Total)
	assert.Equal(t, 1, got.CategoryAnalysis[0].Completed)

	require.Len(t, got.CompletionTrends, 2)
	assert.Equal(t, "Mar 2026", got.CompletionTrends[0].Period)
	assert.Equal(t, "Apr 2026", got.CompletionTrends[1].Period)
}

func TestBuildEmployeePerformance(t *testing.T) {
	facts := []TaskFact{
		{AssignedTo: "a", AssigneeName: strp("Asha"), AssigneeDepartment: strp("Hair"), Status: task.StatusCompleted, Price: price(100)},
		{AssignedTo: "a", AssigneeName: strp("Asha"), AssigneeDepartment: strp("Hair"), Status: task.StatusCompleted, Price: price(300)},
		{AssignedTo: "b", AssigneeName: strp("Bina"), AssigneeDepartment: strp("Spa"), Status: task.StatusCompleted, Price: price(1000)},
		{AssignedTo: "b", AssigneeName: strp("Bina"), AssigneeDepartment: strp("Spa"), Status: task.StatusAssigned, Price: price(1000)},
		{AssignedTo: "gone", AssigneeName: nil, Status: task.StatusCompleted, Price: price(5000)},
	}
	emps := []EmployeeFact{
		{ID: "a", Name: "Asha", RecentPunchIns: 3, TotalPunchIns: 10},
		{ID: "b", Name: "Bina", RecentPunchIns: 7, TotalPunchIns: 7},
	}

	got := BuildEmployeePerformance(facts, emps)

	require.Len(t, got.TopPerformers, 2)
	assert.Equal(t, "Asha", got.TopPerformers[0].EmployeeName)
	assert.Equal(t, 2, got.TopPerformers[0].CompletedTasks)
	assert.True(t, got.TopPerformers[0].AvgRevenuePerTask.Equal(decimal.NewFromInt(200)))

	require.Len(t, got.AttendanceLeaders, 2)
	assert.Equal(t, "b", got.AttendanceLeaders[0].EmployeeID)

	require.Len(t, got.DepartmentPerformance, 2)
	assert.Equal(t, "Spa", got.DepartmentPerformance[0].Department)
	assert.Equal(t, "Hair", got.DepartmentPerformance[1].Department)
	assert.True(t, got.DepartmentPerformance[1].AvgTasksPerEmployee.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, 2, got.TotalEmployees)
}
