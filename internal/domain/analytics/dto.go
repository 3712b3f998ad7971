package analytics

import "github.com/shopspring/decimal"

type RevenuePoint struct {
	Period     string          `json:"period"`
	Revenue    decimal.Decimal `json:"revenue"`
	Tasks      int             `json:"tasks"`
	AvgRevenue decimal.Decimal `json:"avgRevenue"`
}

type RevenueTrendsResponse struct {
	Trends []RevenuePoint `json:"trends"`
	Period Period         `json:"period"`
}

type SalaryRange struct {
	Range       string          `json:"range"`
	Count       int             `json:"count"`
	TotalSalary decimal.Decimal `json:"totalSalary"`
}

type DepartmentSalary struct {
	Department    string          `json:"department"`
	EmployeeCount int             `json:"employeeCount"`
	TotalSalary   decimal.Decimal `json:"totalSalary"`
	AvgSalary     decimal.Decimal `json:"avgSalary"`
}

type SalaryDistributionResponse struct {
	SalaryRanges       []SalaryRange      `json:"salaryRanges"`
	DepartmentSalaries []DepartmentSalary `json:"departmentSalaries"`
	TotalSalaryPaid    decimal.Decimal    `json:"totalSalaryPaid"`
	TotalEmployees     int                `json:"totalEmployees"`
}

type StatusBucket struct {
	Status     string          `json:"status"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

type PriorityBucket struct {
	Priority  string `json:"priority"`
	Count     int    `json:"count"`
	Completed int    `json:"completed"`
}

type CategoryBucket struct {
	Category  string          `json:"category"`
	Total     int             `json:"total"`
	Completed int             `json:"completed"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type CompletionPoint struct {
	Period    string          `json:"period"`
	Completed int             `json:"completed"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type TaskAnalyticsResponse struct {
	StatusDistribution   []StatusBucket    `json:"statusDistribution"`
	PriorityDistribution []PriorityBucket  `json:"priorityDistribution"`
	CategoryAnalysis     []CategoryBucket  `json:"categoryAnalysis"`
	CompletionTrends     []CompletionPoint `json:"completionTrends"`
}

type Performer struct {
	EmployeeID         string          `json:"employeeId"`
	EmployeeName       string          `json:"employeeName"`
	EmployeePosition   string          `json:"employeePosition"`
	EmployeeDepartment string          `json:"employeeDepartment"`
	CompletedTasks     int             `json:"completedTasks"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	AvgRevenuePerTask  decimal.Decimal `json:"avgRevenuePerTask"`
}

type AttendanceLeader struct {
	EmployeeID       string `json:"employeeId"`
	Name             string `json:"name"`
	Position         string `json:"position"`
	Department       string `json:"department"`
	CurrentStatus    string `json:"currentStatus"`
	TotalPunchIns    int64  `json:"totalPunchIns"`
	RecentAttendance int64  `json:"recentAttendance"`
}

type DepartmentPerformance struct {
	Department            string          `json:"department"`
	CompletedTasks        int             `json:"completedTasks"`
	TotalRevenue          decimal.Decimal `json:"totalRevenue"`
	EmployeeCount         int             `json:"employeeCount"`
	AvgTasksPerEmployee   decimal.Decimal `json:"avgTasksPerEmployee"`
	AvgRevenuePerEmployee decimal.Decimal `json:"avgRevenuePerEmployee"`
}

type EmployeePerformanceResponse struct {
	TopPerformers         []Performer             `json:"topPerformers"`
	AttendanceLeaders     []AttendanceLeader      `json:"attendanceLeaders"`
	DepartmentPerformance []DepartmentPerformance `json:"departmentPerformance"`
	TotalEmployees        int                     `json:"totalEmployees"`
}

type DashboardResponse struct {
	RevenueTrends       RevenueTrendsResponse       `json:"revenueTrends"`
	SalaryDistribution  SalaryDistributionResponse  `json:"salaryDistribution"`
	TaskAnalytics       TaskAnalyticsResponse       `json:"taskAnalytics"`
	EmployeePerformance EmployeePerformanceResponse `json:"employeePerformance"`
}
