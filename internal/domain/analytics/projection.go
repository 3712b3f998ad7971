package analytics

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
	"github.com/shopspring/decimal"
)

func priceOf(f TaskFact) decimal.Decimal {
	if f.Price == nil {
		return decimal.Zero
	}
	return *f.Price
}

type bucketKey struct {
	year, month, day, week int
}

func (k bucketKey) less(o bucketKey) bool {
	if k.year != o.year {
		return k.year < o.year
	}
	if k.month != o.month {
		return k.month < o.month
	}
	if k.week != o.week {
		return k.week < o.week
	}
	return k.day < o.day
}

func keyFor(t time.Time, period Period) bucketKey {
	switch period {
	case PeriodDay:
		return bucketKey{year: t.Year(), month: int(t.Month()), day: t.Day()}
	case PeriodWeek:
		y, w := t.ISOWeek()
		return bucketKey{year: y, week: w}
	default:
		return bucketKey{year: t.Year(), month: int(t.Month())}
	}
}

func labelFor(k bucketKey, period Period) string {
	switch period {
	case PeriodDay:
		return fmt.Sprintf("%d/%d/%d", k.day, k.month, k.year)
	case PeriodWeek:
		return fmt.Sprintf("Week %d, %d", k.week, k.year)
	default:
		return fmt.Sprintf("%s %d", time.Month(k.month).String()[:3], k.year)
	}
}

type revenueAcc struct {
	revenue decimal.Decimal
	tasks   int
}

// BuildRevenueTrends groups completed, priced tasks by completion period in
// loc, oldest first.
func BuildRevenueTrends(facts []TaskFact, period Period, loc *time.Location) RevenueTrendsResponse {
	acc := map[bucketKey]*revenueAcc{}
	for _, f := range facts {
		if f.Status != task.StatusCompleted || f.CompletedAt == nil || f.Price == nil || !f.Price.IsPositive() {
			continue
		}
		k := keyFor(f.CompletedAt.In(loc), period)
		a, ok := acc[k]
		if !ok {
			a = &revenueAcc{}
			acc[k] = a
		}
		a.revenue = a.revenue.Add(*f.Price)
		a.tasks++
	}

	keys := make([]bucketKey, 0, len(acc))
	for k := range acc {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	trends := make([]RevenuePoint, 0, len(keys))
	for _, k := range keys {
		a := acc[k]
		trends = append(trends, RevenuePoint{
			Period:     labelFor(k, period),
			Revenue:    a.revenue,
			Tasks:      a.tasks,
			AvgRevenue: a.revenue.Div(decimal.NewFromInt(int64(a.tasks))).Round(2),
		})
	}
	return RevenueTrendsResponse{Trends: trends, Period: period}
}

var salaryBands = []struct {
	label    string
	min, max int64 // max < 0 means unbounded
}{
	{"0-20k", 0, 20000},
	{"20k-40k", 20000, 40000},
	{"40k-60k", 40000, 60000},
	{"60k-80k", 60000, 80000},
	{"80k+", 80000, -1},
}

// BuildSalaryDistribution buckets active employees by current salary and
// department. Empty bands are omitted.
func BuildSalaryDistribution(emps []EmployeeFact, totalPaid decimal.Decimal) SalaryDistributionResponse {
	ranges := make([]SalaryRange, len(salaryBands))
	for i, b := range salaryBands {
		ranges[i] = SalaryRange{Range: b.label, TotalSalary: decimal.Zero}
	}

	var deptOrder []string
	depts := map[string]*DepartmentSalary{}

	for _, e := range emps {
		for i, b := range salaryBands {
			if e.Salary.LessThan(decimal.NewFromInt(b.min)) {
				continue
			}
			if b.max >= 0 && !e.Salary.LessThan(decimal.NewFromInt(b.max)) {
				continue
			}
			ranges[i].Count++
			ranges[i].TotalSalary = ranges[i].TotalSalary.Add(e.Salary)
			break
		}

		dept := e.Department
		if dept == "" {
			dept = "Unknown"
		}
		d, ok := depts[dept]
		if !ok {
			d = &DepartmentSalary{Department: dept, TotalSalary: decimal.Zero}
			depts[dept] = d
			deptOrder = append(deptOrder, dept)
		}
		d.EmployeeCount++
		d.TotalSalary = d.TotalSalary.Add(e.Salary)
	}

	nonEmpty := make([]SalaryRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Count > 0 {
			nonEmpty = append(nonEmpty, r)
		}
	}

	deptOut := make([]DepartmentSalary, 0, len(deptOrder))
	for _, name := range deptOrder {
		d := depts[name]
		d.AvgSalary = d.TotalSalary.Div(decimal.NewFromInt(int64(d.EmployeeCount))).Round(0)
		deptOut = append(deptOut, *d)
	}

	return SalaryDistributionResponse{
		SalaryRanges:       nonEmpty,
		DepartmentSalaries: deptOut,
		TotalSalaryPaid:    totalPaid,
		TotalEmployees:     len(emps),
	}
}

var categoryRules = []struct {
	name string
	re   *regexp.Regexp
}{
	{"Hair Services", regexp.MustCompile(`(?i)hair|styling|cut|color`)},
	{"Beauty Services", regexp.MustCompile(`(?i)makeup|facial|beauty`)},
	{"Nail Services", regexp.MustCompile(`(?i)manicure|pedicure|nail`)},
	{"Spa Services", regexp.MustCompile(`(?i)massage|spa|treatment`)},
	{"Eyebrow Services", regexp.MustCompile(`(?i)eyebrow|threading`)},
}

// Categorize maps a task title to a service category. First match wins.
func Categorize(title string) string {
	for _, r := range categoryRules {
		if r.re.MatchString(title) {
			return r.name
		}
	}
	return "Other Services"
}

func BuildTaskAnalytics(facts []TaskFact, loc *time.Location) TaskAnalyticsResponse {
	statuses := []task.Status{task.StatusAssigned, task.StatusInProgress, task.StatusCompleted, task.StatusCancelled}
	statusIdx := map[task.Status]*StatusBucket{}
	statusOut := make([]StatusBucket, len(statuses))
	for i, s := range statuses {
		statusOut[i] = StatusBucket{Status: string(s), TotalValue: decimal.Zero}
		statusIdx[s] = &statusOut[i]
	}

	priorities := []task.Priority{task.PriorityLow, task.PriorityMedium, task.PriorityHigh}
	prioIdx := map[task.Priority]*PriorityBucket{}
	prioOut := make([]PriorityBucket, len(priorities))
	for i, p := range priorities {
		prioOut[i] = PriorityBucket{Priority: string(p)}
		prioIdx[p] = &prioOut[i]
	}

	cats := map[string]*CategoryBucket{}
	completion := map[bucketKey]*revenueAcc{}

	for _, f := range facts {
		price := priceOf(f)
		done := f.Status == task.StatusCompleted

		if b, ok := statusIdx[f.Status]; ok {
			b.Count++
			b.TotalValue = b.TotalValue.Add(price)
		}
		if b, ok := prioIdx[f.Priority]; ok {
			b.Count++
			if done {
				b.Completed++
			}
		}

		name := Categorize(f.Title)
		c, ok := cats[name]
		if !ok {
			c = &CategoryBucket{Category: name, Revenue: decimal.Zero}
			cats[name] = c
		}
		c.Total++
		if done {
			c.Completed++
			c.Revenue = c.Revenue.Add(price)
		}

		if done && f.CompletedAt != nil {
			k := keyFor(f.CompletedAt.In(loc), PeriodMonth)
			a, ok := completion[k]
			if !ok {
				a = &revenueAcc{}
				completion[k] = a
			}
			a.tasks++
			a.revenue = a.revenue.Add(price)
		}
	}

	catOut := make([]CategoryBucket, 0, len(cats))
	for _, c := range cats {
		catOut = append(catOut, *c)
	}
	sort.Slice(catOut, func(i, j int) bool {
		if catOut[i].Total != catOut[j].Total {
			return catOut[i].Total > catOut[j].Total
		}
		return catOut[i].Category < catOut[j].Category
	})

	keys := make([]bucketKey, 0, len(completion))
	for k := range completion {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	trends := make([]CompletionPoint, 0, len(keys))
	for _, k := range keys {
		trends = append(trends, CompletionPoint{
			Period:    labelFor(k, PeriodMonth),
			Completed: completion[k].tasks,
			Revenue:   completion[k].revenue,
		})
	}

	return TaskAnalyticsResponse{
		StatusDistribution:   statusOut,
		PriorityDistribution: prioOut,
		CategoryAnalysis:     catOut,
		CompletionTrends:     trends,
	}
}

const leaderboardSize = 10

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// BuildEmployeePerformance ranks assignees by completed tasks. Tasks whose
// assignee no longer exists are left out.
func BuildEmployeePerformance(facts []TaskFact, emps []EmployeeFact) EmployeePerformanceResponse {
	performers := map[string]*Performer{}
	type deptAcc struct {
		tasks     int
		revenue   decimal.Decimal
		employees map[string]struct{}
	}
	depts := map[string]*deptAcc{}

	for _, f := range facts {
		if f.Status != task.StatusCompleted || f.AssigneeName == nil {
			continue
		}
		price := priceOf(f)

		p, ok := performers[f.AssignedTo]
		if !ok {
			p = &Performer{
				EmployeeID:         f.AssignedTo,
				EmployeeName:       *f.AssigneeName,
				EmployeePosition:   deref(f.AssigneePosition),
				EmployeeDepartment: deref(f.AssigneeDepartment),
				TotalRevenue:       decimal.Zero,
			}
			performers[f.AssignedTo] = p
		}
		p.CompletedTasks++
		p.TotalRevenue = p.TotalRevenue.Add(price)

		dept := deref(f.AssigneeDepartment)
		d, ok := depts[dept]
		if !ok {
			d = &deptAcc{revenue: decimal.Zero, employees: map[string]struct{}{}}
			depts[dept] = d
		}
		d.tasks++
		d.revenue = d.revenue.Add(price)
		d.employees[f.AssignedTo] = struct{}{}
	}

	top := make([]Performer, 0, len(performers))
	for _, p := range performers {
		p.AvgRevenuePerTask = p.TotalRevenue.Div(decimal.NewFromInt(int64(p.CompletedTasks))).Round(2)
		top = append(top, *p)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].CompletedTasks != top[j].CompletedTasks {
			return top[i].CompletedTasks > top[j].CompletedTasks
		}
		return top[i].EmployeeName < top[j].EmployeeName
	})
	if len(top) > leaderboardSize {
		top = top[:leaderboardSize]
	}

	leaders := make([]AttendanceLeader, 0, len(emps))
	for _, e := range emps {
		leaders = append(leaders, AttendanceLeader{
			EmployeeID:       e.ID,
			Name:             e.Name,
			Position:         e.Position,
			Department:       e.Department,
			CurrentStatus:    e.CurrentStatus,
			TotalPunchIns:    e.TotalPunchIns,
			RecentAttendance: e.RecentPunchIns,
		})
	}
	sort.SliceStable(leaders, func(i, j int) bool {
		return leaders[i].RecentAttendance > leaders[j].RecentAttendance
	})
	if len(leaders) > leaderboardSize {
		leaders = leaders[:leaderboardSize]
	}

	deptOut := make([]DepartmentPerformance, 0, len(depts))
	for name, d := range depts {
		n := decimal.NewFromInt(int64(len(d.employees)))
		deptOut = append(deptOut, DepartmentPerformance{
			Department:            name,
			CompletedTasks:        d.tasks,
			TotalRevenue:          d.revenue,
			EmployeeCount:         len(d.employees),
			AvgTasksPerEmployee:   decimal.NewFromInt(int64(d.tasks)).Div(n).Round(2),
			AvgRevenuePerEmployee: d.revenue.Div(n).Round(2),
		})
	}
	sort.Slice(deptOut, func(i, j int) bool {
		if !deptOut[i].TotalRevenue.Equal(deptOut[j].TotalRevenue) {
			return deptOut[i].TotalRevenue.GreaterThan(deptOut[j].TotalRevenue)
		}
		return deptOut[i].Department < deptOut[j].Department
	})

	return EmployeePerformanceResponse{
		TopPerformers:         top,
		AttendanceLeaders:     leaders,
		DepartmentPerformance: deptOut,
		TotalEmployees:        len(emps),
	}
}
