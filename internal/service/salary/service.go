package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/realtime"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/database"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/payslip"
)

type SalaryServiceImpl struct {
	tx           database.Transactor
	salaryRepo   salary.SalaryRepository
	employeeRepo employee.EmployeeRepository
	publisher    realtime.Publisher
	salonName    string
	loc          *time.Location
	now          func() time.Time
}

func NewSalaryService(
	tx database.Transactor,
	salaryRepo salary.SalaryRepository,
	employeeRepo employee.EmployeeRepository,
	publisher realtime.Publisher,
	salonName string,
	loc *time.Location,
) salary.SalaryService {
	return &SalaryServiceImpl{
		tx:           tx,
		salaryRepo:   salaryRepo,
		employeeRepo: employeeRepo,
		publisher:    publisher,
		salonName:    salonName,
		loc:          loc,
		now:          time.Now,
	}
}

func employeeInfo(e employee.Employee) salary.EmployeeInfo {
	return salary.EmployeeInfo{
		ID:       e.ID,
		Name:     e.Name,
		Position: e.Position,
		Salary:   e.Salary,
	}
}

// PaySalary implements salary.SalaryService. The read check gives a clean
// error; the unique paid-month index in the store is what actually holds
// under concurrent requests.
func (s *SalaryServiceImpl) PaySalary(ctx context.Context, employeeID string) (salary.PayResponse, error) {
	now := s.now()
	month := salary.MonthKey(now, s.loc)

	var (
		emp    employee.Employee
		record salary.Record
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		emp, err = s.employeeRepo.GetByID(txCtx, employeeID)
		if err != nil {
			return err
		}
		if !emp.Salary.IsPositive() {
			return salary.ErrInvalidSalaryAmount
		}

		paid, err := s.salaryRepo.ExistsPaidForMonth(txCtx, emp.ID, month)
		if err != nil {
			return fmt.Errorf("failed to check salary ledger: %w", err)
		}
		if paid {
			return salary.ErrAlreadyPaid
		}

		record, err = s.salaryRepo.Create(txCtx, salary.Record{
			EmployeeID: emp.ID,
			Amount:     emp.Salary,
			Date:       now,
			Month:      month,
			Status:     salary.StatusPaid,
		})
		if errors.Is(err, salary.ErrAlreadyPaid) {
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to record salary payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return salary.PayResponse{}, err
	}

	slog.Info("salary paid", "employee_id", emp.ID, "month", month, "amount", record.Amount.String())
	s.publisher.Publish(ctx, realtime.NewEvent(
		realtime.EventEmployeeUpdate,
		realtime.TypeEmployeeChange,
		realtime.Change{Action: realtime.ActionUpdated, ID: emp.ID, Data: record},
		realtime.ManagementRooms(),
		now,
	))

	return salary.PayResponse{Employee: employeeInfo(emp), Record: record}, nil
}

// GetHistory implements salary.SalaryService.
func (s *SalaryServiceImpl) GetHistory(ctx context.Context, employeeID string) (salary.HistoryResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return salary.HistoryResponse{}, err
	}

	records, err := s.salaryRepo.ListByEmployee(ctx, emp.ID)
	if err != nil {
		return salary.HistoryResponse{}, fmt.Errorf("failed to list salary history: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })

	resp := salary.HistoryResponse{
		Employee:      employeeInfo(emp),
		SalaryHistory: records,
	}

	month := salary.MonthKey(s.now(), s.loc)
	if emp.Salary.IsPositive() && !salary.HasPaidMonth(records, month) {
		resp.PendingSalary = &salary.PendingSalary{
			Amount: emp.Salary,
			Month:  month,
			Status: salary.StatusPending,
		}
	}
	return resp, nil
}

// GetStats implements salary.SalaryService.
func (s *SalaryServiceImpl) GetStats(ctx context.Context) (salary.StatsResponse, error) {
	month := salary.MonthKey(s.now(), s.loc)

	total, _, err := s.salaryRepo.SumPaid(ctx, &month)
	if err != nil {
		return salary.StatsResponse{}, fmt.Errorf("failed to sum salaries: %w", err)
	}
	paid, err := s.salaryRepo.CountEmployeesPaid(ctx, month)
	if err != nil {
		return salary.StatsResponse{}, fmt.Errorf("failed to count paid employees: %w", err)
	}
	employees, err := s.employeeRepo.CountActive(ctx)
	if err != nil {
		return salary.StatsResponse{}, fmt.Errorf("failed to count employees: %w", err)
	}

	return salary.StatsResponse{
		TotalSalaryGiven: total,
		EmployeesPaid:    paid,
		TotalEmployees:   employees,
		CurrentMonth:     month,
	}, nil
}

// GeneratePayslip implements salary.SalaryService.
func (s *SalaryServiceImpl) GeneratePayslip(ctx context.Context, req salary.PayslipRequest) (salary.PayslipFile, error) {
	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return salary.PayslipFile{}, err
	}
	record, err := s.salaryRepo.GetPaidForMonth(ctx, emp.ID, req.Month)
	if err != nil {
		return salary.PayslipFile{}, err
	}

	now := s.now()
	content, err := payslip.Render(payslip.Data{
		SalonName:    s.salonName,
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Email:        emp.Email,
		Position:     emp.Position,
		Department:   emp.Department,
		Month:        record.Month,
		Amount:       record.Amount,
		PaidAt:       record.Date.In(s.loc),
		RecordID:     record.ID,
		GeneratedAt:  now.In(s.loc),
	})
	if err != nil {
		return salary.PayslipFile{}, fmt.Errorf("failed to render payslip: %w", err)
	}

	return salary.PayslipFile{
		FileName:    payslip.FileName(emp.Name, record.Month),
		ContentType: payslip.ContentType,
		Content:     content,
		GeneratedAt: now,
	}, nil
}
