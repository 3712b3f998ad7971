package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
	"github.com/parlour-hq/parlour-backend-go/internal/handler/http/response"
)

type SalaryHandler interface {
	Stats(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Pay(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService   salary.SalaryService
	employeeService employee.EmployeeService
}

func NewSalaryHandler(salaryService salary.SalaryService, employeeService employee.EmployeeService) SalaryHandler {
	return &salaryHandlerImpl{
		salaryService:   salaryService,
		employeeService: employeeService,
	}
}

// authorizeOwnRecords restricts employee-role callers to their own employee record.
func (h *salaryHandlerImpl) authorizeOwnRecords(r *http.Request, employeeID string) error {
	if getRoleFromContext(r) != user.RoleEmployee {
		return nil
	}
	emp, err := h.employeeService.GetEmployee(r.Context(), employeeID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(emp.Email, getEmailFromContext(r)) {
		return employee.ErrForbiddenOtherEmployee
	}
	return nil
}

func (h *salaryHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	if err := h.authorizeOwnRecords(r, employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.GetHistory(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) Pay(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")

	result, err := h.salaryService.PaySalary(r.Context(), employeeID)
	if err != nil {
		slog.Warn("Salary payment rejected", "error", err, "employee_id", employeeID)
		response.HandleError(w, err)
		return
	}

	slog.Info("Salary paid", "employee_id", employeeID, "month", result.Record.Month, "by", getUserIDFromContext(r))
	response.SuccessWithMessage(w, "Salary paid successfully", result)
}

// Payslip streams the PDF payslip for a paid month.
func (h *salaryHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	req := salary.PayslipRequest{
		EmployeeID: chi.URLParam(r, "employeeId"),
		Month:      r.URL.Query().Get("month"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if err := h.authorizeOwnRecords(r, req.EmployeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.salaryService.GeneratePayslip(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		slog.Error("Payslip write error", "error", err, "employee_id", req.EmployeeID)
	}
}
