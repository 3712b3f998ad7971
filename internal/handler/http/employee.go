package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/archive"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	MarkAsLeaving(w http.ResponseWriter, r *http.Request)
	UpdateSalary(w http.ResponseWriter, r *http.Request)
	MoveToPreviousStaff(w http.ResponseWriter, r *http.Request)
	CleanupLeftEmployees(w http.ResponseWriter, r *http.Request)
	ListPreviousStaff(w http.ResponseWriter, r *http.Request)
	GetPreviousStaff(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
	archiveService  archive.ArchiveService
}

func NewEmployeeHandler(employeeService employee.EmployeeService, archiveService archive.ArchiveService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
		archiveService:  archiveService,
	}
}

// decodeOptionalJSON accepts an empty body.
func decodeOptionalJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// ListEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{
		Search:     optionalQuery(r, "search"),
		Department: optionalQuery(r, "department"),
		Status:     optionalQuery(r, "status"),
		IsActive:   optionalBoolQuery(r, "isActive"),
		IsLeaving:  optionalBoolQuery(r, "isLeaving"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 20),
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

// UpdateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// DeleteEmployee archives the employee before removing it.
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.archiveService.DeleteEmployee(r.Context(), id)
	if err != nil {
		slog.Error("DeleteEmployee failed", "error", err, "employee_id", id)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee archived and deleted successfully", result)
}

// MarkAsLeaving implements EmployeeHandler
func (h *employeeHandlerImpl) MarkAsLeaving(w http.ResponseWriter, r *http.Request) {
	var req employee.MarkLeavingRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.MarkAsLeaving(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee marked as leaving", result)
}

// UpdateSalary implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateSalary(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.UpdateSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee salary updated successfully", result)
}

// MoveToPreviousStaff implements EmployeeHandler
func (h *employeeHandlerImpl) MoveToPreviousStaff(w http.ResponseWriter, r *http.Request) {
	var req archive.MoveToPreviousStaffRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.archiveService.MoveToPreviousStaff(r.Context(), req)
	if err != nil {
		slog.Error("MoveToPreviousStaff failed", "error", err, "employee_id", req.EmployeeID)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee moved to previous staff successfully", result)
}

// CleanupLeftEmployees runs the departure sweep now.
func (h *employeeHandlerImpl) CleanupLeftEmployees(w http.ResponseWriter, r *http.Request) {
	result, err := h.archiveService.CleanupLeftEmployees(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Left employees cleanup completed", result)
}

// ListPreviousStaff implements EmployeeHandler
func (h *employeeHandlerImpl) ListPreviousStaff(w http.ResponseWriter, r *http.Request) {
	page := getIntQueryParam(r, "page", 1)
	limit := getIntQueryParam(r, "limit", 20)

	result, err := h.archiveService.ListPreviousStaff(r.Context(), page, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPreviousStaff implements EmployeeHandler
func (h *employeeHandlerImpl) GetPreviousStaff(w http.ResponseWriter, r *http.Request) {
	result, err := h.archiveService.GetPreviousStaff(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
