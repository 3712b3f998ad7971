package http

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	EmployeeAttendance(w http.ResponseWriter, r *http.Request)
	EmployeeHistory(w http.ResponseWriter, r *http.Request)
	MyAttendance(w http.ResponseWriter, r *http.Request)
	Cleanup(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func attendanceFilterFromQuery(r *http.Request) attendance.AttendanceFilter {
	return attendance.AttendanceFilter{
		EmployeeID: optionalQuery(r, "employeeId"),
		Action:     optionalQuery(r, "action"),
		StartDate:  optionalQuery(r, "startDate"),
		EndDate:    optionalQuery(r, "endDate"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 50),
	}
}

// Punch records a kiosk punch. It is not authenticated.
func (h *attendanceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var req attendance.PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	ip := clientIP(r)
	req.IPAddress = &ip

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.Punch(r.Context(), req)
	if err != nil {
		slog.Warn("Punch rejected", "error", err, "employee_id", req.EmployeeID, "action", req.Action)
		response.HandleError(w, err)
		return
	}

	message := "Employee punch in successful"
	if attendance.Action(req.Action) == attendance.ActionPunchOut {
		message = "Employee punch out successful"
	}
	response.Created(w, message, record)
}

func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendanceFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *attendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.attendanceService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *attendanceHandlerImpl) EmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	filter := attendanceFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetEmployeeAttendance(r.Context(), chi.URLParam(r, "id"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *attendanceHandlerImpl) EmployeeHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MyAttendance resolves the caller's employee record by the email claim.
func (h *attendanceHandlerImpl) MyAttendance(w http.ResponseWriter, r *http.Request) {
	email := getEmailFromContext(r)
	if email == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := attendanceFilterFromQuery(r)
	filter.EmployeeID = nil
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetMyAttendance(r.Context(), email, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Cleanup runs the retention sweep now.
func (h *attendanceHandlerImpl) Cleanup(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Cleanup(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Attendance cleanup triggered manually", "deleted", result.DeletedCount, "by", getUserIDFromContext(r))
	response.SuccessWithMessage(w, "Attendance cleanup completed", result)
}
