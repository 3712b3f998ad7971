package response

import (
	"errors"
	"net/http"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/analytics"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/archive"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/auth"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/validator"
)

// exposeInternal lets 500 responses carry the underlying error text.
var exposeInternal bool

// ExposeInternalErrors is switched on in development.
func ExposeInternalErrors(on bool) {
	exposeInternal = on
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth / user
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrInvalidRole):
		ValidationError(w, map[string]string{"role": err.Error()})
	case errors.Is(err, user.ErrCannotDeleteSelf),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, employee.ErrForbiddenOtherEmployee):
		Forbidden(w, err.Error())

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists),
		errors.Is(err, employee.ErrStatusConflict):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrLeavingDateWithoutFlag),
		errors.Is(err, employee.ErrInvalidSalary):
		BadRequest(w, err.Error(), nil)

	// Attendance
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidAction),
		errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)

	// Salary
	case errors.Is(err, salary.ErrAlreadyPaid):
		Conflict(w, err.Error())
	case errors.Is(err, salary.ErrRecordNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, salary.ErrInvalidSalaryAmount),
		errors.Is(err, salary.ErrInvalidMonth):
		BadRequest(w, err.Error(), nil)

	// Task
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, task.ErrAssigneeNotFound),
		errors.Is(err, task.ErrNotEmployeeRecord):
		NotFound(w, err.Error())
	case errors.Is(err, task.ErrInvalidStatus),
		errors.Is(err, task.ErrInvalidPriority),
		errors.Is(err, task.ErrNegativePrice):
		BadRequest(w, err.Error(), nil)

	// Archive
	case errors.Is(err, archive.ErrNotMarkedLeaving),
		errors.Is(err, archive.ErrInvalidPerformanceRating):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, archive.ErrPreviousStaffNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, archive.ErrCleanupAlreadyRunning):
		Conflict(w, err.Error())

	// Analytics
	case errors.Is(err, analytics.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	default:
		if exposeInternal {
			InternalServerError(w, err.Error())
			return
		}
		InternalServerError(w, "An unexpected error occurred")
	}
}
