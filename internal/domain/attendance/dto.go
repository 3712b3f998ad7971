package attendance

import (
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/validator"
)

type PunchRequest struct {
	EmployeeID string    `json:"employeeId"`
	Action     string    `json:"action"`
	Notes      *string   `json:"notes,omitempty"`
	Location   *Location `json:"location,omitempty"`
	IPAddress  *string   `json:"-"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employeeId", "employeeId is required")
	}
	if validator.IsEmpty(r.Action) {
		errs.Add("action", "action is required")
	} else if !Action(r.Action).IsValid() {
		errs.Add("action", "action must be punch_in or punch_out")
	}
	if r.Location != nil {
		if r.Location.Latitude < -90 || r.Location.Latitude > 90 {
			errs.Add("location.latitude", "latitude must be between -90 and 90")
		}
		if r.Location.Longitude < -180 || r.Location.Longitude > 180 {
			errs.Add("location.longitude", "longitude must be between -180 and 180")
		}
	}

	return errs.Err()
}

type AttendanceFilter struct {
	EmployeeID *string
	Action     *string
	StartDate  *string
	EndDate    *string
	Page       int
	Limit      int

	// Parsed by Validate
	From *time.Time
	To   *time.Time
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		errs.Add("limit", "limit must not exceed 200")
	}
	if f.Action != nil && *f.Action != "" && !Action(*f.Action).IsValid() {
		errs.Add("action", "action must be punch_in or punch_out")
	}
	if f.StartDate != nil && *f.StartDate != "" {
		t, ok := validator.ParseDateOrDateTime(*f.StartDate)
		if !ok {
			errs.Add("startDate", "startDate must be YYYY-MM-DD or RFC3339")
		} else {
			f.From = &t
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		t, ok := validator.ParseDateOrDateTime(*f.EndDate)
		if !ok {
			errs.Add("endDate", "endDate must be YYYY-MM-DD or RFC3339")
		} else {
			// a bare date means the whole day
			if _, isDate := validator.IsValidDate(*f.EndDate); isDate {
				t = t.AddDate(0, 0, 1)
			}
			f.To = &t
		}
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		errs.Add("startDate", ErrInvalidDateRange.Error())
	}

	return errs.Err()
}

type RecordResponse struct {
	ID         string            `json:"id"`
	EmployeeID string            `json:"employeeId"`
	Employee   *employee.Summary `json:"employee,omitempty"`
	Action     string            `json:"action"`
	Timestamp  time.Time         `json:"timestamp"`
	IPAddress  *string           `json:"ipAddress,omitempty"`
	Location   *Location         `json:"location,omitempty"`
	Notes      *string           `json:"notes,omitempty"`
}

func NewRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Employee:   r.Employee,
		Action:     string(r.Action),
		Timestamp:  r.Timestamp,
		IPAddress:  r.IPAddress,
		Location:   r.Location,
		Notes:      r.Notes,
	}
}

func NewRecordResponses(records []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewRecordResponse(r))
	}
	return out
}

type ListAttendanceResponse struct {
	Records    []RecordResponse `json:"records"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

type TodaySummary struct {
	TotalPunchIns   int `json:"totalPunchIns"`
	TotalPunchOuts  int `json:"totalPunchOuts"`
	UniqueEmployees int `json:"uniqueEmployees"`
}

type TodayResponse struct {
	Date    string           `json:"date"`
	Records []RecordResponse `json:"records"`
	Summary TodaySummary     `json:"summary"`
}

type RollupResponse struct {
	Date          string      `json:"date"`
	PunchIns      []time.Time `json:"punchIns"`
	PunchOuts     []time.Time `json:"punchOuts"`
	TotalHours    float64     `json:"totalHours"`
	TotalSessions int         `json:"totalSessions"`
}

func NewRollupResponse(r Rollup) RollupResponse {
	return RollupResponse{
		Date:          r.Date.Format("2006-01-02"),
		PunchIns:      r.PunchIns,
		PunchOuts:     r.PunchOuts,
		TotalHours:    r.TotalHours,
		TotalSessions: r.TotalSessions,
	}
}

type RollupResult struct {
	Date               string   `json:"date"`
	EmployeesProcessed int      `json:"employeesProcessed"`
	FailedEmployees    []string `json:"failedEmployees,omitempty"`
}

type CleanupResponse struct {
	DeletedCount int64     `json:"deletedCount"`
	Cutoff       time.Time `json:"cutoff"`
}
