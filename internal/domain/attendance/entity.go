package attendance

import (
	"math"
	"sort"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
)

type Action string

const (
	ActionPunchIn  Action = "punch_in"
	ActionPunchOut Action = "punch_out"
)

func (a Action) IsValid() bool {
	return a == ActionPunchIn || a == ActionPunchOut
}

// RequiredStatus is the status an employee must be in for a to be accepted.
func (a Action) RequiredStatus() employee.AttendanceStatus {
	if a == ActionPunchIn {
		return employee.StatusCheckedOut
	}
	return employee.StatusCheckedIn
}

// ResultingStatus is the status after a is applied.
func (a Action) ResultingStatus() employee.AttendanceStatus {
	if a == ActionPunchIn {
		return employee.StatusCheckedIn
	}
	return employee.StatusCheckedOut
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   *string `json:"address,omitempty"`
}

// Record is an immutable punch event.
type Record struct {
	ID         string
	EmployeeID string
	Action     Action
	Timestamp  time.Time
	IPAddress  *string
	Location   *Location
	Notes      *string
	CreatedAt  time.Time

	// Join
	Employee *employee.Summary
}

type Stats struct {
	TotalEmployees       int64  `json:"totalEmployees"`
	PresentToday         int64  `json:"presentToday"`
	CurrentlyCheckedIn   int64  `json:"currentlyCheckedIn"`
	AttendancePercentage int    `json:"attendancePercentage"`
	Date                 string `json:"date"`
}

// AttendancePercentage returns round(checkedIn/total*100), or 0 when total is 0.
func AttendancePercentage(checkedIn, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(checkedIn) / float64(total) * 100))
}

// Rollup is the daily aggregate written by the backup job.
type Rollup struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	PunchIns      []time.Time
	PunchOuts     []time.Time
	TotalHours    float64
	TotalSessions int
	CreatedAt     time.Time
}

// BuildRollup pairs sorted punch_ins with punch_outs by index. Trailing
// unpaired punches stay in the lists but add nothing to TotalHours.
func BuildRollup(employeeID string, day time.Time, records []Record) Rollup {
	var ins, outs []time.Time
	for _, r := range records {
		switch r.Action {
		case ActionPunchIn:
			ins = append(ins, r.Timestamp)
		case ActionPunchOut:
			outs = append(outs, r.Timestamp)
		}
	}
	sort.Slice(ins, func(i, j int) bool { return ins[i].Before(ins[j]) })
	sort.Slice(outs, func(i, j int) bool { return outs[i].Before(outs[j]) })

	sessions := len(ins)
	if len(outs) < sessions {
		sessions = len(outs)
	}

	var hours float64
	for i := 0; i < sessions; i++ {
		if d := outs[i].Sub(ins[i]); d > 0 {
			hours += d.Hours()
		}
	}

	return Rollup{
		EmployeeID:    employeeID,
		Date:          day,
		PunchIns:      ins,
		PunchOuts:     outs,
		TotalHours:    math.Round(hours*100) / 100,
		TotalSessions: sessions,
	}
}

// StartOfDay returns local midnight of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// RetentionCutoff is yesterday's local midnight. Records strictly before it are pruned.
func RetentionCutoff(now time.Time, loc *time.Location) time.Time {
	return StartOfDay(now, loc).AddDate(0, 0, -1)
}
