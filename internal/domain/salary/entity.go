package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordStatus string

const (
	StatusPending RecordStatus = "pending"
	StatusPaid    RecordStatus = "paid"
)

func (s RecordStatus) IsValid() bool {
	return s == StatusPending || s == StatusPaid
}

// MonthLayout is the ledger month key format.
const MonthLayout = "2006-01"

// Record is one ledger entry. At most one paid record exists per (employee, month).
type Record struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Month      string          `json:"month"`
	Status     RecordStatus    `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// MonthKey formats t as YYYY-MM in loc.
func MonthKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(MonthLayout)
}

type Totals struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	PaidIncome    decimal.Decimal `json:"paidIncome"`
	PendingIncome decimal.Decimal `json:"pendingIncome"`
}

// ComputeTotals sums the ledger by status.
func ComputeTotals(records []Record) Totals {
	t := Totals{
		TotalIncome:   decimal.Zero,
		PaidIncome:    decimal.Zero,
		PendingIncome: decimal.Zero,
	}
	for _, r := range records {
		t.TotalIncome = t.TotalIncome.Add(r.Amount)
		switch r.Status {
		case StatusPaid:
			t.PaidIncome = t.PaidIncome.Add(r.Amount)
		case StatusPending:
			t.PendingIncome = t.PendingIncome.Add(r.Amount)
		}
	}
	return t
}

// HasPaidMonth reports whether records already hold a paid entry for month.
func HasPaidMonth(records []Record, month string) bool {
	for _, r := range records {
		if r.Month == month && r.Status == StatusPaid {
			return true
		}
	}
	return false
}
