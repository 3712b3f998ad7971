package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AnalyticsRepository interface {
	ListTaskFacts(ctx context.Context) ([]TaskFact, error)
	ListActiveEmployeeFacts(ctx context.Context, recentSince time.Time) ([]EmployeeFact, error)
	// SumLedgerForActive sums every ledger amount of active employees.
	SumLedgerForActive(ctx context.Context) (decimal.Decimal, error)
}
