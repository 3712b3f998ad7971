package payslip

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ProducesPDF(t *testing.T) {
	// Setup
	d := Data{
		SalonName:    "Parlour",
		EmployeeID:   "emp-1",
		EmployeeName: "Asha Rao",
		Email:        "asha@example.com",
		Position:     "Stylist",
		Department:   "Hair",
		Month:        "2026-10",
		Amount:       decimal.NewFromInt(500),
		PaidAt:       time.Date(2026, 10, 5, 10, 0, 0, 0, time.UTC),
		RecordID:     "rec-1",
		GeneratedAt:  time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
	}

	// Act
	out, err := Render(d)

	// Assert
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Asha Rao", "payslip_Asha_Rao_2026-10.pdf"},
		{"strips symbols", "O'Neil/Ann", "payslip_ONeilAnn_2026-10.pdf"},
		{"empty", "", "payslip_employee_2026-10.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.input, "2026-10"))
		})
	}
}
