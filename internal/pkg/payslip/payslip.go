package payslip

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const ContentType = "application/pdf"

// Data is everything printed on one monthly payslip.
type Data struct {
	SalonName    string
	EmployeeID   string
	EmployeeName string
	Email        string
	Position     string
	Department   string
	Month        string
	Amount       decimal.Decimal
	PaidAt       time.Time
	RecordID     string
	GeneratedAt  time.Time
}

// Render draws the payslip as an A4 PDF.
func Render(d Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s %s", d.EmployeeName, d.Month), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, d.SalonName)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Payslip for "+d.Month)
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	rows := [][2]string{
		{"Employee", d.EmployeeName},
		{"Employee ID", d.EmployeeID},
		{"Email", d.Email},
		{"Position", d.Position},
		{"Department", d.Department},
		{"Paid on", d.PaidAt.Format("2006-01-02 15:04")},
		{"Reference", d.RecordID},
	}
	for _, row := range rows {
		pdf.CellFormat(50, 8, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(50, 10, "Net pay", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, d.Amount.StringFixed(2), "T", 1, "L", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Generated "+d.GeneratedAt.Format(time.RFC1123))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName is the download name for a payslip.
func FileName(employeeName, month string) string {
	name := []rune{}
	for _, r := range employeeName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			name = append(name, r)
		case r == ' ' || r == '-' || r == '_':
			name = append(name, '_')
		}
	}
	if len(name) == 0 {
		name = []rune("employee")
	}
	return fmt.Sprintf("payslip_%s_%s.pdf", string(name), month)
}
