package payroll

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes money amounts on the payslip.
const CurrencySymbol = "R"

func money(v decimal.Decimal) string {
	return CurrencySymbol + v.StringFixed(2)
}

// RenderPayslip writes rec as a single-page A4 PDF.
func RenderPayslip(w io.Writer, rec Record, issued time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+rec.EmployeeCode, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "PAYSLIP", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee Name: %s", rec.Name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee Code: %s", rec.EmployeeCode))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Position: %s", rec.Position))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Department: %s", rec.Department))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "BU", 12)
	pdf.Cell(0, 8, "Payment Details:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Basic Salary: %s", money(rec.FinalSalary)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Hours Worked: %s", rec.HoursWorked.String()))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Leave Deductions: %s", money(rec.LeaveDeductions)))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, "Generated on: "+issued.Format("2006-01-02"), "", 1, "R", false, 0, "")

	return pdf.Output(w)
}
