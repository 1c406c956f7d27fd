package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePayslipPDF renders a computed payslip as a PDF document to w.
// The document is built from the in-memory payslip only; nothing is
// stored. Amounts are rounded to two decimals for display here, after
// all totals were computed in full precision.
func WritePayslipPDF(w io.Writer, slip Payslip) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", slip.EmployeeName, slip.EmploymentNumber))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s", slip.PeriodLabel))
	pdf.Ln(6)
	if slip.Paid && slip.PaidAt != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Paid on: %s", slip.PaidAt.Format("2006-01-02")))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	for _, section := range slip.Computed.Sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, section.Title)
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 10)
		for _, item := range section.Items {
			switch {
			case item.Note:
				pdf.Cell(100, 6, "  "+item.Label)
			case item.DebitPercent != nil:
				pdf.Cell(100, 6, item.Label)
				pdf.Cell(25, 6, fmt.Sprintf("%.2f%%", *item.DebitPercent))
				pdf.Cell(40, 6, fmt.Sprintf("-%.2f", item.DebitAmount))
			case item.Percent != nil:
				pdf.Cell(100, 6, item.Label)
				pdf.Cell(25, 6, fmt.Sprintf("%.2f%%", *item.Percent))
				pdf.Cell(40, 6, fmt.Sprintf("%.2f", item.CreditAmount))
			default:
				pdf.Cell(100, 6, item.Label)
			}
			if item.Remark != "" {
				pdf.Cell(0, 6, item.Remark)
			}
			pdf.Ln(6)
		}

		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(100, 6, "Subtotal")
		pdf.Cell(25, 6, fmt.Sprintf("%.2f%%", section.SubtotalPercent))
		pdf.Cell(40, 6, fmt.Sprintf("%.2f", section.SubtotalAmount))
		pdf.Ln(9)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Gross credit total: %.2f", slip.Computed.GrossCreditTotal))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Total deductions: %.2f", slip.Computed.TotalDebit))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Net pay: %.2f", slip.Computed.NetPay))
	if slip.Computed.NegativeNet {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 6, "Deductions exceeded credits; net pay floored at zero.")
	}

	return pdf.Output(w)
}
