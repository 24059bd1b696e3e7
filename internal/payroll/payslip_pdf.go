package payroll

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RenderPayslip prints the stored breakdown. Amounts are read verbatim so the
// document always matches what was persisted.
func (s *service) RenderPayslip(ctx context.Context, companyID, id string) ([]byte, string, error) {
	payroll, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return nil, "", mapRepositoryError(err)
	}

	content, err := renderPayslipPDF(mapToBreakdown(*payroll), *payroll)
	if err != nil {
		s.logger.Error("render payslip failed", zap.String("payroll_id", id), zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("payslip-%d-%02d-%s.pdf", payroll.PeriodYear, payroll.PeriodMonth, payroll.EmployeeID.String())
	return content, filename, nil
}

func renderPayslipPDF(b PayrollBreakdownResponse, p Payroll) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	name := p.EmployeeID.String()
	if p.Employee != nil && p.Employee.FullName != "" {
		name = p.Employee.FullName
	}
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", name))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s %d (%d days)", time.Month(p.PeriodMonth), p.PeriodYear, p.DaysInPeriod))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Attendance: %d present, %d late, %d absent, %d on leave",
		b.Attendance.Present, b.Attendance.Late, b.Attendance.Absent, b.Attendance.OnLeave))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Proration factor: %s", b.ProrationFactor.StringFixed(4)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Status: %s", b.Status))
	pdf.Ln(10)

	line := func(label string, amount decimal.Decimal) {
		pdf.CellFormat(120, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, amount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	heading := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(170, 8, title, "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
	}

	heading("Earnings")
	line("Basic salary (prorated)", b.Earnings.ProratedBasic)
	for _, a := range b.Earnings.Allowances {
		line("Allowance: "+a.Name, a.Amount)
	}
	line("Bonus", b.Earnings.Bonus)
	line("Overtime", b.Earnings.Overtime.Amount)
	pdf.SetFont("Helvetica", "B", 11)
	line("Gross salary", b.Earnings.GrossSalary)
	pdf.Ln(4)

	heading("Deductions")
	for _, d := range b.Deductions.Statutory {
		line("Statutory: "+d.Name, d.Amount)
	}
	line("Absent penalty", b.Deductions.AbsentPenalty)
	line("Late penalty", b.Deductions.LatePenalty)
	line("Leave deduction", b.Deductions.LeaveDeduction)
	for _, d := range b.Deductions.Discretionary {
		line("Other: "+d.Name, d.Amount)
	}
	pdf.SetFont("Helvetica", "B", 11)
	line("Total deductions", b.Deductions.TotalDeductions)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	line("Net salary", b.NetSalary)

	if p.PaymentDate != nil {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Ln(4)
		pdf.Cell(0, 6, fmt.Sprintf("Paid on %s via %s", p.PaymentDate.Format("2006-01-02"), p.PaymentMethod))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
