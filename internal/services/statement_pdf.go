package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"loan-backend/internal/models"
	"loan-backend/internal/timeutil"
)

// StatementPDF renders the loan statement and its repayment schedule as a PDF
func (s *LoanService) StatementPDF(ctx context.Context, customerID, loanID int) ([]byte, error) {
	loan, err := s.loanForCustomer(ctx, customerID, loanID)
	if err != nil {
		return nil, err
	}
	return renderStatementPDF(statementOf(loan), scheduleOf(loan).Entries, s.now())
}

func renderStatementPDF(st *models.LoanStatement, entries []models.AmortizationEntry, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Loan Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.FormatIST(generatedAt, "02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Summary
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Loan Summary", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Customer ID: %d", st.CustomerID), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Loan ID: %d", st.LoanID), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Principal: Rs. %.2f", st.Principal), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Interest Rate: %.2f%%", st.InterestRate), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Amount Paid: Rs. %.2f", st.AmountPaid), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Monthly Installment: Rs. %.2f", st.MonthlyInstallment), "RB", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(200, 230, 255)
	pdf.CellFormat(190, 10, fmt.Sprintf("Repayments Left: %d", st.RepaymentsLeft), "1", 1, "C", true, 0, "")
	pdf.Ln(5)

	// Schedule
	if len(entries) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Repayment Schedule", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(15, 7, "#", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Due Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Principal", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Interest", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Installment", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Balance", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(200, 255, 200) // Light green for installments already paid
		paidPeriods := len(entries) - st.RepaymentsLeft
		for _, e := range entries {
			fill := e.Period <= paidPeriods
			pdf.CellFormat(15, 6, fmt.Sprintf("%d", e.Period), "1", 0, "C", fill, 0, "")
			pdf.CellFormat(35, 6, timeutil.FormatIST(e.DueDate, timeutil.DisplayLayout), "1", 0, "C", fill, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", e.Principal), "1", 0, "R", fill, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", e.Interest), "1", 0, "R", fill, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", e.Total), "1", 0, "R", fill, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", e.RemainingBalance), "1", 1, "R", fill, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
