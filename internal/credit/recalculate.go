package credit

import (
	"fmt"

	"github.com/shopspring/decimal"

	"loan-backend/internal/models"
)

// ApplyPayment records a payment on the loan and recomputes the installment
// for the remaining terms:
//
//	total'    = total_amount_paid + paid
//	remaining = amount_with_interest - total'
//	emi'      = remaining / (tenure - (emis_paid_on_time + 1))
//
// The loan is only modified when the recalculation succeeds. A payment that
// leaves no remaining terms returns ErrDivisionGuard.
func ApplyPayment(loan *models.Loan, paid float64) (float64, error) {
	remainingTerms := loan.Tenure - (loan.EMIsPaidOnTime + 1)
	if remainingTerms <= 0 {
		return 0, fmt.Errorf("%w: loan %d has no installments left after this payment", ErrDivisionGuard, loan.ID)
	}

	total := decimal.NewFromFloat(loan.TotalAmountPaid).Add(decimal.NewFromFloat(paid))
	remaining := decimal.NewFromFloat(loan.AmountWithInterest).Sub(total)
	installment := remaining.Div(decimal.NewFromInt(int64(remainingTerms))).Round(2)

	loan.TotalAmountPaid = total.Round(2).InexactFloat64()
	loan.EMIsPaidOnTime++
	loan.MonthlyRepayment = installment.InexactFloat64()

	return loan.MonthlyRepayment, nil
}

// RepaymentsLeft is tenure minus installments already paid
func RepaymentsLeft(loan models.Loan) int {
	return loan.Tenure - loan.EMIsPaidOnTime
}
