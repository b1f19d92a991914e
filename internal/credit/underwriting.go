package credit

import (
	"math"
	"time"

	"loan-backend/internal/models"
)

const (
	// MinCorrectedRate is the floor applied to the requested rate in the
	// middle score bands.
	MinCorrectedRate = 12.0

	// MaxEMIShareOfSalary caps the sum of current EMIs relative to monthly salary
	MaxEMIShareOfSalary = 0.5
)

// Applicant is everything the underwriter needs to know about a customer
type Applicant struct {
	Customer    models.Customer
	History     []models.Loan
	ActiveLoans []models.Loan
}

// BandDecision applies the score bands to a requested annual rate and returns
// the approval flag and the corrected rate.
//
//	score >= 50        approve, rate unchanged
//	30 <= score < 50   rate floored at 12, approve only if requested > 12
//	10 <= score < 30   rate floored at 12, approve only if requested > 16
//	score < 10         reject, rate unchanged
func BandDecision(score int, requestedRate float64) (bool, float64) {
	switch {
	case score >= 50:
		return true, requestedRate
	case score >= 30:
		return requestedRate > 12, math.Max(MinCorrectedRate, requestedRate)
	case score >= 10:
		return requestedRate > 16, math.Max(MinCorrectedRate, requestedRate)
	default:
		return false, requestedRate
	}
}

// CurrentEMI sums monthly repayments of loans whose end date is after now
func CurrentEMI(active []models.Loan, now time.Time) float64 {
	total := 0.0
	for i := range active {
		if active[i].IsActive(now) {
			total += active[i].MonthlyRepayment
		}
	}
	return total
}

// ExceedsDebtToIncome reports whether current EMIs exceed half the monthly salary
func ExceedsDebtToIncome(customer models.Customer, active []models.Loan, now time.Time) bool {
	return CurrentEMI(active, now) > MaxEMIShareOfSalary*customer.MonthlySalary
}

// Evaluate scores the applicant, applies the bands and the debt-to-income
// override, and prices the installment with the corrected rate. The
// installment is computed even when the request is rejected.
func Evaluate(applicant Applicant, req models.EligibilityRequest, now time.Time) (models.EligibilityDecision, error) {
	score := Score(applicant.Customer, applicant.History, now)
	approved, correctedRate := BandDecision(score, req.InterestRate)

	if ExceedsDebtToIncome(applicant.Customer, applicant.ActiveLoans, now) {
		approved = false
	}

	installment, err := MonthlyInstallment(req.LoanAmount, correctedRate, req.Tenure)
	if err != nil {
		return models.EligibilityDecision{}, err
	}

	return models.EligibilityDecision{
		CustomerID:            req.CustomerID,
		Approval:              approved,
		InterestRate:          req.InterestRate,
		CorrectedInterestRate: correctedRate,
		Tenure:                req.Tenure,
		MonthlyInstallment:    installment,
		CreditScore:           score,
	}, nil
}
