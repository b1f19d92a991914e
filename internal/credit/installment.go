package credit

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrDivisionGuard is returned when a formula would divide by zero: a zero
// effective interest rate, a non-positive tenure, or a payment on the final
// (or an already settled) installment.
var ErrDivisionGuard = errors.New("division guard")

// MonthlyInstallment returns the fixed monthly payment of an amortizing loan:
//
//	r = annualRate / (12 * 100)
//	g = (1 + r) ^ tenure
//	emi = amount * g * r / (g - 1)
//
// The result is rounded to 2 decimal places.
func MonthlyInstallment(amount, annualRate float64, tenure int) (float64, error) {
	if tenure <= 0 {
		return 0, fmt.Errorf("%w: tenure must be positive, got %d", ErrDivisionGuard, tenure)
	}

	monthlyRate := annualRate / (12 * 100)
	growth := math.Pow(1+monthlyRate, float64(tenure))
	if monthlyRate == 0 || growth-1 == 0 {
		return 0, fmt.Errorf("%w: installment undefined for a %.2f%% interest rate", ErrDivisionGuard, annualRate)
	}

	emi := amount * growth * monthlyRate / (growth - 1)
	if math.IsNaN(emi) || math.IsInf(emi, 0) {
		return 0, fmt.Errorf("%w: installment overflow", ErrDivisionGuard)
	}
	return roundMoney(emi), nil
}

// TotalRepayable is installment x tenure, the amount_with_interest of a new loan
func TotalRepayable(installment float64, tenure int) float64 {
	return decimal.NewFromFloat(installment).Mul(decimal.NewFromInt(int64(tenure))).Round(2).InexactFloat64()
}

func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
