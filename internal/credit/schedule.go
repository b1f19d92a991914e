package credit

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"loan-backend/internal/models"
)

// Schedule splits each monthly installment of a loan into principal and
// interest. A zero rate is allowed here and yields an even split of the
// principal; underwriting still rejects zero rates.
//
// The first installment falls due one month after start. The last period
// absorbs rounding so the balance reaches exactly zero.
func Schedule(principal, annualRate float64, tenure int, start time.Time) []models.AmortizationEntry {
	if tenure <= 0 || principal <= 0 {
		return nil
	}

	monthlyRate := annualRate / (12 * 100)
	p := decimal.NewFromFloat(principal)

	var payment decimal.Decimal
	if monthlyRate == 0 {
		payment = p.Div(decimal.NewFromInt(int64(tenure))).Round(2)
	} else {
		factor := math.Pow(1+monthlyRate, float64(tenure))
		payment = decimal.NewFromFloat(principal * monthlyRate * factor / (factor - 1)).Round(2)
	}

	rate := decimal.NewFromFloat(monthlyRate)
	remaining := p
	entries := make([]models.AmortizationEntry, 0, tenure)

	for period := 1; period <= tenure; period++ {
		interest := remaining.Mul(rate).Round(2)
		principalPart := payment.Sub(interest)

		if period == tenure {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		entries = append(entries, models.AmortizationEntry{
			Period:           period,
			DueDate:          start.AddDate(0, period, 0),
			Principal:        principalPart.InexactFloat64(),
			Interest:         interest.InexactFloat64(),
			Total:            principalPart.Add(interest).InexactFloat64(),
			RemainingBalance: remaining.InexactFloat64(),
		})
	}

	return entries
}
