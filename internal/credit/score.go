// Package credit holds the pure underwriting core: credit scoring, score-banded
// eligibility, amortized installments and post-payment recalculation. Nothing
// here touches the database; callers pass history, active loans and the
// evaluation time explicitly.
package credit

import (
	"time"

	"loan-backend/internal/models"
)

const (
	MinScore = 0
	MaxScore = 100

	onTimeBonus        = 10
	latePenalty        = 10
	currentYearPenalty = 5
)

// Score derives a 0-100 credit score from a customer's loan history.
//
// Every loan adds 10 when emis_paid_on_time <= tenure and subtracts 10
// otherwise. This condition holds for almost every loan by construction and
// does not really measure punctual repayment; it is kept as-is so scores stay
// compatible with existing data.
//
// Loans started in now's calendar year cost another 5 points each. If the sum
// of all principals exceeds the approved limit the score is forced to 0.
func Score(customer models.Customer, history []models.Loan, now time.Time) int {
	score := 0
	volume := 0.0

	for _, loan := range history {
		if loan.EMIsPaidOnTime <= loan.Tenure {
			score += onTimeBonus
		} else {
			score -= latePenalty
		}

		if loan.StartDate.In(now.Location()).Year() == now.Year() {
			score -= currentYearPenalty
		}

		volume += loan.LoanAmount
	}

	if volume > customer.ApprovedLimit {
		score = 0
	}

	return clamp(score)
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
