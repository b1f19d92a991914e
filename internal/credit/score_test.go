package credit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"loan-backend/internal/models"
)

var evalTime = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

// pastLoans returns n settled loans started well before evalTime
func pastLoans(n int, amount float64) []models.Loan {
	loans := make([]models.Loan, 0, n)
	for i := 0; i < n; i++ {
		loans = append(loans, models.Loan{
			ID:               i + 1,
			LoanAmount:       amount,
			Tenure:           12,
			EMIsPaidOnTime:   12,
			MonthlyRepayment: 1000,
			StartDate:        time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
			EndDate:          time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return loans
}

func TestScore(t *testing.T) {
	customer := models.Customer{ID: 1, ApprovedLimit: 1_000_000, MonthlySalary: 50_000}

	thisYear := models.Loan{
		LoanAmount:     10_000,
		Tenure:         12,
		EMIsPaidOnTime: 2,
		StartDate:      time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	overpaid := models.Loan{
		LoanAmount:     10_000,
		Tenure:         6,
		EMIsPaidOnTime: 7,
		StartDate:      time.Date(2019, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name     string
		customer models.Customer
		history  []models.Loan
		want     int
	}{
		{name: "no loans", customer: customer, history: nil, want: 0},
		{name: "six settled loans", customer: customer, history: pastLoans(6, 10_000), want: 60},
		{name: "clamped at 100", customer: customer, history: pastLoans(15, 10_000), want: 100},
		{name: "current year penalty", customer: customer, history: []models.Loan{thisYear}, want: 5},
		{name: "negative clamped at 0", customer: customer, history: []models.Loan{overpaid, overpaid}, want: 0},
		{name: "mixed history", customer: customer, history: append(pastLoans(3, 10_000), overpaid, thisYear), want: 25},
		{
			name:     "volume above approved limit forces 0",
			customer: models.Customer{ID: 2, ApprovedLimit: 50_000},
			history:  pastLoans(6, 10_000),
			want:     0,
		},
		{
			name:     "volume equal to approved limit keeps score",
			customer: models.Customer{ID: 3, ApprovedLimit: 60_000},
			history:  pastLoans(6, 10_000),
			want:     60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.customer, tt.history, evalTime))
		})
	}
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	customer := models.Customer{ApprovedLimit: 1e12}
	for n := 0; n <= 40; n += 5 {
		score := Score(customer, pastLoans(n, 1e9), evalTime)
		assert.GreaterOrEqual(t, score, MinScore)
		assert.LessOrEqual(t, score, MaxScore)
	}
}

func TestScore_Deterministic(t *testing.T) {
	customer := models.Customer{ApprovedLimit: 1_000_000}
	history := pastLoans(4, 25_000)
	first := Score(customer, history, evalTime)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Score(customer, history, evalTime))
	}
}
