package models

import "time"

type Loan struct {
	ID                 int       `json:"loan_id"`
	CustomerID         int       `json:"customer_id"`
	LoanAmount         float64   `json:"loan_amount"`
	Tenure             int       `json:"tenure"`
	InterestRate       float64   `json:"interest_rate"`
	MonthlyRepayment   float64   `json:"monthly_repayment"`
	EMIsPaidOnTime     int       `json:"emis_paid_on_time"`
	TotalAmountPaid    float64   `json:"total_amount_paid"`
	AmountWithInterest float64   `json:"amount_with_interest"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	Version            int       `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// IsActive reports whether the loan's end date is strictly after now
func (l *Loan) IsActive(now time.Time) bool {
	return l.EndDate.After(now)
}

// LoanWithCustomer is a loan joined with its owning customer
type LoanWithCustomer struct {
	Loan     Loan
	Customer Customer
}

// EligibilityRequest is the body of check-eligibility and create-loan.
// All four fields are mandatory; zero counts as missing.
type EligibilityRequest struct {
	CustomerID   int     `json:"customer_id" validate:"required,gt=0"`
	LoanAmount   float64 `json:"loan_amount" validate:"required,gt=0"`
	InterestRate float64 `json:"interest_rate" validate:"required,gt=0"`
	Tenure       int     `json:"tenure" validate:"required,gt=0"`
}

// EligibilityDecision is the read-only outcome of an eligibility check
type EligibilityDecision struct {
	CustomerID            int     `json:"customer_id"`
	Approval              bool    `json:"approval"`
	InterestRate          float64 `json:"interest_rate"`
	CorrectedInterestRate float64 `json:"corrected_interest_rate"`
	Tenure                int     `json:"tenure"`
	MonthlyInstallment    float64 `json:"monthly_installment"`
	CreditScore           int     `json:"-"`
}

// CreateLoanResponse is returned by create-loan. LoanID and MonthlyInstallment
// are only present when the loan was approved.
type CreateLoanResponse struct {
	LoanID             *int     `json:"loan_id,omitempty"`
	CustomerID         int      `json:"customer_id"`
	LoanApproved       bool     `json:"loan_approved"`
	Message            string   `json:"message"`
	MonthlyInstallment *float64 `json:"monthly_installment,omitempty"`
}

// LoanView is the response of view-loan
type LoanView struct {
	LoanID             int             `json:"loan_id"`
	Customer           CustomerSummary `json:"customer"`
	LoanAmount         float64         `json:"loan_amount"`
	InterestRate       float64         `json:"interest_rate"`
	MonthlyInstallment float64         `json:"monthly_installment"`
	Tenure             int             `json:"tenure"`
}

// PaymentRequest represents the body of make-payment
type PaymentRequest struct {
	PaidAmount float64 `json:"paid_amount" validate:"required,gt=0"`
}

type PaymentResponse struct {
	Message                 string  `json:"message"`
	RecalculatedInstallment float64 `json:"recalculated_installment"`
}

// LoanStatement is the response of view-statement
type LoanStatement struct {
	CustomerID         int     `json:"customer_id"`
	LoanID             int     `json:"loan_id"`
	Principal          float64 `json:"principal"`
	InterestRate       float64 `json:"interest_rate"`
	AmountPaid         float64 `json:"amount_paid"`
	MonthlyInstallment float64 `json:"monthly_installment"`
	RepaymentsLeft     int     `json:"repayments_left"`
}

// AmortizationEntry is one period of a repayment schedule
type AmortizationEntry struct {
	Period           int       `json:"period"`
	DueDate          time.Time `json:"due_date"`
	Principal        float64   `json:"principal"`
	Interest         float64   `json:"interest"`
	Total            float64   `json:"total"`
	RemainingBalance float64   `json:"remaining_balance"`
}

// LoanSchedule is the response of view-schedule
type LoanSchedule struct {
	CustomerID int                 `json:"customer_id"`
	LoanID     int                 `json:"loan_id"`
	Entries    []AmortizationEntry `json:"entries"`
}
