package services

import (
	"context"
	"encoding/json"
	"time"

	"loan-backend/internal/cache"
	"loan-backend/internal/credit"
	"loan-backend/internal/logger"
	"loan-backend/internal/metrics"
	"loan-backend/internal/models"
	"loan-backend/internal/timeutil"
)

const (
	MsgLoanApproved    = "Loan approved"
	MsgLoanNotApproved = "Loan not approved due to low credit score or high EMIs"
	MsgPaymentDone     = "Payment processed successfully"

	msgCustomerNotFound   = "Customer not found"
	msgLoanNotFound       = "Loan not found"
	msgLoanNotForCustomer = "Loan not found for this customer"
)

type LoanService struct {
	Customers CustomerStore
	Loans     LoanStore
	Cache     ViewCache
	now       func() time.Time
}

// NewLoanService wires the loan workflows. viewCache may be nil.
func NewLoanService(customers CustomerStore, loans LoanStore, viewCache ViewCache) *LoanService {
	return &LoanService{
		Customers: customers,
		Loans:     loans,
		Cache:     viewCache,
		now:       timeutil.Now,
	}
}

// SetClock overrides the time source used for scoring and loan dates
func (s *LoanService) SetClock(now func() time.Time) {
	s.now = now
}

// applicant loads the customer with full loan history, or NotFound
func (s *LoanService) applicant(ctx context.Context, customerID int) (*credit.Applicant, error) {
	customer, err := s.Customers.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, notFoundError(msgCustomerNotFound)
	}

	history, err := s.Loans.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &credit.Applicant{
		Customer:    *customer,
		History:     history,
		ActiveLoans: history,
	}, nil
}

// CheckEligibility evaluates a loan request without writing anything
func (s *LoanService) CheckEligibility(ctx context.Context, req *models.EligibilityRequest) (*models.EligibilityDecision, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	applicant, err := s.applicant(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	decision, err := credit.Evaluate(*applicant, *req, s.now())
	if err != nil {
		return nil, err
	}

	metrics.RecordEligibility(decision.Approval)
	logger.Debug(ctx, "[Eligibility] customer %d score %d approval %t", req.CustomerID, decision.CreditScore, decision.Approval)
	return &decision, nil
}

// CreateLoan re-runs eligibility and persists exactly one loan when approved
func (s *LoanService) CreateLoan(ctx context.Context, req *models.EligibilityRequest) (*models.CreateLoanResponse, error) {
	decision, err := s.CheckEligibility(ctx, req)
	if err != nil {
		return nil, err
	}

	if !decision.Approval {
		return &models.CreateLoanResponse{
			CustomerID:   req.CustomerID,
			LoanApproved: false,
			Message:      MsgLoanNotApproved,
		}, nil
	}

	start := s.now()
	loan := &models.Loan{
		CustomerID:         req.CustomerID,
		LoanAmount:         req.LoanAmount,
		Tenure:             req.Tenure,
		InterestRate:       decision.CorrectedInterestRate,
		MonthlyRepayment:   decision.MonthlyInstallment,
		AmountWithInterest: credit.TotalRepayable(decision.MonthlyInstallment, req.Tenure),
		StartDate:          start,
		EndDate:            timeutil.AddMonths(start, req.Tenure),
	}

	if err := s.Loans.Create(ctx, loan); err != nil {
		return nil, err
	}
	metrics.LoansCreated.Inc()
	logger.Info(ctx, "[Loan] Created loan %d for customer %d (%.2f over %d months at %.2f%%)",
		loan.ID, loan.CustomerID, loan.LoanAmount, loan.Tenure, loan.InterestRate)

	loanID := loan.ID
	installment := loan.MonthlyRepayment
	return &models.CreateLoanResponse{
		LoanID:             &loanID,
		CustomerID:         req.CustomerID,
		LoanApproved:       true,
		Message:            MsgLoanApproved,
		MonthlyInstallment: &installment,
	}, nil
}

// ViewLoan returns a loan with its customer summary, served from cache when possible
func (s *LoanService) ViewLoan(ctx context.Context, loanID int) (*models.LoanView, error) {
	key := cache.LoanViewKey(loanID)
	if s.Cache != nil {
		if data, ok := s.Cache.Get(ctx, key); ok {
			var view models.LoanView
			if err := json.Unmarshal(data, &view); err == nil {
				return &view, nil
			}
		}
	}

	lc, err := s.Loans.GetWithCustomer(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if lc == nil {
		return nil, notFoundError(msgLoanNotFound)
	}

	view := &models.LoanView{
		LoanID: lc.Loan.ID,
		Customer: models.CustomerSummary{
			CustomerID:  lc.Customer.ID,
			FirstName:   lc.Customer.FirstName,
			LastName:    lc.Customer.LastName,
			PhoneNumber: lc.Customer.PhoneNumber,
			Age:         lc.Customer.Age,
		},
		LoanAmount:         lc.Loan.LoanAmount,
		InterestRate:       lc.Loan.InterestRate,
		MonthlyInstallment: lc.Loan.MonthlyRepayment,
		Tenure:             lc.Loan.Tenure,
	}

	if s.Cache != nil {
		if data, err := json.Marshal(view); err == nil {
			s.Cache.Set(ctx, key, data, cache.LoanViewTTL)
		}
	}
	return view, nil
}

// MakePayment applies a payment under a row lock and returns the new installment
func (s *LoanService) MakePayment(ctx context.Context, customerID, loanID int, req *models.PaymentRequest) (*models.PaymentResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var installment float64
	loan, err := s.Loans.ApplyPayment(ctx, customerID, loanID, func(l *models.Loan) error {
		var err error
		installment, err = credit.ApplyPayment(l, req.PaidAmount)
		return err
	})
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, notFoundError(msgLoanNotForCustomer)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, cache.LoanViewKey(loanID))
	}
	metrics.PaymentsRecorded.Inc()
	logger.Info(ctx, "[Payment] Loan %d: paid %.2f, %d EMIs paid, next installment %.2f",
		loan.ID, req.PaidAmount, loan.EMIsPaidOnTime, installment)

	return &models.PaymentResponse{
		Message:                 MsgPaymentDone,
		RecalculatedInstallment: installment,
	}, nil
}

// loanForCustomer is the shared lookup behind statement and schedule views
func (s *LoanService) loanForCustomer(ctx context.Context, customerID, loanID int) (*models.Loan, error) {
	loan, err := s.Loans.GetForCustomer(ctx, customerID, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, notFoundError(msgLoanNotForCustomer)
	}
	return loan, nil
}

// ViewStatement summarises what has been paid and what is left on a loan
func (s *LoanService) ViewStatement(ctx context.Context, customerID, loanID int) (*models.LoanStatement, error) {
	loan, err := s.loanForCustomer(ctx, customerID, loanID)
	if err != nil {
		return nil, err
	}
	return statementOf(loan), nil
}

func statementOf(loan *models.Loan) *models.LoanStatement {
	return &models.LoanStatement{
		CustomerID:         loan.CustomerID,
		LoanID:             loan.ID,
		Principal:          loan.LoanAmount,
		InterestRate:       loan.InterestRate,
		AmountPaid:         loan.TotalAmountPaid,
		MonthlyInstallment: loan.MonthlyRepayment,
		RepaymentsLeft:     credit.RepaymentsLeft(*loan),
	}
}

// ViewSchedule returns the amortization schedule of a loan from its start date
func (s *LoanService) ViewSchedule(ctx context.Context, customerID, loanID int) (*models.LoanSchedule, error) {
	loan, err := s.loanForCustomer(ctx, customerID, loanID)
	if err != nil {
		return nil, err
	}
	return scheduleOf(loan), nil
}

func scheduleOf(loan *models.Loan) *models.LoanSchedule {
	entries := credit.Schedule(loan.LoanAmount, loan.InterestRate, loan.Tenure, loan.StartDate)
	if entries == nil {
		entries = []models.AmortizationEntry{}
	}

	return &models.LoanSchedule{
		CustomerID: loan.CustomerID,
		LoanID:     loan.ID,
		Entries:    entries,
	}
}
