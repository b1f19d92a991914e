package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loan-backend/internal/models"
)

type MockCustomerRegistrar struct {
	mock.Mock
}

func (m *MockCustomerRegistrar) Register(ctx context.Context, req *models.RegisterCustomerRequest) (*models.RegisterCustomerResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RegisterCustomerResponse), args.Error(1)
}

type MockLoanWorkflow struct {
	mock.Mock
}

func (m *MockLoanWorkflow) CheckEligibility(ctx context.Context, req *models.EligibilityRequest) (*models.EligibilityDecision, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EligibilityDecision), args.Error(1)
}

func (m *MockLoanWorkflow) CreateLoan(ctx context.Context, req *models.EligibilityRequest) (*models.CreateLoanResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreateLoanResponse), args.Error(1)
}

func (m *MockLoanWorkflow) ViewLoan(ctx context.Context, loanID int) (*models.LoanView, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoanView), args.Error(1)
}

func (m *MockLoanWorkflow) MakePayment(ctx context.Context, customerID, loanID int, req *models.PaymentRequest) (*models.PaymentResponse, error) {
	args := m.Called(ctx, customerID, loanID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentResponse), args.Error(1)
}

func (m *MockLoanWorkflow) ViewStatement(ctx context.Context, customerID, loanID int) (*models.LoanStatement, error) {
	args := m.Called(ctx, customerID, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoanStatement), args.Error(1)
}

func (m *MockLoanWorkflow) ViewSchedule(ctx context.Context, customerID, loanID int) (*models.LoanSchedule, error) {
	args := m.Called(ctx, customerID, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoanSchedule), args.Error(1)
}

func (m *MockLoanWorkflow) StatementPDF(ctx context.Context, customerID, loanID int) ([]byte, error) {
	args := m.Called(ctx, customerID, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
