package services

import (
	"context"
	"math"

	"loan-backend/internal/logger"
	"loan-backend/internal/models"
)

const approvedLimitStep = 100000

type CustomerService struct {
	Repo CustomerStore
}

func NewCustomerService(repo CustomerStore) *CustomerService {
	return &CustomerService{Repo: repo}
}

// ApprovedLimit is 36 months of salary rounded to the nearest lakh, never
// below one lakh.
func ApprovedLimit(monthlySalary float64) float64 {
	limit := math.Round(36*monthlySalary/approvedLimitStep) * approvedLimitStep
	return math.Max(approvedLimitStep, limit)
}

// Register creates a customer with a derived approved limit and no debt
func (s *CustomerService) Register(ctx context.Context, req *models.RegisterCustomerRequest) (*models.RegisterCustomerResponse, error) {
	if req.MonthlyIncome == 0 {
		req.MonthlyIncome = req.MonthlySalary
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Age:           req.Age,
		PhoneNumber:   string(req.PhoneNumber),
		MonthlySalary: req.MonthlyIncome,
		ApprovedLimit: ApprovedLimit(req.MonthlyIncome),
	}

	if err := s.Repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	logger.Info(ctx, "[Customer] Registered customer %d with approved limit %.0f", customer.ID, customer.ApprovedLimit)

	return &models.RegisterCustomerResponse{
		CustomerID:    customer.ID,
		Name:          customer.FullName(),
		Age:           customer.Age,
		MonthlyIncome: customer.MonthlySalary,
		ApprovedLimit: customer.ApprovedLimit,
		PhoneNumber:   customer.PhoneNumber,
	}, nil
}
