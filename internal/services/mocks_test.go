package services

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"

	"loan-backend/internal/models"
)

type MockCustomerStore struct {
	mock.Mock
}

func (m *MockCustomerStore) Create(ctx context.Context, c *models.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerStore) Get(ctx context.Context, id int) (*models.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerStore) Upsert(ctx context.Context, c *models.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerStore) RefreshCurrentDebt(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerStore) SyncSequence(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockLoanStore struct {
	mock.Mock
}

func (m *MockLoanStore) Create(ctx context.Context, l *models.Loan) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLoanStore) ListByCustomer(ctx context.Context, customerID int) ([]models.Loan, error) {
	args := m.Called(ctx, customerID)
	loans, _ := args.Get(0).([]models.Loan)
	return loans, args.Error(1)
}

func (m *MockLoanStore) GetForCustomer(ctx context.Context, customerID, loanID int) (*models.Loan, error) {
	args := m.Called(ctx, customerID, loanID)
	l, _ := args.Get(0).(*models.Loan)
	return l, args.Error(1)
}

func (m *MockLoanStore) GetWithCustomer(ctx context.Context, loanID int) (*models.LoanWithCustomer, error) {
	args := m.Called(ctx, loanID)
	lc, _ := args.Get(0).(*models.LoanWithCustomer)
	return lc, args.Error(1)
}

// ApplyPayment mimics the repository: it runs apply on a copy of the stored
// loan and returns the copy only if apply succeeds.
func (m *MockLoanStore) ApplyPayment(ctx context.Context, customerID, loanID int, apply func(*models.Loan) error) (*models.Loan, error) {
	args := m.Called(ctx, customerID, loanID)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	stored, _ := args.Get(0).(*models.Loan)
	if stored == nil {
		return nil, nil
	}
	updated := *stored
	if err := apply(&updated); err != nil {
		return nil, err
	}
	updated.Version++
	return &updated, nil
}

func (m *MockLoanStore) Upsert(ctx context.Context, l *models.Loan) (bool, error) {
	args := m.Called(ctx, l)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanStore) SyncSequence(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockViewCache struct {
	mock.Mock
}

func (m *MockViewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Bool(1)
}

func (m *MockViewCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	m.Called(ctx, key, data, ttl)
}

func (m *MockViewCache) Invalidate(ctx context.Context, keys ...string) {
	m.Called(ctx, keys)
}

// memorySource serves seed files from memory; unknown locations do not exist
type memorySource map[string]string

func (s memorySource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	content, ok := s[location]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: location, Err: os.ErrNotExist}
	}
	return io.NopCloser(strings.NewReader(content)), nil
}
