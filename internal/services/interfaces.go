package services

import (
	"context"
	"io"
	"time"

	"loan-backend/internal/models"
)

// CustomerStore is implemented by repositories.CustomerRepository
type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	Get(ctx context.Context, id int) (*models.Customer, error)
	Upsert(ctx context.Context, c *models.Customer) error
	RefreshCurrentDebt(ctx context.Context, now time.Time) (int64, error)
	SyncSequence(ctx context.Context) error
}

// LoanStore is implemented by repositories.LoanRepository. Lookups return
// (nil, nil) when the row does not exist.
type LoanStore interface {
	Create(ctx context.Context, l *models.Loan) error
	ListByCustomer(ctx context.Context, customerID int) ([]models.Loan, error)
	GetForCustomer(ctx context.Context, customerID, loanID int) (*models.Loan, error)
	GetWithCustomer(ctx context.Context, loanID int) (*models.LoanWithCustomer, error)
	ApplyPayment(ctx context.Context, customerID, loanID int, apply func(*models.Loan) error) (*models.Loan, error)
	Upsert(ctx context.Context, l *models.Loan) (bool, error)
	SyncSequence(ctx context.Context) error
}

// ViewCache is implemented by cache.Cache
type ViewCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
}

// SeedSource opens a seed file by location (local path or s3:// URL)
type SeedSource interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}
