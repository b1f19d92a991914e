package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-backend/internal/models"
)

var (
	loanStart = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	loanEnd   = time.Date(2027, time.January, 15, 0, 0, 0, 0, time.UTC)
	stamp     = time.Date(2026, time.October, 1, 9, 30, 0, 0, time.UTC)
)

var loanColumnNames = []string{
	"loan_id", "customer_id", "loan_amount", "tenure", "interest_rate", "monthly_repayment",
	"emis_paid_on_time", "total_amount_paid", "amount_with_interest", "start_date", "end_date",
	"version", "created_at", "updated_at",
}

// loanRow is loan 42 of customer 1: 100000 over 12 months, two EMIs paid
func loanRow(version int) *pgxmock.Rows {
	return pgxmock.NewRows(loanColumnNames).AddRow(
		42, 1, 100000.0, 12, 12.0, 8884.88,
		2, 17769.76, 106618.56, loanStart, loanEnd,
		version, stamp, stamp,
	)
}

func newLoanRepoMock(t *testing.T) (*LoanRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewLoanRepository(mock), mock
}

func TestLoanRepository_ApplyPayment(t *testing.T) {
	repo, mock := newLoanRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(42, 1).WillReturnRows(loanRow(3))
	mock.ExpectQuery(`UPDATE loans SET`).
		WithArgs(26654.64, 3, 9000.0, 42, 3).
		WillReturnRows(pgxmock.NewRows([]string{"version", "updated_at"}).AddRow(4, stamp))
	mock.ExpectCommit()

	loan, err := repo.ApplyPayment(context.Background(), 1, 42, func(l *models.Loan) error {
		l.TotalAmountPaid = 26654.64
		l.EMIsPaidOnTime++
		l.MonthlyRepayment = 9000
		return nil
	})

	require.NoError(t, err)
	require.NotNil(t, loan)
	assert.Equal(t, 4, loan.Version)
	assert.Equal(t, 3, loan.EMIsPaidOnTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepository_ApplyPayment_VersionConflict(t *testing.T) {
	repo, mock := newLoanRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(42, 1).WillReturnRows(loanRow(3))
	// another writer bumped the version, so the guarded update matches no row
	mock.ExpectQuery(`UPDATE loans SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 42, 3).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	loan, err := repo.ApplyPayment(context.Background(), 1, 42, func(l *models.Loan) error {
		l.EMIsPaidOnTime++
		return nil
	})

	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Nil(t, loan)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepository_ApplyPayment_RejectedPaymentWritesNothing(t *testing.T) {
	repo, mock := newLoanRepoMock(t)
	errRejected := errors.New("no installments left")

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(42, 1).WillReturnRows(loanRow(3))
	mock.ExpectRollback()

	loan, err := repo.ApplyPayment(context.Background(), 1, 42, func(l *models.Loan) error {
		l.TotalAmountPaid = 1
		return errRejected
	})

	assert.ErrorIs(t, err, errRejected)
	assert.Nil(t, loan)
	// no UPDATE and no COMMIT were issued
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepository_ApplyPayment_LoanOfAnotherCustomer(t *testing.T) {
	repo, mock := newLoanRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(42, 2).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	called := false
	loan, err := repo.ApplyPayment(context.Background(), 2, 42, func(l *models.Loan) error {
		called = true
		return nil
	})

	assert.NoError(t, err)
	assert.Nil(t, loan)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepository_Upsert(t *testing.T) {
	loan := &models.Loan{
		ID: 7798, CustomerID: 1, LoanAmount: 12000, Tenure: 12, InterestRate: 12,
		MonthlyRepayment: 1000, EMIsPaidOnTime: 3, TotalAmountPaid: 3000, AmountWithInterest: 12000,
		StartDate: loanStart, EndDate: loanEnd,
	}

	t.Run("stored", func(t *testing.T) {
		repo, mock := newLoanRepoMock(t)
		mock.ExpectQuery(`ON CONFLICT \(loan_id\) DO UPDATE`).
			WithArgs(7798, 1, 12000.0, 12, 12.0, 1000.0, 3, 3000.0, 12000.0, loanStart, loanEnd).
			WillReturnRows(pgxmock.NewRows([]string{"version", "created_at", "updated_at"}).AddRow(1, stamp, stamp))

		stored, err := repo.Upsert(context.Background(), loan)

		require.NoError(t, err)
		assert.True(t, stored)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("id owned by another customer", func(t *testing.T) {
		repo, mock := newLoanRepoMock(t)
		mock.ExpectQuery(`WHERE loans.customer_id = EXCLUDED.customer_id`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(pgx.ErrNoRows)

		stored, err := repo.Upsert(context.Background(), loan)

		require.NoError(t, err)
		assert.False(t, stored)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoanRepository_GetForCustomer_NotFound(t *testing.T) {
	repo, mock := newLoanRepoMock(t)
	mock.ExpectQuery(`WHERE l.loan_id=\$1 AND l.customer_id=\$2`).WithArgs(42, 9).WillReturnError(pgx.ErrNoRows)

	loan, err := repo.GetForCustomer(context.Background(), 9, 42)

	assert.NoError(t, err)
	assert.Nil(t, loan)
	assert.NoError(t, mock.ExpectationsWereMet())
}
