package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"loan-backend/internal/models"
)

// ErrConcurrentUpdate is returned when a loan row changed between read and write
var ErrConcurrentUpdate = errors.New("loan was modified concurrently")

type LoanRepository struct {
	DB DB
}

func NewLoanRepository(db DB) *LoanRepository {
	return &LoanRepository{DB: db}
}

const loanColumns = `l.loan_id, l.customer_id, l.loan_amount, l.tenure, l.interest_rate, l.monthly_repayment,
                l.emis_paid_on_time, l.total_amount_paid, l.amount_with_interest, l.start_date, l.end_date,
                l.version, l.created_at, l.updated_at`

func (r *LoanRepository) Create(ctx context.Context, l *models.Loan) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO loans(customer_id, loan_amount, tenure, interest_rate, monthly_repayment,
                           emis_paid_on_time, total_amount_paid, amount_with_interest, start_date, end_date)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
         RETURNING loan_id, version, created_at, updated_at`,
		l.CustomerID, l.LoanAmount, l.Tenure, l.InterestRate, l.MonthlyRepayment,
		l.EMIsPaidOnTime, l.TotalAmountPaid, l.AmountWithInterest, l.StartDate, l.EndDate,
	).Scan(&l.ID, &l.Version, &l.CreatedAt, &l.UpdatedAt)
}

// ListByCustomer returns the full loan history of a customer, oldest first
func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID int) ([]models.Loan, error) {
	return r.list(ctx,
		`SELECT `+loanColumns+` FROM loans l
         WHERE l.customer_id=$1 ORDER BY l.start_date, l.loan_id`, customerID)
}

func (r *LoanRepository) list(ctx context.Context, query string, args ...any) ([]models.Loan, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *loan)
	}
	return loans, rows.Err()
}

// GetForCustomer returns the loan only if it belongs to customerID, else (nil, nil)
func (r *LoanRepository) GetForCustomer(ctx context.Context, customerID, loanID int) (*models.Loan, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans l
         WHERE l.loan_id=$1 AND l.customer_id=$2`, loanID, customerID)

	loan, err := scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return loan, err
}

// GetWithCustomer returns a loan joined with its owner, or (nil, nil)
func (r *LoanRepository) GetWithCustomer(ctx context.Context, loanID int) (*models.LoanWithCustomer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+loanColumns+`,
                c.customer_id, c.first_name, c.last_name, c.age, c.phone_number,
                c.monthly_salary, c.approved_limit, c.current_debt, c.created_at, c.updated_at
         FROM loans l
         JOIN customers c ON c.customer_id = l.customer_id
         WHERE l.loan_id=$1`, loanID)

	var out models.LoanWithCustomer
	l, c := &out.Loan, &out.Customer
	err := row.Scan(&l.ID, &l.CustomerID, &l.LoanAmount, &l.Tenure, &l.InterestRate, &l.MonthlyRepayment,
		&l.EMIsPaidOnTime, &l.TotalAmountPaid, &l.AmountWithInterest, &l.StartDate, &l.EndDate,
		&l.Version, &l.CreatedAt, &l.UpdatedAt,
		&c.ID, &c.FirstName, &c.LastName, &c.Age, &c.PhoneNumber,
		&c.MonthlySalary, &c.ApprovedLimit, &c.CurrentDebt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ApplyPayment locks the loan row, lets apply mutate it, and writes the
// mutable columns back with a version bump, all in one transaction. If apply
// returns an error nothing is written. Returns (nil, nil) when the loan does
// not exist for this customer.
func (r *LoanRepository) ApplyPayment(ctx context.Context, customerID, loanID int, apply func(*models.Loan) error) (*models.Loan, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans l
         WHERE l.loan_id=$1 AND l.customer_id=$2
         FOR UPDATE`, loanID, customerID)

	loan, err := scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	previousVersion := loan.Version
	if err := apply(loan); err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx,
		`UPDATE loans SET
             total_amount_paid=$1, emis_paid_on_time=$2, monthly_repayment=$3,
             version=version+1, updated_at=CURRENT_TIMESTAMP
         WHERE loan_id=$4 AND version=$5
         RETURNING version, updated_at`,
		loan.TotalAmountPaid, loan.EMIsPaidOnTime, loan.MonthlyRepayment, loan.ID, previousVersion,
	).Scan(&loan.Version, &loan.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}
	return loan, nil
}

// Upsert inserts a loan with an explicit id or overwrites it. It reports false
// when the id already belongs to a different customer; that row is left alone.
func (r *LoanRepository) Upsert(ctx context.Context, l *models.Loan) (bool, error) {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO loans(loan_id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment,
                           emis_paid_on_time, total_amount_paid, amount_with_interest, start_date, end_date)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
         ON CONFLICT (loan_id) DO UPDATE SET
             loan_amount = EXCLUDED.loan_amount,
             tenure = EXCLUDED.tenure,
             interest_rate = EXCLUDED.interest_rate,
             monthly_repayment = EXCLUDED.monthly_repayment,
             emis_paid_on_time = EXCLUDED.emis_paid_on_time,
             total_amount_paid = EXCLUDED.total_amount_paid,
             amount_with_interest = EXCLUDED.amount_with_interest,
             start_date = EXCLUDED.start_date,
             end_date = EXCLUDED.end_date,
             version = loans.version + 1,
             updated_at = CURRENT_TIMESTAMP
         WHERE loans.customer_id = EXCLUDED.customer_id
         RETURNING version, created_at, updated_at`,
		l.ID, l.CustomerID, l.LoanAmount, l.Tenure, l.InterestRate, l.MonthlyRepayment,
		l.EMIsPaidOnTime, l.TotalAmountPaid, l.AmountWithInterest, l.StartDate, l.EndDate,
	).Scan(&l.Version, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SyncSequence moves the id sequence past ids inserted explicitly by Upsert
func (r *LoanRepository) SyncSequence(ctx context.Context) error {
	_, err := r.DB.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('loans', 'loan_id'),
                       COALESCE((SELECT MAX(loan_id) FROM loans), 0) + 1, false)`)
	return err
}

func scanLoan(row pgx.Row) (*models.Loan, error) {
	var l models.Loan
	err := row.Scan(&l.ID, &l.CustomerID, &l.LoanAmount, &l.Tenure, &l.InterestRate, &l.MonthlyRepayment,
		&l.EMIsPaidOnTime, &l.TotalAmountPaid, &l.AmountWithInterest, &l.StartDate, &l.EndDate,
		&l.Version, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
