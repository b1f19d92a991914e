package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"loan-backend/internal/models"
)

type CustomerRepository struct {
	DB DB
}

func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `customer_id, first_name, last_name, age, phone_number,
                monthly_salary, approved_limit, current_debt, created_at, updated_at`

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO customers(first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt)
         VALUES($1, $2, $3, $4, $5, $6, $7)
         RETURNING customer_id, created_at, updated_at`,
		c.FirstName, c.LastName, c.Age, c.PhoneNumber, c.MonthlySalary, c.ApprovedLimit, c.CurrentDebt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Get returns the customer or (nil, nil) when no such customer exists
func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+`
         FROM customers WHERE customer_id=$1`, id)

	customer, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return customer, err
}

// Upsert inserts a customer with an explicit id or overwrites the existing row
func (r *CustomerRepository) Upsert(ctx context.Context, c *models.Customer) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO customers(customer_id, first_name, last_name, age, phone_number,
                               monthly_salary, approved_limit, current_debt)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8)
         ON CONFLICT (customer_id) DO UPDATE SET
             first_name = EXCLUDED.first_name,
             last_name = EXCLUDED.last_name,
             age = EXCLUDED.age,
             phone_number = EXCLUDED.phone_number,
             monthly_salary = EXCLUDED.monthly_salary,
             approved_limit = EXCLUDED.approved_limit,
             updated_at = CURRENT_TIMESTAMP
         RETURNING created_at, updated_at`,
		c.ID, c.FirstName, c.LastName, c.Age, c.PhoneNumber, c.MonthlySalary, c.ApprovedLimit, c.CurrentDebt,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// RefreshCurrentDebt recomputes current_debt for every customer as the sum of
// loan_amount over loans that have not ended at now.
func (r *CustomerRepository) RefreshCurrentDebt(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE customers c SET
             current_debt = COALESCE((
                 SELECT SUM(l.loan_amount) FROM loans l
                 WHERE l.customer_id = c.customer_id AND l.end_date >= $1
             ), 0),
             updated_at = CURRENT_TIMESTAMP`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SyncSequence moves the id sequence past ids inserted explicitly by Upsert
func (r *CustomerRepository) SyncSequence(ctx context.Context) error {
	_, err := r.DB.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('customers', 'customer_id'),
                       COALESCE((SELECT MAX(customer_id) FROM customers), 0) + 1, false)`)
	return err
}

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Age, &c.PhoneNumber,
		&c.MonthlySalary, &c.ApprovedLimit, &c.CurrentDebt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
