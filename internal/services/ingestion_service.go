package services

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"loan-backend/internal/credit"
	"loan-backend/internal/logger"
	"loan-backend/internal/metrics"
	"loan-backend/internal/models"
	"loan-backend/internal/sheets"
	"loan-backend/internal/timeutil"
)

// Seed columns: spreadsheet heading first, then alternate names seen in older exports.
var (
	colCustomerID     = []string{"Customer ID"}
	colFirstName      = []string{"First Name"}
	colLastName       = []string{"Last Name"}
	colAge            = []string{"Age"}
	colPhoneNumber    = []string{"Phone Number"}
	colMonthlySalary  = []string{"Monthly Salary"}
	colApprovedLimit  = []string{"Approved Limit"}
	colLoanID         = []string{"Loan ID"}
	colLoanAmount     = []string{"Loan Amount"}
	colTenure         = []string{"Tenure"}
	colInterestRate   = []string{"Interest Rate"}
	colMonthlyPayment = []string{"Monthly payment", "monthly_repayment"}
	colEMIsPaidOnTime = []string{"EMIs paid on Time"}
	colDateOfApproval = []string{"Date of Approval", "start_date"}
	colEndDate        = []string{"End Date"}

	customerSeedFields = [][]string{colCustomerID, colFirstName, colLastName, colAge, colPhoneNumber, colMonthlySalary, colApprovedLimit}
	loanSeedFields     = [][]string{colCustomerID, colLoanID, colLoanAmount, colTenure, colInterestRate, colMonthlyPayment, colEMIsPaidOnTime, colDateOfApproval, colEndDate}
)

// IngestionService bulk-loads customers and loans from seed spreadsheets
type IngestionService struct {
	Customers CustomerStore
	Loans     LoanStore
	Source    SeedSource
	now       func() time.Time
}

func NewIngestionService(customers CustomerStore, loans LoanStore, source SeedSource) *IngestionService {
	return &IngestionService{
		Customers: customers,
		Loans:     loans,
		Source:    source,
		now:       timeutil.Now,
	}
}

// SetClock overrides the time used to decide which loans count as current debt
func (s *IngestionService) SetClock(now func() time.Time) {
	s.now = now
}

// Run loads the customer file then the loan file and refreshes every
// customer's current debt. A file that cannot be opened or parsed is logged
// and skipped; row failures are reported in the returned results.
func (s *IngestionService) Run(ctx context.Context, customerFile, loanFile string) ([]*models.IngestionResult, error) {
	var results []*models.IngestionResult

	if result := s.ingestFile(ctx, customerFile, s.IngestCustomers); result != nil {
		results = append(results, result)
		if err := s.Customers.SyncSequence(ctx); err != nil {
			return results, fmt.Errorf("sync customer ids: %w", err)
		}
	}

	if result := s.ingestFile(ctx, loanFile, s.IngestLoans); result != nil {
		results = append(results, result)
		if err := s.Loans.SyncSequence(ctx); err != nil {
			return results, fmt.Errorf("sync loan ids: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}

	updated, err := s.Customers.RefreshCurrentDebt(ctx, s.now())
	if err != nil {
		return results, fmt.Errorf("refresh current debt: %w", err)
	}
	logger.Info(ctx, "[Ingestion] Refreshed current debt for %d customers", updated)
	return results, nil
}

type ingestFunc func(ctx context.Context, name string, r io.Reader) (*models.IngestionResult, error)

func (s *IngestionService) ingestFile(ctx context.Context, location string, ingest ingestFunc) *models.IngestionResult {
	if location == "" {
		return nil
	}

	rc, err := s.Source.Open(ctx, location)
	if err != nil {
		logger.Warn(ctx, "[Ingestion] Skipping %s: %v", location, err)
		return nil
	}
	defer rc.Close()

	result, err := ingest(ctx, location, rc)
	if err != nil {
		logger.Error(ctx, "[Ingestion] Failed to load %s: %v", location, err)
		return result
	}

	logger.Info(ctx, "[Ingestion] %s: %d rows loaded, %d rows failed",
		location, len(result.Succeeded), len(result.Failed))
	return result
}

// IngestCustomers upserts every customer row of the seed file
func (s *IngestionService) IngestCustomers(ctx context.Context, name string, r io.Reader) (*models.IngestionResult, error) {
	table, err := readSeedTable(r, name, customerSeedFields)
	if err != nil {
		return nil, err
	}

	result := &models.IngestionResult{Source: name}
	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rowNum := i + 2 // header is row 1
		rawID := table.Value(row, colCustomerID...)

		customer, err := parseCustomerRow(table, row)
		if err == nil {
			err = s.Customers.Upsert(ctx, customer)
		}
		if err != nil {
			s.recordFailure(ctx, result, "customers", rowNum, rawID, err)
			continue
		}

		result.AddSuccess(customer.ID)
		metrics.IngestionRows.WithLabelValues("customers", "success").Inc()
		logger.Debug(ctx, "[Ingestion] added customer %d", customer.ID)
	}
	return result, nil
}

// IngestLoans upserts every loan row of the seed file. Rows whose customer
// does not exist fail individually.
func (s *IngestionService) IngestLoans(ctx context.Context, name string, r io.Reader) (*models.IngestionResult, error) {
	table, err := readSeedTable(r, name, loanSeedFields)
	if err != nil {
		return nil, err
	}

	result := &models.IngestionResult{Source: name}
	knownCustomers := make(map[int]bool)

	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rowNum := i + 2
		rawID := table.Value(row, colLoanID...)

		loan, err := parseLoanRow(table, row)
		if err == nil {
			err = s.ensureCustomer(ctx, knownCustomers, loan.CustomerID)
		}
		if err == nil {
			var stored bool
			stored, err = s.Loans.Upsert(ctx, loan)
			if err == nil && !stored {
				err = fmt.Errorf("loan %d already belongs to another customer", loan.ID)
			}
		}
		if err != nil {
			s.recordFailure(ctx, result, "loans", rowNum, rawID, err)
			continue
		}

		result.AddSuccess(loan.ID)
		metrics.IngestionRows.WithLabelValues("loans", "success").Inc()
		logger.Debug(ctx, "[Ingestion] added loan %d", loan.ID)
	}
	return result, nil
}

func (s *IngestionService) ensureCustomer(ctx context.Context, known map[int]bool, customerID int) error {
	if known[customerID] {
		return nil
	}
	customer, err := s.Customers.Get(ctx, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return fmt.Errorf("customer %d not found", customerID)
	}
	known[customerID] = true
	return nil
}

func (s *IngestionService) recordFailure(ctx context.Context, result *models.IngestionResult, source string, row int, id string, err error) {
	result.AddFailure(row, id, err.Error())
	metrics.IngestionRows.WithLabelValues(source, "failure").Inc()
	logger.Warn(ctx, "[Ingestion] %s row %d (id %q) skipped: %v", source, row, id, err)
}

func readSeedTable(r io.Reader, name string, required [][]string) (*sheets.Table, error) {
	table, err := sheets.Read(r, name)
	if err != nil {
		return nil, err
	}

	if missing := table.Missing(required...); len(missing) > 0 {
		return nil, fmt.Errorf("%s is missing columns: %s", name, strings.Join(missing, ", "))
	}
	return table, nil
}

func parseCustomerRow(table *sheets.Table, row []string) (*models.Customer, error) {
	var p rowParser
	c := &models.Customer{
		ID:            p.int(table.Value(row, colCustomerID...), "customer id"),
		FirstName:     p.text(table.Value(row, colFirstName...), "first name"),
		LastName:      p.text(table.Value(row, colLastName...), "last name"),
		Age:           p.int(table.Value(row, colAge...), "age"),
		PhoneNumber:   normalizePhone(p.text(table.Value(row, colPhoneNumber...), "phone number")),
		MonthlySalary: p.float(table.Value(row, colMonthlySalary...), "monthly salary"),
		ApprovedLimit: p.float(table.Value(row, colApprovedLimit...), "approved limit"),
	}
	if p.err != nil {
		return nil, p.err
	}
	if c.ID <= 0 {
		return nil, fmt.Errorf("customer id must be positive")
	}
	return c, nil
}

func parseLoanRow(table *sheets.Table, row []string) (*models.Loan, error) {
	var p rowParser
	l := &models.Loan{
		ID:               p.int(table.Value(row, colLoanID...), "loan id"),
		CustomerID:       p.int(table.Value(row, colCustomerID...), "customer id"),
		LoanAmount:       p.float(table.Value(row, colLoanAmount...), "loan amount"),
		Tenure:           p.int(table.Value(row, colTenure...), "tenure"),
		InterestRate:     p.float(table.Value(row, colInterestRate...), "interest rate"),
		MonthlyRepayment: p.float(table.Value(row, colMonthlyPayment...), "monthly payment"),
		EMIsPaidOnTime:   p.int(table.Value(row, colEMIsPaidOnTime...), "emis paid on time"),
		StartDate:        p.date(table.Value(row, colDateOfApproval...), "date of approval"),
		EndDate:          p.date(table.Value(row, colEndDate...), "end date"),
	}
	if p.err != nil {
		return nil, p.err
	}
	if l.ID <= 0 || l.CustomerID <= 0 {
		return nil, fmt.Errorf("loan id and customer id must be positive")
	}
	if l.Tenure <= 0 {
		return nil, fmt.Errorf("tenure must be positive")
	}

	l.AmountWithInterest = credit.TotalRepayable(l.MonthlyRepayment, l.Tenure)
	l.TotalAmountPaid = credit.TotalRepayable(l.MonthlyRepayment, l.EMIsPaidOnTime)
	return l, nil
}

// rowParser keeps the first conversion error so a row can be parsed in one pass
type rowParser struct {
	err error
}

func (p *rowParser) fail(field, value string, reason string) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %s", field, value, reason)
	}
}

func (p *rowParser) text(value, field string) string {
	if value == "" {
		p.fail(field, value, "required")
	}
	return value
}

func (p *rowParser) float(value, field string) float64 {
	if value == "" {
		p.fail(field, value, "required")
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		p.fail(field, value, "not a number")
		return 0
	}
	return f
}

// int accepts integral floats ("12" or "12.0") since spreadsheet cells are numeric
func (p *rowParser) int(value, field string) int {
	f := p.float(value, field)
	if f != math.Trunc(f) {
		p.fail(field, value, "not a whole number")
		return 0
	}
	return int(f)
}

func (p *rowParser) date(value, field string) time.Time {
	if value == "" {
		p.fail(field, value, "required")
		return time.Time{}
	}
	t, err := timeutil.ParseSeedDate(value)
	if err != nil {
		p.fail(field, value, err.Error())
	}
	return t
}

// normalizePhone turns numeric cells written in exponent form back into digits
func normalizePhone(value string) string {
	if !strings.ContainsAny(value, "eE") {
		return value
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return value
}
