package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Customer struct {
	ID            int       `json:"customer_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Age           int       `json:"age"`
	PhoneNumber   string    `json:"phone_number"`
	MonthlySalary float64   `json:"monthly_salary"`
	ApprovedLimit float64   `json:"approved_limit"`
	CurrentDebt   float64   `json:"current_debt"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FullName joins first and last name the way registration responses show it
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// PhoneNumber accepts both JSON numbers and strings; seed data and older
// clients send phone numbers as plain integers.
type PhoneNumber string

func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = PhoneNumber(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("phone_number must be a string or number: %w", err)
	}
	*p = PhoneNumber(n.String())
	return nil
}

// RegisterCustomerRequest represents the request body for registering a customer.
// monthly_salary is accepted as an alias of monthly_income.
type RegisterCustomerRequest struct {
	FirstName     string      `json:"first_name" validate:"required"`
	LastName      string      `json:"last_name" validate:"required"`
	Age           int         `json:"age" validate:"required,gt=0"`
	MonthlyIncome float64     `json:"monthly_income" validate:"required,gt=0"`
	MonthlySalary float64     `json:"monthly_salary,omitempty"`
	PhoneNumber   PhoneNumber `json:"phone_number" validate:"required"`
}

// RegisterCustomerResponse is returned on successful registration
type RegisterCustomerResponse struct {
	CustomerID    int     `json:"customer_id"`
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	MonthlyIncome float64 `json:"monthly_income"`
	ApprovedLimit float64 `json:"approved_limit"`
	PhoneNumber   string  `json:"phone_number"`
}

// CustomerSummary is the customer block embedded in the loan view
type CustomerSummary struct {
	CustomerID  int    `json:"customer_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         int    `json:"age"`
}
