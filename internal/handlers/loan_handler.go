package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"loan-backend/internal/models"
	"loan-backend/pkg/utils"
)

// LoanWorkflow is implemented by *services.LoanService
type LoanWorkflow interface {
	CheckEligibility(ctx context.Context, req *models.EligibilityRequest) (*models.EligibilityDecision, error)
	CreateLoan(ctx context.Context, req *models.EligibilityRequest) (*models.CreateLoanResponse, error)
	ViewLoan(ctx context.Context, loanID int) (*models.LoanView, error)
	MakePayment(ctx context.Context, customerID, loanID int, req *models.PaymentRequest) (*models.PaymentResponse, error)
	ViewStatement(ctx context.Context, customerID, loanID int) (*models.LoanStatement, error)
	ViewSchedule(ctx context.Context, customerID, loanID int) (*models.LoanSchedule, error)
	StatementPDF(ctx context.Context, customerID, loanID int) ([]byte, error)
}

type LoanHandler struct {
	Service LoanWorkflow
}

func NewLoanHandler(s LoanWorkflow) *LoanHandler {
	return &LoanHandler{Service: s}
}

// CheckEligibility handles GET|POST /check-eligibility. GET requests without
// a body may pass the fields as query parameters.
func (h *LoanHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	req, ok := eligibilityRequest(w, r)
	if !ok {
		return
	}

	decision, err := h.Service.CheckEligibility(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, decision)
}

// CreateLoan handles POST /create-loan; 201 when approved, 200 when rejected
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	req, ok := eligibilityRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.CreateLoan(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if resp.LoanApproved {
		status = http.StatusCreated
	}
	utils.JSON(w, status, resp)
}

func (h *LoanHandler) ViewLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathInt(r, "loan_id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid loan_id")
		return
	}

	view, err := h.Service.ViewLoan(r.Context(), loanID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, view)
}

func (h *LoanHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	customerID, loanID, ok := customerLoanIDs(w, r)
	if !ok {
		return
	}

	var req models.PaymentRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	resp, err := h.Service.MakePayment(r.Context(), customerID, loanID, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) ViewStatement(w http.ResponseWriter, r *http.Request) {
	customerID, loanID, ok := customerLoanIDs(w, r)
	if !ok {
		return
	}

	statement, err := h.Service.ViewStatement(r.Context(), customerID, loanID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, statement)
}

// StatementPDF handles GET /view-statement/{customer_id}/{loan_id}/pdf
func (h *LoanHandler) StatementPDF(w http.ResponseWriter, r *http.Request) {
	customerID, loanID, ok := customerLoanIDs(w, r)
	if !ok {
		return
	}

	data, err := h.Service.StatementPDF(r.Context(), customerID, loanID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=loan_statement_%d.pdf", loanID))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *LoanHandler) ViewSchedule(w http.ResponseWriter, r *http.Request) {
	customerID, loanID, ok := customerLoanIDs(w, r)
	if !ok {
		return
	}

	schedule, err := h.Service.ViewSchedule(r.Context(), customerID, loanID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, schedule)
}

func eligibilityRequest(w http.ResponseWriter, r *http.Request) (*models.EligibilityRequest, bool) {
	var req models.EligibilityRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgInvalidBody)
		return nil, false
	}

	if r.Method == http.MethodGet && req == (models.EligibilityRequest{}) {
		q := r.URL.Query()
		req.CustomerID, _ = strconv.Atoi(q.Get("customer_id"))
		req.LoanAmount, _ = strconv.ParseFloat(q.Get("loan_amount"), 64)
		req.InterestRate, _ = strconv.ParseFloat(q.Get("interest_rate"), 64)
		req.Tenure, _ = strconv.Atoi(q.Get("tenure"))
	}
	return &req, true
}

func customerLoanIDs(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	customerID, ok := pathInt(r, "customer_id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid customer_id")
		return 0, 0, false
	}
	loanID, ok := pathInt(r, "loan_id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid loan_id")
		return 0, 0, false
	}
	return customerID, loanID, true
}
