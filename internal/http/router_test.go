package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-backend/internal/handlers"
	"loan-backend/internal/health"
	"loan-backend/internal/models"
)

type stubPinger struct{}

func (stubPinger) Ping(ctx context.Context) error { return nil }

type stubLoans struct {
	handlers.LoanWorkflow
	viewed int
}

func (s *stubLoans) ViewLoan(ctx context.Context, loanID int) (*models.LoanView, error) {
	s.viewed = loanID
	return &models.LoanView{LoanID: loanID}, nil
}

func newTestRouter(loans handlers.LoanWorkflow) http.Handler {
	return NewRouter(
		handlers.NewCustomerHandler(nil),
		handlers.NewLoanHandler(loans),
		handlers.NewHealthHandler(health.NewHealthChecker(stubPinger{}, nil)),
	)
}

func TestRouter_Routes(t *testing.T) {
	loans := &stubLoans{}
	router := newTestRouter(loans)

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/view-loan/42", http.StatusOK},
		{http.MethodGet, "/api/v1/view-loan/abc", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/view-loan/42", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/create-loan", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	assert.Equal(t, 42, loans.viewed)
}

func TestRouter_WrongMethodAnswersJSON405(t *testing.T) {
	router := newTestRouter(&stubLoans{})

	for _, path := range []string{"/api/v1/register", "/api/v1/make-payment/1/42", "/api/v1/view-statement/1/42/pdf"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
		assert.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String(), path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, rec.Body.String())
}

func TestRouter_MetricsExposeRouteTemplate(t *testing.T) {
	router := newTestRouter(&stubLoans{})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/view-loan/7", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `path="/api/v1/view-loan/{loan_id:[0-9]+}"`), "route template label missing")
	assert.False(t, strings.Contains(body, `path="/api/v1/view-loan/7"`))
}
