package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loan-backend/internal/handlers"
	"loan-backend/internal/middleware"
	"loan-backend/pkg/utils"
)

const apiPrefix = "/api/v1"

// NewRouter registers every route on the root router. mux subrouters lose the
// method-mismatch result, so /api/v1 routes carry the prefix in their path to
// keep wrong-method requests answering 405.
func NewRouter(
	customerHandler *handlers.CustomerHandler,
	loanHandler *handlers.LoanHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc("/", handlers.Home).Methods("GET")

	// Customers
	r.HandleFunc(apiPrefix+"/register", customerHandler.Register).Methods("POST")

	// Loans
	r.HandleFunc(apiPrefix+"/check-eligibility", loanHandler.CheckEligibility).Methods("GET", "POST")
	r.HandleFunc(apiPrefix+"/create-loan", loanHandler.CreateLoan).Methods("POST")
	r.HandleFunc(apiPrefix+"/view-loan/{loan_id:[0-9]+}", loanHandler.ViewLoan).Methods("GET")
	r.HandleFunc(apiPrefix+"/make-payment/{customer_id:[0-9]+}/{loan_id:[0-9]+}", loanHandler.MakePayment).Methods("POST")
	r.HandleFunc(apiPrefix+"/view-statement/{customer_id:[0-9]+}/{loan_id:[0-9]+}", loanHandler.ViewStatement).Methods("GET")
	r.HandleFunc(apiPrefix+"/view-statement/{customer_id:[0-9]+}/{loan_id:[0-9]+}/pdf", loanHandler.StatementPDF).Methods("GET")
	r.HandleFunc(apiPrefix+"/view-schedule/{customer_id:[0-9]+}/{loan_id:[0-9]+}", loanHandler.ViewSchedule).Methods("GET")

	// Health endpoints (Kubernetes liveness/readiness)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.Error(w, http.StatusNotFound, "Route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}
