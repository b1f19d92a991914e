package handlers

import (
	"context"
	"net/http"

	"loan-backend/internal/models"
	"loan-backend/pkg/utils"
)

// CustomerRegistrar is implemented by *services.CustomerService
type CustomerRegistrar interface {
	Register(ctx context.Context, req *models.RegisterCustomerRequest) (*models.RegisterCustomerResponse, error)
}

type CustomerHandler struct {
	Service CustomerRegistrar
}

func NewCustomerHandler(s CustomerRegistrar) *CustomerHandler {
	return &CustomerHandler{Service: s}
}

// Register handles POST /register
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCustomerRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	customer, err := h.Service.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, customer)
}
