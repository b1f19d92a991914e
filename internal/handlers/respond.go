package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"loan-backend/internal/credit"
	"loan-backend/internal/logger"
	"loan-backend/internal/services"
	"loan-backend/pkg/utils"
)

const (
	msgInvalidBody    = "Invalid request body"
	msgInternalServer = "Internal server error"
)

// writeServiceError maps service errors to status codes. Unclassified errors
// are logged and never shown to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *services.RequestError
	switch {
	case errors.As(err, &reqErr) && errors.Is(err, services.ErrValidation):
		utils.Error(w, http.StatusBadRequest, reqErr.Message)
	case errors.As(err, &reqErr) && errors.Is(err, services.ErrNotFound):
		utils.Error(w, http.StatusNotFound, reqErr.Message)
	case errors.Is(err, credit.ErrDivisionGuard):
		utils.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.Error(r.Context(), "[API] %s %s failed: %v", r.Method, r.URL.Path, err)
		utils.Error(w, http.StatusInternalServerError, msgInternalServer)
	}
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched
// so validation reports the missing fields.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// pathInt reads a numeric route variable
func pathInt(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
