package handlers

import (
	"net/http"

	"loan-backend/pkg/utils"
)

func Home(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"greetings": "Hello from loan-backend",
	})
}
