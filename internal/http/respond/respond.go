package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code    int               `json:"code"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	Raw(w, status, Envelope{Code: status, Success: status < http.StatusBadRequest, Message: message, Data: data})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	Raw(w, status, Envelope{Code: status, Message: message})
}

// Invalid writes a 422 carrying per-field validation messages.
func Invalid(w http.ResponseWriter, message string, errs map[string]string) {
	Raw(w, http.StatusUnprocessableEntity, Envelope{Code: http.StatusUnprocessableEntity, Message: message, Errors: errs})
}

// Raw writes payload as JSON with status.
func Raw(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("respond: encode payload failed", zap.Error(err))
	}
}
