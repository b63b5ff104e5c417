package auth

import (
	"encoding/json"
	"net/http"

	"github.com/Suraj182004/saaraansh/internal/logger"
	"github.com/Suraj182004/saaraansh/internal/logging"
)

type AuthError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	TraceID string `json:"traceId,omitempty"`
}

func writeJSONError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(AuthError{
		Code:    code,
		Message: message,
		TraceID: logging.GetTraceID(r.Context()),
	}); err != nil {
		logger.Log.Error("failed to write auth error", "error", err)
	}
}
