package api

import (
	"encoding/json"
	"net/http"

	"github.com/Suraj182004/saaraansh/internal/logger"
	"github.com/Suraj182004/saaraansh/internal/logging"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	FileName  string `json:"fileName,omitempty"`
	SourceRef string `json:"sourceRef,omitempty"`
	TraceID   string `json:"traceId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode JSON response", "error", err)
	}
}

// writeError carries the request's trace id so a reported failure can be
// matched to its log event.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message, TraceID: logging.GetTraceID(r.Context())})
}
