package api

import (
	"errors"
	"net/http"

	"github.com/Suraj182004/saaraansh/internal/ledger"
	"github.com/Suraj182004/saaraansh/internal/logging"
	"github.com/Suraj182004/saaraansh/internal/pipeline"
)

func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	logging.EnrichError(r.Context(), err, "ledger")
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "account_not_found", "Account not found")
		return
	}
	writeError(w, r, http.StatusServiceUnavailable, "ledger_unavailable", "Account service unavailable, please retry")
}

func stageErrorStatus(se *pipeline.StageError) int {
	switch se.Kind {
	case pipeline.ErrCreditsExhausted:
		return http.StatusPaymentRequired
	case pipeline.ErrFetchFailed:
		return http.StatusBadGateway
	case pipeline.ErrEmptyDocument, pipeline.ErrNoExtractableText:
		return http.StatusUnprocessableEntity
	case pipeline.ErrSummarizationFailed:
		return http.StatusServiceUnavailable
	case ledger.ErrIdentityUnavailable:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	var se *pipeline.StageError
	if !errors.As(err, &se) {
		logging.EnrichError(r.Context(), err, "pipeline")
		writeError(w, r, http.StatusInternalServerError, "internal_error", internalServerError)
		return
	}
	writeJSON(w, stageErrorStatus(se), ErrorResponse{
		Error:     se.Code(),
		Message:   se.UserMessage(),
		FileName:  se.FileName,
		SourceRef: se.SourceRef,
		TraceID:   logging.GetTraceID(r.Context()),
	})
}
