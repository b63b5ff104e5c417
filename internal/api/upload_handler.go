package api

import (
	"net/http"

	"github.com/Suraj182004/saaraansh/internal/gcs"
	"github.com/Suraj182004/saaraansh/internal/ledger"
	"github.com/Suraj182004/saaraansh/internal/logging"
	"github.com/go-playground/validator/v10"
)

type SignedURLIssuer interface {
	SignedUploadURL(ownerID string) (*gcs.SignedUpload, error)
}

type UploadHandler struct {
	issuer         SignedURLIssuer
	maxUploadBytes int64
	validate       *validator.Validate
}

func NewUploadHandler(issuer SignedURLIssuer, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{
		issuer:         issuer,
		maxUploadBytes: maxUploadBytes,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

type SignedURLRequest struct {
	ContentType string `json:"contentType" validate:"required,eq=application/pdf"`
	Length      int64  `json:"length" validate:"required,gt=0"`
}

func (h *UploadHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	acct, ok := ledger.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req SignedURLRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	if req.Length > h.maxUploadBytes {
		writeError(w, r, http.StatusRequestEntityTooLarge, "file_too_large", "PDF exceeds the upload size limit")
		return
	}

	upload, err := h.issuer.SignedUploadURL(acct.ID)
	if err != nil {
		logging.EnrichError(r.Context(), err, "signed_url")
		writeError(w, r, http.StatusBadGateway, "storage_unavailable", "Could not prepare the upload, please retry")
		return
	}
	writeJSON(w, http.StatusOK, upload)
}
