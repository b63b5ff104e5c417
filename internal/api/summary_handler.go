package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/Suraj182004/saaraansh/internal/auth"
	"github.com/Suraj182004/saaraansh/internal/ledger"
	"github.com/Suraj182004/saaraansh/internal/logging"
	"github.com/Suraj182004/saaraansh/internal/models"
	"github.com/Suraj182004/saaraansh/internal/pipeline"
	"github.com/Suraj182004/saaraansh/internal/summary"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const multipartOverheadBytes = 1 << 20

type Ingester interface {
	Ingest(ctx context.Context, upload pipeline.Upload) (*pipeline.Result, error)
}

type ObjectUploader interface {
	Upload(ctx context.Context, ownerID, fileName string, r io.Reader) (string, error)
}

type SummaryHandler struct {
	pipeline       Ingester
	store          summary.Store
	uploader       ObjectUploader
	directory      ledger.EmailProvider
	sources        SourcePolicy
	maxUploadBytes int64
}

func NewSummaryHandler(p Ingester, store summary.Store, uploader ObjectUploader, directory ledger.EmailProvider, sources SourcePolicy, maxUploadBytes int64) *SummaryHandler {
	return &SummaryHandler{
		pipeline:       p,
		store:          store,
		uploader:       uploader,
		directory:      directory,
		sources:        sources,
		maxUploadBytes: maxUploadBytes,
	}
}

type SummaryResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	FileName  string    `json:"fileName"`
	SourceRef string    `json:"sourceRef"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

func newSummaryResponse(s *models.Summary) SummaryResponse {
	return SummaryResponse{
		ID:        s.ID,
		Title:     s.DisplayName,
		FileName:  s.FileName,
		SourceRef: s.SourceRef,
		Summary:   s.Text,
		CreatedAt: s.CreatedAt,
	}
}

// Upload accepts a multipart PDF, stores it and runs the ingestion pipeline.
func (h *SummaryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	acct, ok := ledger.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverheadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "file_too_large", "PDF exceeds the upload size limit")
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid_request", "A PDF must be sent in the \"file\" field")
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		writeError(w, r, http.StatusRequestEntityTooLarge, "file_too_large", "PDF exceeds the upload size limit")
		return
	}
	content, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "Could not read the uploaded file")
		return
	}
	if int64(len(content)) > h.maxUploadBytes {
		writeError(w, r, http.StatusRequestEntityTooLarge, "file_too_large", "PDF exceeds the upload size limit")
		return
	}
	if len(content) == 0 {
		writeError(w, r, http.StatusUnprocessableEntity, "empty_document", "The uploaded file is empty. Please upload a PDF with content.")
		return
	}
	if mtype := mimetype.Detect(content); !mtype.Is("application/pdf") {
		logging.EnrichMetadata(r.Context(), "detected_mime", mtype.String())
		writeError(w, r, http.StatusUnsupportedMediaType, "unsupported_media_type", "Only PDF files can be summarized")
		return
	}

	fileName := header.Filename
	if fileName == "" {
		fileName = defaultUploadName
	}
	logging.EnrichDocument(r.Context(), fileName, "")

	sourceRef, err := h.uploader.Upload(r.Context(), acct.ID, fileName, bytes.NewReader(content))
	if err != nil {
		logging.EnrichError(r.Context(), err, "upload")
		writeError(w, r, http.StatusBadGateway, "storage_unavailable", "Could not store the upload, please retry")
		return
	}

	h.ingest(w, r, acct.ID, sourceRef, fileName)
}

// Ingest runs the pipeline on a file that a client-side uploader already
// stored. The body is that uploader's response.
func (h *SummaryHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	acct, ok := ledger.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	upload, err := ParseUploadResponse(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "Upload response has no file URL")
		return
	}
	if !h.sources.Allows(acct.ID, upload.URL) {
		writeError(w, r, http.StatusBadRequest, "invalid_source", "File URL is not an accepted upload location")
		return
	}

	h.ingest(w, r, acct.ID, upload.URL, upload.Name)
}

func (h *SummaryHandler) ingest(w http.ResponseWriter, r *http.Request, ownerID, sourceRef, fileName string) {
	var emails ledger.EmailProvider = h.directory
	if user, ok := auth.GetUserFromContext(r.Context()); ok {
		emails = ledger.IdentityEmails(user, h.directory)
	}

	res, err := h.pipeline.Ingest(r.Context(), pipeline.Upload{
		OwnerID:   ownerID,
		SourceRef: sourceRef,
		FileName:  fileName,
		Emails:    emails,
	})
	if err != nil {
		writePipelineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *SummaryHandler) List(w http.ResponseWriter, r *http.Request) {
	acct, ok := ledger.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	summaries, err := h.store.ListByOwner(r.Context(), acct.ID)
	if err != nil {
		logging.EnrichError(r.Context(), err, "list_summaries")
		writeError(w, r, http.StatusInternalServerError, "internal_error", internalServerError)
		return
	}
	if r.URL.Query().Get("order") == "desc" {
		slices.Reverse(summaries)
	}

	resp := make([]SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, newSummaryResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	acct, ok := ledger.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, http.StatusNotFound, "not_found", "Summary not found")
		return
	}

	s, err := h.store.GetByID(r.Context(), id, acct.ID)
	if err != nil {
		if errors.Is(err, summary.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "Summary not found")
			return
		}
		logging.EnrichError(r.Context(), err, "get_summary")
		writeError(w, r, http.StatusInternalServerError, "internal_error", internalServerError)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(s))
}
