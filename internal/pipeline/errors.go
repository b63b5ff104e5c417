package pipeline

import (
	"errors"
	"fmt"

	"github.com/Suraj182004/saaraansh/internal/ledger"
)

var (
	ErrCreditsExhausted    = errors.New("credits exhausted")
	ErrFetchFailed         = errors.New("fetch failed")
	ErrEmptyDocument       = errors.New("empty document")
	ErrNoExtractableText   = errors.New("no extractable text")
	ErrSummarizationFailed = errors.New("summarization failed")
	ErrPersistenceFailed   = errors.New("persistence failed")
	ErrAccountingFailed    = errors.New("accounting failed")
)

// StageError reports which stage stopped an ingestion, the failure kind and
// whatever document context was known at that point.
type StageError struct {
	Stage     string
	Kind      error
	FileName  string
	SourceRef string
	Err       error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Code is the stable machine-readable name of the failure kind.
func (e *StageError) Code() string {
	switch e.Kind {
	case ErrCreditsExhausted:
		return "credits_exhausted"
	case ErrFetchFailed:
		return "fetch_failed"
	case ErrEmptyDocument:
		return "empty_document"
	case ErrNoExtractableText:
		return "no_extractable_text"
	case ErrSummarizationFailed:
		return "summarization_failed"
	case ErrPersistenceFailed:
		return "persistence_failed"
	case ErrAccountingFailed:
		return "accounting_failed"
	case ledger.ErrIdentityUnavailable:
		return "identity_unavailable"
	}
	return "ledger_unavailable"
}

func (e *StageError) UserMessage() string {
	switch e.Kind {
	case ErrCreditsExhausted:
		return "You have used all of your credits for this period. Upgrade your plan or wait for your credits to reset."
	case ErrFetchFailed:
		return "We could not download your document. Please try uploading it again."
	case ErrEmptyDocument:
		return "The uploaded file is empty. Please upload a PDF with content."
	case ErrNoExtractableText:
		return "This PDF has no extractable text. Scanned or image-only PDFs need to be converted with OCR first."
	case ErrSummarizationFailed:
		return "We could not generate a summary right now. Please try again in a few minutes."
	case ErrPersistenceFailed:
		return "Your summary could not be saved. No credit was used. Please try again."
	case ErrAccountingFailed:
		return "We could not record this summary against your credits. Please try again."
	case ledger.ErrIdentityUnavailable:
		return "We could not verify your account email. Please sign in again."
	}
	return "Your account is temporarily unavailable. Please try again."
}

// kindError tags err with a failure kind. The pipeline turns it into a
// StageError once the failing stage is known.
type kindError struct {
	stage string
	kind  error
	err   error
}

func (e *kindError) Error() string {
	if e.err == nil {
		return e.kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.kind, e.err)
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.err}
}

func withKind(kind, err error) error {
	return &kindError{kind: kind, err: err}
}

// withStageKind is withKind for a stage that reports on behalf of another.
func withStageKind(stage string, kind, err error) error {
	return &kindError{stage: stage, kind: kind, err: err}
}

func asStageError(stage string, doc *Document, err error) *StageError {
	se := &StageError{
		Stage:     stage,
		Kind:      ledger.ErrLedgerUnavailable,
		FileName:  doc.Upload.FileName,
		SourceRef: doc.Upload.SourceRef,
		Err:       err,
	}
	var ke *kindError
	switch {
	case errors.As(err, &ke):
		se.Kind = ke.kind
		se.Err = ke.err
		if ke.stage != "" {
			se.Stage = ke.stage
		}
	case errors.Is(err, ledger.ErrIdentityUnavailable):
		se.Kind = ledger.ErrIdentityUnavailable
	}
	return se
}
