package pipeline

import (
	"context"

	"github.com/Suraj182004/saaraansh/internal/ledger"
	"github.com/Suraj182004/saaraansh/internal/models"
	"github.com/google/uuid"
)

// Upload is one document submitted for summarization.
type Upload struct {
	OwnerID   string
	SourceRef string
	FileName  string
	// Emails resolves the owner's verified email when the account does not
	// exist yet.
	Emails ledger.EmailProvider
}

// Document carries an upload through the stages. Each stage fills in the
// fields the next one reads.
type Document struct {
	Upload    Upload
	Account   *models.Account
	Text      string
	Summary   string
	Model     string
	SummaryID uuid.UUID
}

type Stage interface {
	Run(ctx context.Context, doc *Document) error
	Name() string
}

const (
	StageAdmission     = "admission"
	StageExtraction    = "extraction"
	StageSummarization = "summarization"
	StagePersistence   = "persistence"
	StageAccounting    = "accounting"
)
