package pipeline

import (
	"context"

	"github.com/Suraj182004/saaraansh/internal/logging"
	"github.com/Suraj182004/saaraansh/internal/summary"
)

// RecordStage persists the summary and debits its credit together. Failures
// are tagged with the persistence or accounting stage they came from.
type RecordStage struct {
	recorder Recorder
}

func NewRecordStage(recorder Recorder) *RecordStage {
	return &RecordStage{recorder: recorder}
}

func (s *RecordStage) Name() string {
	return StagePersistence
}

func (s *RecordStage) Run(ctx context.Context, doc *Document) error {
	id, err := s.recorder.Record(ctx, summary.NewSummary{
		OwnerID:     doc.Upload.OwnerID,
		SourceRef:   doc.Upload.SourceRef,
		Text:        doc.Summary,
		DisplayName: DisplayName(doc.Upload.FileName),
		FileName:    doc.Upload.FileName,
	})
	if err != nil {
		return err
	}
	doc.SummaryID = id
	logging.EnrichSummary(ctx, id.String())
	return nil
}
