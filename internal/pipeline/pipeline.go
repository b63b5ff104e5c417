// Package pipeline turns one uploaded document into a stored summary:
// admission, extraction, summarization, then persistence and accounting
// committed together.
package pipeline

import (
	"context"
	"time"

	"github.com/Suraj182004/saaraansh/internal/logging"
	"github.com/Suraj182004/saaraansh/internal/metrics"
	"github.com/google/uuid"
)

type Result struct {
	SummaryID uuid.UUID `json:"summaryId"`
	Text      string    `json:"summary"`
	SourceRef string    `json:"sourceRef"`
	FileName  string    `json:"fileName"`
	Model     string    `json:"model,omitempty"`
}

type Pipeline struct {
	stages []Stage
}

func NewPipeline(stages []Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Ingest runs every stage in order and stops at the first failure, which is
// returned as a *StageError. Stages already completed are not undone.
func (p *Pipeline) Ingest(ctx context.Context, upload Upload) (*Result, error) {
	doc := &Document{Upload: upload}
	logging.EnrichDocument(ctx, upload.FileName, upload.SourceRef)

	for _, stage := range p.stages {
		start := time.Now()
		err := stage.Run(ctx, doc)
		duration := time.Since(start)

		metrics.ObserveStage(stage.Name(), duration, err)
		logging.EmitStageEvent(ctx, stage.Name(), duration, err)

		if err != nil {
			se := asStageError(stage.Name(), doc, err)
			logging.EnrichError(ctx, se, stage.Name())
			metrics.IngestionsTotal.WithLabelValues(se.Code()).Inc()
			return nil, se
		}
		logging.EnrichStage(ctx, stage.Name(), duration)
	}

	metrics.IngestionsTotal.WithLabelValues("completed").Inc()
	return &Result{
		SummaryID: doc.SummaryID,
		Text:      doc.Summary,
		SourceRef: upload.SourceRef,
		FileName:  upload.FileName,
		Model:     doc.Model,
	}, nil
}
