package pipeline

import (
	"context"

	"github.com/Suraj182004/saaraansh/internal/services"
)

type SummarizeStage struct {
	summarizer services.Summarizer
}

func NewSummarizeStage(summarizer services.Summarizer) *SummarizeStage {
	return &SummarizeStage{summarizer: summarizer}
}

func (s *SummarizeStage) Name() string {
	return StageSummarization
}

func (s *SummarizeStage) Run(ctx context.Context, doc *Document) error {
	result, err := s.summarizer.Summarize(ctx, doc.Text)
	if err != nil {
		return withKind(ErrSummarizationFailed, err)
	}
	doc.Summary = result.Text
	doc.Model = result.Model
	return nil
}
