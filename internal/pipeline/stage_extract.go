package pipeline

import (
	"context"
	"errors"

	"github.com/Suraj182004/saaraansh/internal/extract"
)

type ExtractStage struct {
	fetcher        extract.Fetcher
	extractor      extract.TextExtractor
	maxPromptChars int
}

func NewExtractStage(fetcher extract.Fetcher, extractor extract.TextExtractor, maxPromptChars int) *ExtractStage {
	return &ExtractStage{
		fetcher:        fetcher,
		extractor:      extractor,
		maxPromptChars: maxPromptChars,
	}
}

func (s *ExtractStage) Name() string {
	return StageExtraction
}

func (s *ExtractStage) Run(ctx context.Context, doc *Document) error {
	content, err := s.fetcher.Fetch(ctx, doc.Upload.SourceRef)
	if err != nil {
		return withKind(extractionKind(err), err)
	}
	if len(content) == 0 {
		return withKind(ErrEmptyDocument, extract.ErrEmptyDocument)
	}

	raw, err := s.extractor.Extract(content)
	if err != nil {
		return withKind(extractionKind(err), err)
	}

	text := extract.Normalize(raw)
	if text == "" {
		return withKind(ErrNoExtractableText, extract.ErrNoExtractableText)
	}
	doc.Text = extract.Truncate(text, s.maxPromptChars)
	return nil
}

func extractionKind(err error) error {
	switch {
	case errors.Is(err, extract.ErrEmptyDocument):
		return ErrEmptyDocument
	case errors.Is(err, extract.ErrNoExtractableText):
		return ErrNoExtractableText
	}
	return ErrFetchFailed
}
