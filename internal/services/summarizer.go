package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Suraj182004/saaraansh/internal/logging"
	"github.com/Suraj182004/saaraansh/internal/metrics"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoModels        = errors.New("summarizer: no models configured")
	ErrEmptyInput      = errors.New("summarizer: input text is empty")
	ErrEmptyResponse   = errors.New("summarizer: model returned an empty summary")
	ErrAllModelsFailed = errors.New("summarizer: every model failed")
)

type SummaryResult struct {
	Text  string
	Model string
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (*SummaryResult, error)
}

// GeminiSummarizer asks each configured model in order and returns the first
// non-empty summary.
type GeminiSummarizer struct {
	client        IAIClient
	promptBuilder ISummaryPromptBuilder
	tracker       IUsageTracker
	models        []string
}

type GeminiSummarizerOption = func(s *GeminiSummarizer) error

func NewGeminiSummarizer(client IAIClient, models []string, opts ...GeminiSummarizerOption) (*GeminiSummarizer, error) {
	if len(models) == 0 {
		return nil, ErrNoModels
	}
	s := &GeminiSummarizer{
		client:        client,
		promptBuilder: NewSummaryPromptBuilder(),
		models:        append([]string(nil), models...),
	}
	if err := applyFuncOptions(s, opts...); err != nil {
		return nil, fmt.Errorf("failed to apply options: %w", err)
	}
	return s, nil
}

func WithPromptBuilder(builder ISummaryPromptBuilder) GeminiSummarizerOption {
	return func(s *GeminiSummarizer) error {
		s.promptBuilder = builder
		return nil
	}
}

func WithUsageTracker(tracker IUsageTracker) GeminiSummarizerOption {
	return func(s *GeminiSummarizer) error {
		s.tracker = tracker
		return nil
	}
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, text string) (*SummaryResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	prompt := s.promptBuilder.Build(text)

	var errs *multierror.Error
	for _, model := range s.models {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}

		log.Debug().
			Str("model", model).
			Int("promptChars", len(prompt)).
			Msg("Requesting summary")

		summary, err := s.attempt(ctx, model, prompt)
		if err != nil {
			metrics.ModelAttemptsTotal.WithLabelValues(model, "error").Inc()
			log.Debug().
				Err(err).
				Str("model", model).
				Msg("Model failed, trying next")
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", model, err))
			continue
		}

		metrics.ModelAttemptsTotal.WithLabelValues(model, "ok").Inc()
		logging.EnrichModel(ctx, model)
		return &SummaryResult{Text: summary, Model: model}, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrAllModelsFailed, errs.ErrorOrNil())
}

func (s *GeminiSummarizer) attempt(ctx context.Context, model, prompt string) (string, error) {
	gen, err := s.client.GenerateContent(ctx, model, prompt)
	if err != nil {
		return "", err
	}
	if s.tracker != nil {
		s.tracker.AddTokenUsage(ctx, model, gen.PromptTokens, gen.OutputTokens)
	}
	summary := strings.TrimSpace(gen.Text)
	if summary == "" {
		return "", ErrEmptyResponse
	}
	return summary, nil
}
