package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generation is one model response with its token accounting.
type Generation struct {
	Text         string
	PromptTokens int
	OutputTokens int
}

type IAIClient interface {
	GenerateContent(ctx context.Context, model, prompt string) (*Generation, error)
}

type GeminiAIClient struct {
	client *genai.Client
}

type GeminiAIClientFuncOptions = func(client *genai.ClientConfig) error

func NewGeminiAIClient(ctx context.Context, apiKey string, opts ...GeminiAIClientFuncOptions) (*GeminiAIClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if err := applyFuncOptions(cfg, opts...); err != nil {
		return nil, fmt.Errorf("failed to apply options: %w", err)
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	return &GeminiAIClient{client: client}, nil
}

// WithVertexAI routes requests through Vertex AI instead of the Gemini API.
func WithVertexAI(project, location string) GeminiAIClientFuncOptions {
	return func(cfg *genai.ClientConfig) error {
		if project == "" {
			return fmt.Errorf("vertex AI requires a project")
		}
		cfg.Backend = genai.BackendVertexAI
		cfg.APIKey = ""
		cfg.Project = project
		cfg.Location = location
		return nil
	}
}

func (g *GeminiAIClient) GenerateContent(ctx context.Context, model, prompt string) (*Generation, error) {
	result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	um := deref(result.UsageMetadata)
	return &Generation{
		Text:         result.Text(),
		PromptTokens: int(um.PromptTokenCount),
		OutputTokens: int(um.TotalTokenCount - um.PromptTokenCount),
	}, nil
}
