package motivation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	DefaultModel           = "gemini-2.5-flash"
	DefaultMaxOutputTokens = 512
)

type GeminiConfig struct {
	APIKey          string
	Model           string
	MaxOutputTokens int
}

// GeminiGenerator turns a prompt into text using the Gemini API.
type GeminiGenerator struct {
	client    *genai.Client
	model     string
	maxTokens int
}

func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key missing")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	return &GeminiGenerator{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// generateConfig disables thinking: on 2.5 models thought tokens count against
// MaxOutputTokens and would leave a short message budget with no text.
func (g *GeminiGenerator) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(1.0)),
		MaxOutputTokens: int32(g.maxTokens),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](0),
		},
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.generateConfig())
	if err != nil {
		return "", err
	}

	output := strings.TrimSpace(resp.Text())
	if output == "" {
		return "", errors.New("gemini returned empty response")
	}
	return output, nil
}
