package generate

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"site-cloner/pkg/config"
	"site-cloner/pkg/utils"
)

// TextGenerator is the narrow model interface the generators depend on.
// Production uses the Gemini-backed client; tests substitute fakes.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GoogleAIGenerator wraps a langchaingo Gemini client with the configured
// sampling parameters.
type GoogleAIGenerator struct {
	llm         llms.Model
	temperature float64
	maxTokens   int
}

// NewGoogleAIGenerator creates the production model client.
func NewGoogleAIGenerator(ctx context.Context, cfg config.ModelConfig, apiKey string) (*GoogleAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set GEMINI_API_KEY or model.api_key)", utils.ErrConfigValidation)
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: creating model client: %v", utils.ErrModelInvocation, err)
	}
	return &GoogleAIGenerator{
		llm:         llm,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
	}, nil
}

// GenerateText performs exactly one model call and returns the raw response.
func (g *GoogleAIGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrModelInvocation, err)
	}
	return out, nil
}
