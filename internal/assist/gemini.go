package assist

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// defaultModel is the Gemini model used for both assist operations.
const defaultModel = "gemini-2.5-flash"

// GeminiGenerator implements ContentGenerator over the Gemini API.
type GeminiGenerator struct {
	client    *genai.Client
	modelName string
}

// NewGeminiGenerator creates a Gemini-backed content generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = defaultModel
	}
	return &GeminiGenerator{client: client, modelName: model}, nil
}

// Generate sends the prompt with safety filtering relaxed to its least
// restrictive professional setting. Resume text about weapons-adjacent,
// medical, or security roles must not be spuriously blocked.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockOnlyHigh},
	}
	return model.GenerateContent(ctx, genai.Text(prompt))
}

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
