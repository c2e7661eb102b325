package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pdf-study-agent/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGenerator calls the Gemini API with an API key.
type GeminiGenerator struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
}

// NewGeminiGenerator creates a Gemini client for modelName.
func NewGeminiGenerator(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if modelName == "" {
		return nil, fmt.Errorf("gemini model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client:  client,
		model:   client.GenerativeModel(modelName),
		name:    "gemini/" + modelName,
		timeout: timeout,
	}, nil
}

func (g *GeminiGenerator) Name() string { return g.name }

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// Generate implements domain.TextGenerator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", domain.NewSafetyBlockedError("Content", err)
		}
		return "", transportError(g.name, err)
	}
	return geminiText(resp)
}

// geminiText joins the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", domain.NewSafetyBlockedError("Content", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason))
		}
		return "", domain.NewEmptyGenerationError("response")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", domain.NewSafetyBlockedError("Content", fmt.Errorf("finish reason %s", candidate.FinishReason))
	}
	if candidate.Content == nil {
		return "", domain.NewEmptyGenerationError("response")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return checkText(sb.String())
}
