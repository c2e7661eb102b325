package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pdf-study-agent/internal/domain"

	"cloud.google.com/go/vertexai/genai"
)

// VertexGenerator calls Gemini through Vertex AI using application default credentials.
type VertexGenerator struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
}

// NewVertexGenerator creates a Vertex AI client in the given project and region.
func NewVertexGenerator(ctx context.Context, projectID, region, modelName string, timeout time.Duration) (*VertexGenerator, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexGenerator: projectID and region cannot be empty")
	}
	if modelName == "" {
		modelName = "gemini-1.5-pro"
	}

	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.2),
	}

	return &VertexGenerator{
		client:  client,
		model:   model,
		name:    "vertex/" + modelName,
		timeout: timeout,
	}, nil
}

func (g *VertexGenerator) Name() string { return g.name }

func (g *VertexGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate implements domain.TextGenerator.
func (g *VertexGenerator) Generate(ctx context.Context, prompt string) (string, error) {
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
	return vertexText(resp)
}

func vertexText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
			return "", domain.NewSafetyBlockedError("Content", fmt.Errorf("finish reason %s", resp.Candidates[0].FinishReason))
		}
		return "", domain.NewEmptyGenerationError("response")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", domain.NewSafetyBlockedError("Content", fmt.Errorf("finish reason %s", candidate.FinishReason))
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return checkText(sb.String())
}
