package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pdf-study-agent/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// LangchainGenerator sends prompts through a langchaingo model.
type LangchainGenerator struct {
	model   llms.Model
	name    string
	timeout time.Duration
}

// NewLangchainGenerator wraps any langchaingo model.
func NewLangchainGenerator(model llms.Model, name string, timeout time.Duration) *LangchainGenerator {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &LangchainGenerator{model: model, name: name, timeout: timeout}
}

// NewOllamaGenerator connects to a local Ollama server.
func NewOllamaGenerator(serverURL, modelName string, timeout time.Duration) (*LangchainGenerator, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	model, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(modelName),
		ollama.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client: %w", err)
	}
	return NewLangchainGenerator(model, "ollama/"+modelName, timeout), nil
}

// NewOpenAIGenerator uses the OpenAI chat completion API.
func NewOpenAIGenerator(apiKey, modelName string, timeout time.Duration) (*LangchainGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	model, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI client: %w", err)
	}
	return NewLangchainGenerator(model, "openai/"+modelName, timeout), nil
}

func (g *LangchainGenerator) Name() string { return g.name }

func (g *LangchainGenerator) Close() error { return nil }

// Generate implements domain.TextGenerator.
func (g *LangchainGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(schema.ChatMessageTypeHuman, prompt)},
		llms.WithTemperature(0.2),
	)
	if err != nil {
		return "", transportError(g.name, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", domain.NewEmptyGenerationError("response")
	}

	choice := resp.Choices[0]
	if blockedStopReason(choice.StopReason) {
		return "", domain.NewSafetyBlockedError("Content", fmt.Errorf("stop reason %s", choice.StopReason))
	}
	return checkText(choice.Content)
}

func blockedStopReason(reason string) bool {
	switch strings.ToLower(reason) {
	case "content_filter", "safety", "blocklist", "prohibited_content":
		return true
	}
	return false
}
