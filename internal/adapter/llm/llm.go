// Package llm holds the domain.TextGenerator implementations for the
// supported model providers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pdf-study-agent/internal/config"
	"pdf-study-agent/internal/domain"
	"pdf-study-agent/internal/logger"

	"go.uber.org/zap"
)

// Generator is a TextGenerator that owns a client connection.
type Generator interface {
	domain.TextGenerator
	Close() error
}

const defaultTimeout = 90 * time.Second

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	l := logger.Get()
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	l.Info("Initializing language model", zap.String("provider", cfg.Provider), zap.String("model", cfg.Model))
	switch cfg.Provider {
	case "ollama":
		return NewOllamaGenerator(cfg.Ollama.ServerURL, cfg.Model, timeout)
	case "openai":
		return NewOpenAIGenerator(cfg.OpenAI.APIKey, cfg.Model, timeout)
	case "gemini":
		return NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Model, timeout)
	case "vertex":
		return NewVertexGenerator(ctx, cfg.Vertex.ProjectID, cfg.Vertex.Region, cfg.Model, timeout)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

// checkText turns an empty model answer into EMPTY_GENERATION.
func checkText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.NewEmptyGenerationError("response")
	}
	return text, nil
}

// transportError wraps a failed call, keeping domain errors as they are.
func transportError(model string, err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Get().Error("LLM request timed out", zap.String("model", model), zap.Error(err))
		return domain.NewTransportError(fmt.Errorf("LLM request timed out: %w", err))
	}
	logger.Get().Error("Failed to get response from LLM", zap.String("model", model), zap.Error(err))
	return domain.NewTransportError(err)
}
