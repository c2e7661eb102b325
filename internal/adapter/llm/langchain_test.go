package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"pdf-study-agent/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type fakeModel struct {
	resp     *llms.ContentResponse
	err      error
	gotParts []llms.MessageContent
	block    bool
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.gotParts = messages
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.resp, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestLangchainGenerator_Generate(t *testing.T) {
	tests := []struct {
		name     string
		model    *fakeModel
		want     string
		wantCode domain.ErrorCode
	}{
		{
			name:  "returns first choice",
			model: &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "A summary."}}}},
			want:  "A summary.",
		},
		{
			name:     "no choices",
			model:    &fakeModel{resp: &llms.ContentResponse{}},
			wantCode: domain.CodeEmptyGeneration,
		},
		{
			name:     "blank content",
			model:    &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: " \n "}}}},
			wantCode: domain.CodeEmptyGeneration,
		},
		{
			name:     "content filter",
			model:    &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{StopReason: "content_filter"}}}},
			wantCode: domain.CodeSafetyBlocked,
		},
		{
			name:     "client error",
			model:    &fakeModel{err: errors.New("401 unauthorized")},
			wantCode: domain.CodeTransportError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewLangchainGenerator(tt.model, "fake/model", time.Second)
			got, err := g.Generate(context.Background(), "Summarize this")
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, domain.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.Len(t, tt.model.gotParts, 1)
			assert.Equal(t, schema.ChatMessageTypeHuman, tt.model.gotParts[0].Role)
		})
	}
}

func TestLangchainGenerator_Timeout(t *testing.T) {
	g := NewLangchainGenerator(&fakeModel{block: true}, "fake/slow", 10*time.Millisecond)
	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeTransportError))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNew_UnsupportedProvider(t *testing.T) {
	_, err := New(context.Background(), configFor("carrier-pigeon"))
	assert.Error(t, err)
}

func TestNew_RequiresCredentials(t *testing.T) {
	for _, provider := range []string{"openai", "gemini", "vertex"} {
		t.Run(provider, func(t *testing.T) {
			cfg := configFor(provider)
			cfg.Vertex.Region = ""
			_, err := New(context.Background(), cfg)
			assert.Error(t, err)
		})
	}
}
