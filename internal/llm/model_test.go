package llm

import (
	"context"
	"testing"

	"github.com/homeledger/homeledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelUnsupportedProvider(t *testing.T) {
	_, err := NewModel(context.Background(), config.Config{LLMProvider: "carrier-pigeon"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}

func TestNewModelMissingKeys(t *testing.T) {
	tests := []struct {
		name     string
		provider string
	}{
		{"openai without key", config.ProviderOpenAI},
		{"anthropic without key", config.ProviderAnthropic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(context.Background(), config.Config{
				LLMProvider: tt.provider,
				LLMModel:    "test-model",
			}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "key required")
		})
	}
}

func TestNewModelOllama(t *testing.T) {
	// Ollama's constructor doesn't dial; it only validates options.
	m, err := NewModel(context.Background(), config.Config{
		LLMProvider: config.ProviderOllama,
		LLMModel:    "llama3.2",
		OllamaHost:  "http://localhost:11434",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", m.Model())
}
