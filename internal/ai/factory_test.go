package ai_test

import (
	"context"
	"testing"

	"github.com/kiranshivaraju/mediaguard/internal/ai"
	"github.com/kiranshivaraju/mediaguard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Gemini(t *testing.T) {
	cfg := config.AIConfig{
		Provider: "gemini",
		Gemini:   config.GeminiConfig{APIKey: "test-key", Model: "gemini-1.5-flash"},
	}
	c, err := ai.NewClient(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.Name())
}

func TestNewClient_OpenAI(t *testing.T) {
	cfg := config.AIConfig{
		Provider: "openai",
		OpenAI:   config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini"},
	}
	c, err := ai.NewClient(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())
}

func TestNewClient_Unknown(t *testing.T) {
	_, err := ai.NewClient(context.Background(), config.AIConfig{Provider: "ollama"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama")
}

func TestNewClient_Empty(t *testing.T) {
	_, err := ai.NewClient(context.Background(), config.AIConfig{})
	assert.Error(t, err)
}
