package ai

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/mediaguard/internal/ai/gemini"
	"github.com/kiranshivaraju/mediaguard/internal/ai/openai"
	"github.com/kiranshivaraju/mediaguard/internal/config"
	"github.com/kiranshivaraju/mediaguard/pkg/models"
)

// NewClient constructs the appropriate analysis client based on config.
// Called once at server startup.
func NewClient(ctx context.Context, cfg config.AIConfig) (models.AnalysisClient, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewProvider(ctx, cfg.Gemini)
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of gemini, openai", cfg.Provider)
	}
}
