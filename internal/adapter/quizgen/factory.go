package quizgen

import (
	"context"
	"fmt"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
)

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (domain.QuizGenerator, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaQuizGenerator(cfg)
	case "openai":
		return NewOpenAIQuizGenerator(cfg, "")
	case "gemini":
		return NewGeminiQuizGenerator(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
