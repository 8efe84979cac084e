package quizgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// LangchainQuizGenerator implements domain.QuizGenerator on top of any langchaingo model.
type LangchainQuizGenerator struct {
	llm         llms.Model
	temperature float64
	timeout     time.Duration
}

// NewLangchainQuizGenerator wraps an existing model.
func NewLangchainQuizGenerator(llm llms.Model, temperature float64, timeout time.Duration) *LangchainQuizGenerator {
	return &LangchainQuizGenerator{llm: llm, temperature: temperature, timeout: timeout}
}

// NewOllamaQuizGenerator builds the generator against an Ollama server.
func NewOllamaQuizGenerator(cfg config.LLMConfig) (*LangchainQuizGenerator, error) {
	if cfg.Server == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.Server),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(httpClient),
		ollama.WithFormat("json"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return NewLangchainQuizGenerator(llm, cfg.Temperature, cfg.Timeout), nil
}

// GenerateQuiz implements domain.QuizGenerator.
func (g *LangchainQuizGenerator) GenerateQuiz(ctx context.Context, article *domain.Article, numQuestions int) (*domain.Quiz, error) {
	l := logger.Get().With(zap.String("generator", "langchain"), zap.String("title", article.Title))

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt := systemInstruction + "\n\n" + BuildPrompt(article, numQuestions)
	l.Debug("Calling LLM", zap.Int("prompt_chars", len(prompt)), zap.Int("num_questions", numQuestions))

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Error(err))
			return nil, domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}
	l.Info("LLM responded", zap.Duration("duration", time.Since(start)), zap.Int("response_chars", len(response)))

	return ParseQuiz(response, article, numQuestions, l)
}

var _ domain.QuizGenerator = (*LangchainQuizGenerator)(nil)
