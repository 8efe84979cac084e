package quizgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// contentGenerator is the part of *genai.GenerativeModel the generator needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiQuizGenerator implements domain.QuizGenerator with Google Gemini in JSON mode.
type GeminiQuizGenerator struct {
	model   contentGenerator
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiQuizGenerator connects to the Gemini API. Close releases the client.
func NewGeminiQuizGenerator(ctx context.Context, cfg config.LLMConfig) (*GeminiQuizGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key cannot be empty")
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(float32(cfg.Temperature))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction))

	return &GeminiQuizGenerator{model: model, client: client, timeout: cfg.Timeout}, nil
}

// GenerateQuiz implements domain.QuizGenerator.
func (g *GeminiQuizGenerator) GenerateQuiz(ctx context.Context, article *domain.Article, numQuestions int) (*domain.Quiz, error) {
	l := logger.Get().With(zap.String("generator", "gemini"), zap.String("title", article.Title))

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(BuildPrompt(article, numQuestions)))
	if err != nil {
		l.Error("Gemini GenerateContent failed", zap.Error(err))
		return nil, domain.NewLLMServiceError(fmt.Errorf("gemini call failed: %w", err))
	}

	text := responseText(resp)
	if text == "" {
		return nil, domain.NewLLMServiceError(fmt.Errorf("empty response from gemini"))
	}
	return ParseQuiz(text, article, numQuestions, l)
}

// Close releases the underlying client.
func (g *GeminiQuizGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

var _ domain.QuizGenerator = (*GeminiQuizGenerator)(nil)
