package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const submitQuizTool = "submit_quiz"

// OpenAIQuizGenerator asks an OpenAI chat model to call a submit_quiz function, so the
// quiz arrives as structured tool arguments instead of free text.
type OpenAIQuizGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewOpenAIQuizGenerator creates the generator. baseURL may be empty for the public API.
func NewOpenAIQuizGenerator(cfg config.LLMConfig, baseURL string) (*OpenAIQuizGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIQuizGenerator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
	}, nil
}

func quizToolSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title":   map[string]interface{}{"type": "string"},
			"summary": map[string]interface{}{"type": "string"},
			"questions": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"question": map[string]interface{}{"type": "string"},
						"options": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "string"},
							"description": "Exactly 4 distinct options",
						},
						"answer": map[string]interface{}{
							"type":        "string",
							"description": "The correct option, copied exactly",
						},
						"difficulty": map[string]interface{}{
							"type": "string",
							"enum": []string{"easy", "medium", "hard"},
						},
						"explanation": map[string]interface{}{"type": "string"},
					},
					"required": []string{"question", "options", "answer", "difficulty", "explanation"},
				},
			},
			"related_topics": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
		"required": []string{"title", "summary", "questions", "related_topics"},
	}
}

// GenerateQuiz implements domain.QuizGenerator.
func (g *OpenAIQuizGenerator) GenerateQuiz(ctx context.Context, article *domain.Article, numQuestions int) (*domain.Quiz, error) {
	l := logger.Get().With(zap.String("generator", "openai"), zap.String("model", g.model), zap.String("title", article.Title))

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(article, numQuestions)},
		},
		Tools: []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        submitQuizTool,
				Description: "Submit the generated quiz",
				Parameters:  quizToolSchema(),
			},
		}},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: submitQuizTool},
		},
	})
	if err != nil {
		l.Error("OpenAI chat completion failed", zap.Error(err))
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to generate quiz: %w", err))
	}
	if len(resp.Choices) == 0 {
		return nil, domain.NewLLMServiceError(fmt.Errorf("no choices in OpenAI response"))
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		// Some compatible servers ignore tool_choice and answer in plain text.
		l.Warn("No tool call in OpenAI response, parsing message content")
		return ParseQuiz(msg.Content, article, numQuestions, l)
	}
	call := msg.ToolCalls[0]
	if call.Function.Name != submitQuizTool {
		return nil, domain.NewInvalidQuizError(fmt.Errorf("unexpected tool call: %s", call.Function.Name))
	}

	var payload llmQuiz
	if err := json.Unmarshal([]byte(call.Function.Arguments), &payload); err != nil {
		l.Error("Failed to parse submit_quiz arguments", zap.Error(err))
		return nil, domain.NewInvalidQuizError(fmt.Errorf("failed to parse tool arguments: %w", err))
	}
	l.Info("OpenAI returned quiz", zap.Int("questions", len(payload.Questions)), zap.Int("total_tokens", resp.Usage.TotalTokens))
	return buildQuiz(payload, article, numQuestions, l)
}

var _ domain.QuizGenerator = (*OpenAIQuizGenerator)(nil)
