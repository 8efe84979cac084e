package quizgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/util"

	"go.uber.org/zap"
)

// maxArticleChars bounds the article excerpt placed in the prompt.
const maxArticleChars = 12000

const systemInstruction = "You are an expert quiz generator. You write accurate multiple choice questions grounded only in the article you are given."

const promptTemplate = `Create a quiz about the Wikipedia article "%s".

Write exactly %d multiple choice questions using only facts stated in the article below.
Mix the difficulty levels "easy", "medium" and "hard".

Respond with ONLY a JSON object in the following format:
{
  "title": "article title",
  "summary": "two or three sentence summary of the article",
  "questions": [
    {
      "question": "question text",
      "options": ["option A", "option B", "option C", "option D"],
      "answer": "the correct option, copied exactly from options",
      "difficulty": "easy",
      "explanation": "one sentence explaining the answer from the article"
    }
  ],
  "related_topics": ["related Wikipedia topic", "another topic"]
}

Rules:
1. Every question has exactly 4 distinct options.
2. "answer" must be identical to one of the options.
3. Do not ask about anything the article does not state.

Article:
%s`

// BuildPrompt renders the user prompt for an article.
func BuildPrompt(article *domain.Article, numQuestions int) string {
	return fmt.Sprintf(promptTemplate, article.Title, numQuestions, truncateRunes(article.Text, maxArticleChars))
}

// truncateRunes cuts s to at most n characters without splitting a multi-byte rune.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

type llmQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

type llmQuiz struct {
	Title         string        `json:"title"`
	Summary       string        `json:"summary"`
	Questions     []llmQuestion `json:"questions"`
	RelatedTopics []string      `json:"related_topics"`
}

var errNoJSON = errors.New("no JSON object found in LLM response")

// extractJSON strips <think> blocks and code fences and returns the span between the
// first '{' and the last '}'.
func extractJSON(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	for {
		start := strings.Index(cleaned, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(cleaned, "</think>")
		if end == -1 || end < start {
			break
		}
		cleaned = strings.TrimSpace(cleaned[:start] + cleaned[end+len("</think>"):])
	}
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd < jsonStart {
		return "", errNoJSON
	}
	return cleaned[jsonStart : jsonEnd+1], nil
}

// ParseQuiz decodes a model response into a validated quiz for article. Questions that
// fail validation are dropped; if none survive the quiz is rejected.
func ParseQuiz(raw string, article *domain.Article, numQuestions int, log *zap.Logger) (*domain.Quiz, error) {
	jsonStr, err := extractJSON(raw)
	if err != nil {
		log.Error("Could not find a JSON object in LLM response", zap.String("raw_response", truncate(raw, 500)))
		return nil, domain.NewInvalidQuizError(err)
	}

	var payload llmQuiz
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		log.Error("Failed to unmarshal LLM quiz JSON", zap.Error(err), zap.String("json", truncate(jsonStr, 500)))
		return nil, domain.NewInvalidQuizError(fmt.Errorf("failed to parse LLM response: %w", err))
	}
	return buildQuiz(payload, article, numQuestions, log)
}

func buildQuiz(payload llmQuiz, article *domain.Article, numQuestions int, log *zap.Logger) (*domain.Quiz, error) {
	quiz := &domain.Quiz{
		ID:            util.NewULID(),
		URL:           article.URL,
		Title:         strings.TrimSpace(payload.Title),
		Summary:       strings.TrimSpace(payload.Summary),
		RelatedTopics: make([]string, 0, len(payload.RelatedTopics)),
		GeneratedAt:   time.Now().UTC(),
	}
	if quiz.Title == "" {
		quiz.Title = article.Title
	}
	for _, topic := range payload.RelatedTopics {
		if topic = strings.TrimSpace(topic); topic != "" {
			quiz.RelatedTopics = append(quiz.RelatedTopics, topic)
		}
	}

	for _, lq := range payload.Questions {
		q := domain.Question{
			Question:    strings.TrimSpace(lq.Question),
			Answer:      strings.TrimSpace(lq.Answer),
			Difficulty:  domain.Difficulty(strings.ToLower(strings.TrimSpace(lq.Difficulty))),
			Explanation: strings.TrimSpace(lq.Explanation),
		}
		for _, opt := range lq.Options {
			q.Options = append(q.Options, strings.TrimSpace(opt))
		}
		if !q.Difficulty.IsValid() {
			q.Difficulty = domain.DifficultyMedium
		}
		if err := q.Validate(); err != nil {
			log.Warn("Dropping invalid generated question", zap.Error(err))
			continue
		}
		quiz.Questions = append(quiz.Questions, q)
		if numQuestions > 0 && len(quiz.Questions) == numQuestions {
			break
		}
	}

	if err := quiz.Validate(); err != nil {
		return nil, domain.NewInvalidQuizError(err)
	}
	return quiz, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
