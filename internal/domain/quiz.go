package domain

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the difficulty label attached to a generated question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// OptionsPerQuestion is the number of choices every question carries.
const OptionsPerQuestion = 4

// IsValid reports whether d is one of the known labels.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single multiple-choice question.
type Question struct {
	Question    string     `json:"question"`
	Options     []string   `json:"options"`
	Answer      string     `json:"answer"`
	Difficulty  Difficulty `json:"difficulty"`
	Explanation string     `json:"explanation"`
}

// Validate checks the question text, its options and that the answer is one of them.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return NewValidationError("question text is required")
	}
	if len(q.Options) != OptionsPerQuestion {
		return NewValidationError(fmt.Sprintf("question %q must have %d options, got %d", q.Question, OptionsPerQuestion, len(q.Options)))
	}
	seen := make(map[string]struct{}, len(q.Options))
	answerFound := false
	for _, opt := range q.Options {
		key := strings.TrimSpace(opt)
		if key == "" {
			return NewValidationError(fmt.Sprintf("question %q has an empty option", q.Question))
		}
		if _, dup := seen[key]; dup {
			return NewValidationError(fmt.Sprintf("question %q has duplicate option %q", q.Question, key))
		}
		seen[key] = struct{}{}
		if key == strings.TrimSpace(q.Answer) {
			answerFound = true
		}
	}
	if !answerFound {
		return NewValidationError(fmt.Sprintf("answer %q of question %q is not one of its options", q.Answer, q.Question))
	}
	if !q.Difficulty.IsValid() {
		return NewValidationError(fmt.Sprintf("question %q has unknown difficulty %q", q.Question, q.Difficulty))
	}
	return nil
}

// Quiz is the generated quiz handed to the result view.
type Quiz struct {
	ID            string     `json:"id"`
	URL           string     `json:"url"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	Questions     []Question `json:"questions"`
	RelatedTopics []string   `json:"related_topics"`
	GeneratedAt   time.Time  `json:"generated_at"`
}

// Validate validates the quiz and every question in it.
func (q *Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return NewValidationError("quiz title is required")
	}
	if len(q.Questions) == 0 {
		return NewValidationError("quiz has no questions")
	}
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// Article is the scraped content a quiz is generated from.
type Article struct {
	URL   string
	Title string
	Text  string
}

// ValidationError represents a validation error
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(message string) error {
	return &ValidationError{message: message}
}
