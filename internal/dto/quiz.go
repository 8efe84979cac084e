package dto

import "time"

// GenerateQuizRequest is the body of POST /api/generate-quiz
// @Description Request body for generating a quiz
type GenerateQuizRequest struct {
	URL string `json:"url" example:"https://en.wikipedia.org/wiki/Alan_Turing"`
}

// QuestionResponse is a single multiple-choice question
type QuestionResponse struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty" example:"medium"`
	Explanation string   `json:"explanation"`
}

// QuizResponse represents a generated quiz in the API response
// @Description Generated quiz
type QuizResponse struct {
	ID            string             `json:"id"`
	URL           string             `json:"url"`
	Title         string             `json:"title"`
	Summary       string             `json:"summary"`
	Questions     []QuestionResponse `json:"questions"`
	RelatedTopics []string           `json:"related_topics"`
	GeneratedAt   time.Time          `json:"generated_at"`
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Cache  string `json:"cache" example:"up"`
}
