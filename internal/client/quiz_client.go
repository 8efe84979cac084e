package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const generateQuizPath = "/api/generate-quiz"

// ErrServiceUnavailable wraps transport failures talking to the quiz API.
var ErrServiceUnavailable = errors.New("quiz service unavailable")

// ServiceError is a non-2xx answer from the quiz API. Error returns the server's
// message as is; it is empty when the server sent none.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// QuizClient implements domain.QuizService against the HTTP API.
type QuizClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewQuizClient builds a client for baseURL. A nil httpClient gets one with timeout.
func NewQuizClient(baseURL string, httpClient *http.Client, timeout time.Duration) *QuizClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:8090"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &QuizClient{baseURL: baseURL, httpClient: httpClient}
}

// Generate implements domain.QuizService.
func (c *QuizClient) Generate(ctx context.Context, url string) (*domain.Quiz, error) {
	var payload dto.QuizResponse
	if err := c.doJSON(ctx, http.MethodPost, generateQuizPath, dto.GenerateQuizRequest{URL: url}, &payload); err != nil {
		return nil, err
	}

	quiz := &domain.Quiz{
		ID:            payload.ID,
		URL:           payload.URL,
		Title:         payload.Title,
		Summary:       payload.Summary,
		Questions:     make([]domain.Question, 0, len(payload.Questions)),
		RelatedTopics: payload.RelatedTopics,
		GeneratedAt:   payload.GeneratedAt,
	}
	for _, q := range payload.Questions {
		quiz.Questions = append(quiz.Questions, domain.Question{
			Question:    q.Question,
			Options:     q.Options,
			Answer:      q.Answer,
			Difficulty:  domain.Difficulty(q.Difficulty),
			Explanation: q.Explanation,
		})
	}
	return quiz, nil
}

func (c *QuizClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path
	requestID := uuid.NewString()
	l := logger.Get().With(zap.String("request_id", requestID), zap.String("url", fullURL))

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		l.Warn("Quiz API request failed", zap.Error(err))
		return fmt.Errorf("%w at %s: %v", ErrServiceUnavailable, c.baseURL, err)
	}
	defer response.Body.Close()
	l.Debug("Quiz API responded", zap.Int("status", response.StatusCode), zap.Duration("duration", time.Since(start)))

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := ServiceError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil {
			apiErr.Code = payload.Code
			apiErr.Message = strings.TrimSpace(payload.Message)
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(responseBody); err != nil {
		return fmt.Errorf("failed to decode quiz API response: %w", err)
	}
	return nil
}

var _ domain.QuizService = (*QuizClient)(nil)
