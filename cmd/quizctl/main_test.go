package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizAPI(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRun_OneShotSuccess(t *testing.T) {
	server := newQuizAPI(t, http.StatusOK, dto.QuizResponse{
		ID:    "01J9Z6Q4V3K8N2M5P7R9T1W3Y5",
		Title: "Alan Turing",
		Questions: []dto.QuestionResponse{{
			Question:   "What did Turing help break?",
			Options:    []string{"Enigma", "Lorenz", "Purple", "Typex"},
			Answer:     "Enigma",
			Difficulty: "hard",
		}},
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{"--url", "https://en.wikipedia.org/wiki/Alan_Turing", "--api", server.URL}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Alan Turing")
	assert.Contains(t, stdout.String(), "A) Enigma")
}

func TestRun_OneShotJSON(t *testing.T) {
	server := newQuizAPI(t, http.StatusOK, dto.QuizResponse{ID: "q1", Title: "Alan Turing"})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-u", "https://en.wikipedia.org/wiki/Alan_Turing", "--api", server.URL, "--json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var quiz domain.Quiz
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &quiz))
	assert.Equal(t, "q1", quiz.ID)
}

func TestRun_OneShotServiceError(t *testing.T) {
	server := newQuizAPI(t, http.StatusNotFound, map[string]any{
		"code":    "ARTICLE_NOT_FOUND",
		"message": "Wikipedia article not found: 'Kohili'.",
		"status":  404,
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{"--url", "https://en.wikipedia.org/wiki/Kohili", "--api", server.URL}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Equal(t, "Wikipedia article not found: 'Kohili'.\n", stderr.String())
}

func TestRun_OneShotBlankServiceErrorUsesDefault(t *testing.T) {
	server := newQuizAPI(t, http.StatusInternalServerError, map[string]any{})

	var stdout, stderr bytes.Buffer
	code := run([]string{"--url", "https://en.wikipedia.org/wiki/X", "--api", server.URL}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Equal(t, "Failed to generate quiz\n", stderr.String())
}

func TestRun_OneShotValidationError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--url", "www.wikipedia.org/wiki/X", "--api", "http://127.0.0.1:1"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Equal(t, validation.MsgBadScheme+"\n", stderr.String())
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"--nope"}, &stdout, &stderr))
}
