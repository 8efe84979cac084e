package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App) (int, ErrorResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	return resp.StatusCode, errResp
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "invalid input", err: domain.NewInvalidInputError(validation.MsgBadPath), wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT"},
		{name: "article not found", err: domain.NewArticleNotFoundError("Kohili"), wantStatus: http.StatusNotFound, wantCode: "ARTICLE_NOT_FOUND"},
		{name: "content too short", err: domain.NewContentTooShortError("too short"), wantStatus: http.StatusUnprocessableEntity, wantCode: "CONTENT_TOO_SHORT"},
		{name: "upstream", err: domain.NewUpstreamError("Wikipedia returned error 500: Internal Server Error", nil), wantStatus: http.StatusBadGateway, wantCode: "UPSTREAM_ERROR"},
		{name: "invalid quiz", err: domain.NewInvalidQuizError(errors.New("no questions")), wantStatus: http.StatusBadGateway, wantCode: "INVALID_QUIZ"},
		{name: "llm", err: domain.NewLLMServiceError(errors.New("refused")), wantStatus: http.StatusServiceUnavailable, wantCode: "LLM_SERVICE_ERROR"},
		{name: "internal", err: domain.NewInternalError("Failed to generate quiz", errors.New("boom")), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, newErrorApp(tt.err))

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.err.(*domain.DomainError).Message, body.Message)
		})
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	err := errors.Join(errors.New("context"), domain.NewArticleNotFoundError("X"))
	status, body := doRequest(t, newErrorApp(err))

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ARTICLE_NOT_FOUND", body.Code)
}

func TestErrorHandler_URLError(t *testing.T) {
	status, body := doRequest(t, newErrorApp(validation.ValidateWikipediaURL("ftp://en.wikipedia.org/wiki/X")))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_INPUT", body.Code)
	assert.Equal(t, validation.MsgBadScheme, body.Message)
}

func TestErrorHandler_FiberError(t *testing.T) {
	status, body := doRequest(t, newErrorApp(fiber.NewError(fiber.StatusMethodNotAllowed, "nope")))

	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "HTTP_ERROR", body.Code)
	assert.Equal(t, "nope", body.Message)
}

func TestErrorHandler_UnknownError(t *testing.T) {
	status, body := doRequest(t, newErrorApp(errors.New("database exploded")))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.Equal(t, "Internal server error", body.Message)
}
