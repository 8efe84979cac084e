package handler

import (
	"strings"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

// QuizHandler handles quiz generation requests
type QuizHandler struct {
	service domain.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service domain.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// GenerateQuiz godoc
// @Summary Generate a quiz from a Wikipedia article
// @Description Scrapes the article at url and asks the language model for a multiple-choice quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Article URL"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /generate-quiz [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Failed to parse generate-quiz body", zap.Error(err))
		return domain.NewInvalidInputError("Invalid request body")
	}
	req.URL = strings.TrimSpace(req.URL)

	quiz, err := h.service.Generate(c.UserContext(), req.URL)
	if err != nil {
		return err
	}
	if quiz == nil {
		return domain.NewInternalError("Failed to generate quiz", nil)
	}

	var resp dto.QuizResponse
	if err := copier.Copy(&resp, quiz); err != nil {
		return domain.NewInternalError("Failed to build quiz response", err)
	}
	resp.Questions = make([]dto.QuestionResponse, 0, len(quiz.Questions))
	if err := copier.Copy(&resp.Questions, &quiz.Questions); err != nil {
		return domain.NewInternalError("Failed to build quiz response", err)
	}
	return c.JSON(resp)
}
