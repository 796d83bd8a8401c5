package handler

import (
	"learnflow/internal/domain"
	"learnflow/internal/dto"
	"learnflow/internal/logger"
	"learnflow/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ContentHandler handles content-generation HTTP requests
type ContentHandler struct {
	service service.ContentService
}

// NewContentHandler creates a new ContentHandler instance
func NewContentHandler(service service.ContentService) *ContentHandler {
	return &ContentHandler{
		service: service,
	}
}

// GetExploreContent godoc
// @Summary Get exploratory content
// @Description Generates exploratory educational content for a free-text query
// @Tags content
// @Accept json
// @Produce json
// @Param request body dto.ExploreRequest true "Explore request"
// @Success 200 {object} dto.ExploreResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /explore [post]
func (h *ContentHandler) GetExploreContent(c *fiber.Ctx) error {
	var req dto.ExploreRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	result, err := h.service.GetExploreContent(c.Context(), req.Query, domain.UserContext(req.UserContext))
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// GetPracticeQuestion godoc
// @Summary Get a practice question
// @Description Generates one shuffled, validated multiple-choice question
// @Tags content
// @Accept json
// @Produce json
// @Param request body dto.PracticeRequest true "Practice request"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /practice [post]
func (h *ContentHandler) GetPracticeQuestion(c *fiber.Ctx) error {
	var req dto.PracticeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	result, err := h.service.GetPracticeQuestion(c.Context(), req.Topic, req.Difficulty, domain.UserContext(req.UserContext))
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// GetExamQuestions godoc
// @Summary Get a batch of exam questions
// @Description Generates 5-15 validated exam questions for a topic
// @Tags content
// @Accept json
// @Produce json
// @Param request body dto.ExamRequest true "Exam request"
// @Success 200 {object} dto.ExamQuestionsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /exam [post]
func (h *ContentHandler) GetExamQuestions(c *fiber.Ctx) error {
	var req dto.ExamRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	result, err := h.service.GetExamQuestions(c.Context(), req.Topic, req.ExamType)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// Chat godoc
// @Summary Continue an explore conversation
// @Description Generates a follow-up content chunk for an explore conversation
// @Tags content
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat request"
// @Success 200 {object} dto.ChatChunkResponse
// @Success 204 "Worker returned no usable content"
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /chat [post]
func (h *ContentHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	history := make([]domain.ChatTurn, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, domain.ChatTurn{Role: turn.Role, Content: turn.Content})
	}

	var chunk *dto.ChatChunkResponse
	err := h.service.StreamExploreContent(c.Context(), req.Query, domain.UserContext(req.UserContext), history,
		func(part domain.ChatChunk) {
			chunk = chatChunkToDTO(part)
		})
	if err != nil {
		return err
	}

	if chunk == nil {
		// The worker sent an unusable envelope; the service treats this as a
		// normal completion with no content.
		logger.Get().Info("Chat completed without content", zap.String("query", req.Query))
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.JSON(chunk)
}

func chatChunkToDTO(chunk domain.ChatChunk) *dto.ChatChunkResponse {
	resp := &dto.ChatChunkResponse{Text: chunk.Text}
	for _, t := range chunk.Topics {
		resp.Topics = append(resp.Topics, dto.RelatedTopicResponse{
			Topic:  t.Topic,
			Type:   t.Type,
			Reason: t.Reason,
		})
	}
	for _, q := range chunk.Questions {
		resp.Questions = append(resp.Questions, dto.RelatedQuestionResponse{
			Question: q.Question,
			Type:     q.Type,
			Context:  q.Context,
		})
	}
	return resp
}
