package handler

import (
	"detran-quiz/internal/dto"
	"detran-quiz/internal/middleware"
	"detran-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// ListTopics godoc
// @Summary List topics
// @Description Returns every topic ordered by id
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.TopicResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /topics [get]
func (h *QuizHandler) ListTopics(c *fiber.Ctx) error {
	topics, err := h.service.ListTopics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(topics)
}

// ListSubtopics godoc
// @Summary List subtopics of a topic
// @Tags catalog
// @Produce json
// @Param topicId path int true "Topic ID"
// @Success 200 {array} dto.SubtopicResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /topics/{topicId}/subtopics [get]
func (h *QuizHandler) ListSubtopics(c *fiber.Ctx) error {
	subtopics, err := h.service.ListSubtopics(c.UserContext(), middleware.TopicIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(subtopics)
}

// ListQuestions godoc
// @Summary List questions for a user
// @Description Returns the filtered questions the user has not answered correctly yet. subtopic_id takes precedence over topic_id.
// @Tags quiz
// @Produce json
// @Param user_id query string true "User ID"
// @Param topic_id query int false "Topic ID"
// @Param subtopic_id query int false "Subtopic ID"
// @Success 200 {array} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /questions [get]
func (h *QuizHandler) ListQuestions(c *fiber.Ctx) error {
	questions, err := h.service.ListQuestions(c.UserContext(), middleware.QuestionQueryFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

// GetStats godoc
// @Summary Get answer statistics
// @Description Counts every recorded answer, replays included
// @Tags quiz
// @Produce json
// @Param user_id query string true "User ID"
// @Param topic_id query int false "Topic ID"
// @Param subtopic_id query int false "Subtopic ID"
// @Success 200 {object} dto.StatsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stats [get]
func (h *QuizHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.UserContext(), middleware.QuestionQueryFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// SubmitAnswer godoc
// @Summary Record an answer
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.SubmitRequest true "Answer"
// @Success 200 {object} dto.SubmitResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /submit [post]
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.SubmitAnswer(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
