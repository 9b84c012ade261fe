package middleware

import (
	"detran-quiz/internal/dto"
	"detran-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalQuestionQuery = "validated_question_query"
	LocalTopicID       = "validated_topic_id"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateQuestionQuery parses user_id, topic_id and subtopic_id from the query string.
func (vm *ValidationMiddleware) ValidateQuestionQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query, err := vm.validator.QuestionQuery(c.Query("user_id"), c.Query("topic_id"), c.Query("subtopic_id"))
		if err != nil {
			return err // handled by ErrorHandler
		}
		c.Locals(LocalQuestionQuery, query)
		return c.Next()
	}
}

// ValidateTopicID parses the :topicId path parameter.
func (vm *ValidationMiddleware) ValidateTopicID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := vm.validator.ParseID("topicId", c.Params("topicId"))
		if err != nil {
			return err
		}
		c.Locals(LocalTopicID, id)
		return c.Next()
	}
}

// QuestionQueryFrom returns the query stored by ValidateQuestionQuery.
func QuestionQueryFrom(c *fiber.Ctx) dto.QuestionQuery {
	q, _ := c.Locals(LocalQuestionQuery).(dto.QuestionQuery)
	return q
}

// TopicIDFrom returns the id stored by ValidateTopicID.
func TopicIDFrom(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalTopicID).(int64)
	return id
}
