package validation

import (
	"strconv"
	"strings"

	"detran-quiz/internal/domain"
	"detran-quiz/internal/dto"
)

// Validator turns raw request values into typed, checked inputs
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ParseOptionalID parses an optional numeric id. Empty input yields nil.
func (v *Validator) ParseOptionalID(field, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := v.ParseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseID parses a required numeric id.
func (v *Validator) ParseID(field, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.NewMissingInputError(field)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewInvalidInputError(field, raw)
	}
	return id, nil
}

// QuestionQuery builds the /questions and /stats filter. user_id presence is left to the service.
func (v *Validator) QuestionQuery(userID, topicID, subtopicID string) (dto.QuestionQuery, error) {
	query := dto.QuestionQuery{UserID: strings.TrimSpace(userID)}

	var err error
	if query.TopicID, err = v.ParseOptionalID("topic_id", topicID); err != nil {
		return dto.QuestionQuery{}, err
	}
	if query.SubtopicID, err = v.ParseOptionalID("subtopic_id", subtopicID); err != nil {
		return dto.QuestionQuery{}, err
	}
	return query, nil
}
