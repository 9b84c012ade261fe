package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

const (
	// OptionCount is the number of options every stored question carries.
	OptionCount = 4
	// MinOptions is the minimum number of real options a draft needs to be accepted.
	MinOptions = 2
	// MaxQuestionTextRunes bounds question_text.
	MaxQuestionTextRunes = 500
	// OptionPlaceholder pads questions that have fewer than OptionCount options.
	OptionPlaceholder = "-"
	// DefaultTopicID is Legislação, the topic every unclassified question falls into.
	DefaultTopicID int64 = 1
)

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

// Topic is a top-level subject area of the exam.
type Topic struct {
	ID   int64
	Name string
	Icon *string
}

// Subtopic is a finer-grained category inside a topic.
type Subtopic struct {
	ID      int64
	TopicID int64
	Name    string
}

// Question is an imported multiple-choice question. Questions are never mutated after import.
type Question struct {
	ID            string
	TopicID       int64
	SubtopicID    *int64
	Text          string
	Options       []string
	CorrectOption int
	Explanation   string
	TrickTip      string
	ImageURL      *string
	ContentHash   string
	CreatedAt     time.Time
}

// Validate checks the stored-question invariants.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("question text is required")
	}
	if len(q.Options) < MinOptions {
		return NewValidationError("at least two options are required")
	}
	if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
		return NewValidationError("correct option is out of range")
	}
	if q.TopicID == 0 {
		return NewValidationError("topic id is required")
	}
	return nil
}

// ComputeContentHash fingerprints the text and options. Re-importing the same question
// yields the same hash whatever its classification or image.
func (q *Question) ComputeContentHash() string {
	h := sha256.New()
	h.Write([]byte(strings.TrimSpace(q.Text)))
	for _, o := range q.Options {
		h.Write([]byte{0x1f})
		h.Write([]byte(o))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// UserProgress is one recorded answer. Rows are append-only.
type UserProgress struct {
	ID         string
	UserID     string
	QuestionID string
	IsCorrect  bool
	CreatedAt  time.Time
}

// Stats counts a user's answer rows.
type Stats struct {
	Correct int
	Wrong   int
}

// QuestionFilter narrows questions and stats. SubtopicID takes precedence over TopicID.
type QuestionFilter struct {
	TopicID    *int64
	SubtopicID *int64
}

// Effective drops the topic filter when a subtopic filter is present.
func (f QuestionFilter) Effective() QuestionFilter {
	if f.SubtopicID != nil {
		return QuestionFilter{SubtopicID: f.SubtopicID}
	}
	return f
}
