package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice is the options column: a JSON array in a text column on every dialect.
// A nil slice is written as "[]", never NULL.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		s = StringSlice{}
	}
	raw, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan accepts the text as string or []byte. NULL, "" and "null" all read as empty.
func (s *StringSlice) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("options column: unsupported type %T", value)
	}

	if len(raw) == 0 || string(raw) == "null" {
		*s = StringSlice{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("options column: %w", err)
	}
	*s = out
	return nil
}

type Topic struct {
	ID   int64          `db:"id"`
	Name string         `db:"name"`
	Icon sql.NullString `db:"icon"`
}

type Subtopic struct {
	ID      int64  `db:"id"`
	TopicID int64  `db:"topic_id"`
	Name    string `db:"name"`
}

type Question struct {
	ID            string         `db:"id"` // ULID
	TopicID       int64          `db:"topic_id"`
	SubtopicID    sql.NullInt64  `db:"subtopic_id"`
	QuestionText  string         `db:"question_text"`
	Options       StringSlice    `db:"options"` // JSON array text
	CorrectOption int            `db:"correct_option"`
	Explanation   string         `db:"explanation"`
	TrickTip      string         `db:"trick_tip"`
	ImageURL      sql.NullString `db:"image_url"`
	ContentHash   string         `db:"content_hash"`
	CreatedAt     time.Time      `db:"created_at"`
}

// UserProgress is one answer event. Rows are never updated.
type UserProgress struct {
	ID         string    `db:"id"` // ULID
	UserID     string    `db:"user_id"`
	QuestionID string    `db:"question_id"`
	IsCorrect  bool      `db:"is_correct"`
	CreatedAt  time.Time `db:"created_at"`
}

// ProgressCount is one row of the per-outcome stats aggregate.
type ProgressCount struct {
	IsCorrect bool `db:"is_correct"`
	Total     int  `db:"total"`
}
