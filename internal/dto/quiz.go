package dto

// TopicResponse represents a topic in the API response
// @Description Topic information
type TopicResponse struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

// SubtopicResponse represents a subtopic in the API response
type SubtopicResponse struct {
	ID      int64  `json:"id"`
	TopicID int64  `json:"topic_id"`
	Name    string `json:"name"`
}

// QuestionResponse represents a question in the API response
// @Description Multiple-choice question with exactly four options
type QuestionResponse struct {
	ID            string   `json:"id"`
	TopicID       int64    `json:"topic_id"`
	SubtopicID    *int64   `json:"subtopic_id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"` // 0-based
	Explanation   string   `json:"explanation"`
	TrickTip      string   `json:"trick_tip"`
	ImageURL      *string  `json:"image_url"`
}

// StatsResponse counts a user's recorded answers
type StatsResponse struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

// SubmitRequest records one answer
// @Description Request body for recording an answer
type SubmitRequest struct {
	UserID     string `json:"user_id"`
	QuestionID string `json:"question_id"`
	// Pointer so that a missing field is told apart from false.
	IsCorrect *bool `json:"is_correct"`
}

// SubmitResponse acknowledges a recorded answer
type SubmitResponse struct {
	Status string `json:"status"`
}

// QuestionQuery carries the optional filters of /questions and /stats
type QuestionQuery struct {
	UserID     string
	TopicID    *int64
	SubtopicID *int64
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse reports liveness of the store and the optional cache
type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache,omitempty"`
}
