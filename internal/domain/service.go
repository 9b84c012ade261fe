package domain

import "context"

// TopicRepository defines the interface for topic and subtopic persistence
type TopicRepository interface {
	// ListTopics returns all topics ordered by id
	ListTopics(ctx context.Context) ([]*Topic, error)

	// ListSubtopics returns the subtopics of one topic ordered by id
	ListSubtopics(ctx context.Context, topicID int64) ([]*Subtopic, error)

	GetTopicByID(ctx context.Context, id int64) (*Topic, error)
	SaveTopic(ctx context.Context, topic *Topic) error
	GetSubtopicByID(ctx context.Context, id int64) (*Subtopic, error)
	SaveSubtopic(ctx context.Context, subtopic *Subtopic) error
}

// QuestionRepository defines the interface for question persistence
type QuestionRepository interface {
	// SaveQuestion inserts one question, assigning its ID and CreatedAt
	SaveQuestion(ctx context.Context, question *Question) error

	// ExistsByContentHash reports whether an identical question was already imported
	ExistsByContentHash(ctx context.Context, hash string) (bool, error)

	// ListAvailableQuestions returns the filtered questions the user has never answered correctly
	ListAvailableQuestions(ctx context.Context, userID string, filter QuestionFilter) ([]*Question, error)
}

// ProgressRepository defines the interface for answer-event persistence
type ProgressRepository interface {
	CreateProgress(ctx context.Context, progress *UserProgress) error
	GetStats(ctx context.Context, userID string, filter QuestionFilter) (*Stats, error)
}

// TransactionManager runs fn inside a transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
