package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"detran-quiz/internal/domain"
	"detran-quiz/internal/repository/models"
	"detran-quiz/internal/util"
)

// TopicDatabaseAdapter implements domain.TopicRepository.
type TopicDatabaseAdapter struct {
	db DBTX
}

func NewTopicDatabaseAdapter(db DBTX) domain.TopicRepository {
	return &TopicDatabaseAdapter{db: db}
}

const topicColumns = `t.id AS "id", t.name AS "name", t.icon AS "icon"`

const subtopicColumns = `s.id AS "id", s.topic_id AS "topic_id", s.name AS "name"`

// ListTopics implements domain.TopicRepository
func (r *TopicDatabaseAdapter) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Topic
	query := `SELECT ` + topicColumns + ` FROM topics t ORDER BY t.id`
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", domain.NewStorageError(err))
	}

	topics := make([]*domain.Topic, len(rows))
	for i := range rows {
		topics[i] = toDomainTopic(&rows[i])
	}
	return topics, nil
}

// ListSubtopics implements domain.TopicRepository
func (r *TopicDatabaseAdapter) ListSubtopics(ctx context.Context, topicID int64) ([]*domain.Subtopic, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Subtopic
	query := exec.Rebind(`SELECT ` + subtopicColumns + ` FROM subtopics s WHERE s.topic_id = ? ORDER BY s.id`)
	if err := exec.SelectContext(ctx, &rows, query, topicID); err != nil {
		return nil, fmt.Errorf("failed to list subtopics of topic %d: %w", topicID, domain.NewStorageError(err))
	}

	subtopics := make([]*domain.Subtopic, len(rows))
	for i := range rows {
		subtopics[i] = toDomainSubtopic(&rows[i])
	}
	return subtopics, nil
}

// GetTopicByID returns nil, nil when the topic does not exist.
func (r *TopicDatabaseAdapter) GetTopicByID(ctx context.Context, id int64) (*domain.Topic, error) {
	exec := GetExecutor(ctx, r.db)
	var row models.Topic
	query := exec.Rebind(`SELECT ` + topicColumns + ` FROM topics t WHERE t.id = ?`)
	if err := exec.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic %d: %w", id, domain.NewStorageError(err))
	}
	return toDomainTopic(&row), nil
}

// SaveTopic inserts a topic with a caller-chosen id.
func (r *TopicDatabaseAdapter) SaveTopic(ctx context.Context, topic *domain.Topic) error {
	if topic == nil {
		return fmt.Errorf("cannot save nil topic")
	}
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO topics (id, name, icon) VALUES (?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, query, topic.ID, topic.Name, util.StringPtrToNullString(topic.Icon)); err != nil {
		return fmt.Errorf("failed to save topic %d: %w", topic.ID, domain.NewStorageError(err))
	}
	return nil
}

// GetSubtopicByID returns nil, nil when the subtopic does not exist.
func (r *TopicDatabaseAdapter) GetSubtopicByID(ctx context.Context, id int64) (*domain.Subtopic, error) {
	exec := GetExecutor(ctx, r.db)
	var row models.Subtopic
	query := exec.Rebind(`SELECT ` + subtopicColumns + ` FROM subtopics s WHERE s.id = ?`)
	if err := exec.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subtopic %d: %w", id, domain.NewStorageError(err))
	}
	return toDomainSubtopic(&row), nil
}

func (r *TopicDatabaseAdapter) SaveSubtopic(ctx context.Context, subtopic *domain.Subtopic) error {
	if subtopic == nil {
		return fmt.Errorf("cannot save nil subtopic")
	}
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO subtopics (id, topic_id, name) VALUES (?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, query, subtopic.ID, subtopic.TopicID, subtopic.Name); err != nil {
		return fmt.Errorf("failed to save subtopic %d: %w", subtopic.ID, domain.NewStorageError(err))
	}
	return nil
}

func toDomainTopic(m *models.Topic) *domain.Topic {
	return &domain.Topic{
		ID:   m.ID,
		Name: m.Name,
		Icon: util.NullStringToPtr(m.Icon),
	}
}

func toDomainSubtopic(m *models.Subtopic) *domain.Subtopic {
	return &domain.Subtopic{
		ID:      m.ID,
		TopicID: m.TopicID,
		Name:    m.Name,
	}
}
