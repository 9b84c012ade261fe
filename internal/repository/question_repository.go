package repository

import (
	"context"
	"fmt"
	"time"

	"detran-quiz/internal/domain"
	"detran-quiz/internal/repository/models"
	"detran-quiz/internal/util"
)

// QuestionDatabaseAdapter implements domain.QuestionRepository.
type QuestionDatabaseAdapter struct {
	db DBTX
}

func NewQuestionDatabaseAdapter(db DBTX) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

const questionColumns = `q.id AS "id",
		q.topic_id AS "topic_id",
		q.subtopic_id AS "subtopic_id",
		q.question_text AS "question_text",
		q.options AS "options",
		q.correct_option AS "correct_option",
		q.explanation AS "explanation",
		q.trick_tip AS "trick_tip",
		q.image_url AS "image_url",
		q.content_hash AS "content_hash",
		q.created_at AS "created_at"`

// SaveQuestion implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) SaveQuestion(ctx context.Context, question *domain.Question) error {
	if question == nil {
		return fmt.Errorf("cannot save nil question")
	}
	if err := question.Validate(); err != nil {
		return err
	}

	row := toModelQuestion(question)
	row.ID = util.NewULID()
	row.CreatedAt = time.Now().UTC()

	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`INSERT INTO questions (
		id, topic_id, subtopic_id, question_text, options, correct_option,
		explanation, trick_tip, image_url, content_hash, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := exec.ExecContext(ctx, query,
		row.ID,
		row.TopicID,
		row.SubtopicID,
		row.QuestionText,
		row.Options,
		row.CorrectOption,
		row.Explanation,
		row.TrickTip,
		row.ImageURL,
		row.ContentHash,
		row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save question: %w", domain.NewStorageError(err))
	}

	question.ID = row.ID
	question.CreatedAt = row.CreatedAt
	return nil
}

// ExistsByContentHash implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) ExistsByContentHash(ctx context.Context, hash string) (bool, error) {
	exec := GetExecutor(ctx, a.db)
	var count int
	query := exec.Rebind(`SELECT COUNT(*) FROM questions q WHERE q.content_hash = ?`)
	if err := exec.GetContext(ctx, &count, query, hash); err != nil {
		return false, fmt.Errorf("failed to look up content hash: %w", domain.NewStorageError(err))
	}
	return count > 0, nil
}

// ListAvailableQuestions excludes the user's correctly answered questions with a correlated
// NOT EXISTS, so the size of the user's history never reaches the statement text.
func (a *QuestionDatabaseAdapter) ListAvailableQuestions(ctx context.Context, userID string, filter domain.QuestionFilter) ([]*domain.Question, error) {
	exec := GetExecutor(ctx, a.db)

	query := `SELECT ` + questionColumns + `
	FROM questions q
	WHERE NOT EXISTS (
		SELECT 1 FROM user_progress up
		WHERE up.question_id = q.id AND up.user_id = ? AND up.is_correct = ?
	)`
	args := []interface{}{userID, true}

	clause, filterArgs := filterClause(filter)
	query += clause + `
	ORDER BY q.id`
	args = append(args, filterArgs...)

	var rows []models.Question
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", domain.NewStorageError(err))
	}

	questions := make([]*domain.Question, len(rows))
	for i := range rows {
		questions[i] = toDomainQuestion(&rows[i])
	}
	return questions, nil
}

// filterClause renders the topic/subtopic restriction on alias q. Subtopic wins over topic.
func filterClause(filter domain.QuestionFilter) (string, []interface{}) {
	f := filter.Effective()
	switch {
	case f.SubtopicID != nil:
		return ` AND q.subtopic_id = ?`, []interface{}{*f.SubtopicID}
	case f.TopicID != nil:
		return ` AND q.topic_id = ?`, []interface{}{*f.TopicID}
	default:
		return "", nil
	}
}

func toModelQuestion(q *domain.Question) *models.Question {
	return &models.Question{
		ID:            q.ID,
		TopicID:       q.TopicID,
		SubtopicID:    util.Int64PtrToNullInt64(q.SubtopicID),
		QuestionText:  q.Text,
		Options:       models.StringSlice(q.Options),
		CorrectOption: q.CorrectOption,
		Explanation:   q.Explanation,
		TrickTip:      q.TrickTip,
		ImageURL:      util.StringPtrToNullString(q.ImageURL),
		ContentHash:   q.ContentHash,
		CreatedAt:     q.CreatedAt,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	options := []string(m.Options)
	if options == nil {
		options = []string{}
	}
	return &domain.Question{
		ID:            m.ID,
		TopicID:       m.TopicID,
		SubtopicID:    util.NullInt64ToPtr(m.SubtopicID),
		Text:          m.QuestionText,
		Options:       options,
		CorrectOption: m.CorrectOption,
		Explanation:   m.Explanation,
		TrickTip:      m.TrickTip,
		ImageURL:      util.NullStringToPtr(m.ImageURL),
		ContentHash:   m.ContentHash,
		CreatedAt:     m.CreatedAt,
	}
}
