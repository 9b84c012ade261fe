package repository

import (
	"context"
	"fmt"
	"time"

	"detran-quiz/internal/domain"
	"detran-quiz/internal/repository/models"
	"detran-quiz/internal/util"
)

// ProgressDatabaseAdapter implements domain.ProgressRepository over the append-only user_progress table.
type ProgressDatabaseAdapter struct {
	db DBTX
}

func NewProgressDatabaseAdapter(db DBTX) domain.ProgressRepository {
	return &ProgressDatabaseAdapter{db: db}
}

// CreateProgress appends one answer row. The question id is not checked.
func (r *ProgressDatabaseAdapter) CreateProgress(ctx context.Context, progress *domain.UserProgress) error {
	if progress == nil {
		return fmt.Errorf("cannot save nil progress")
	}
	row := models.UserProgress{
		ID:         util.NewULID(),
		UserID:     progress.UserID,
		QuestionID: progress.QuestionID,
		IsCorrect:  progress.IsCorrect,
		CreatedAt:  time.Now().UTC(),
	}

	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO user_progress (id, user_id, question_id, is_correct, created_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, query, row.ID, row.UserID, row.QuestionID, row.IsCorrect, row.CreatedAt); err != nil {
		return fmt.Errorf("failed to save progress: %w", domain.NewStorageError(err))
	}

	progress.ID = row.ID
	progress.CreatedAt = row.CreatedAt
	return nil
}

// GetStats counts every answer row, replays included, grouped by outcome.
func (r *ProgressDatabaseAdapter) GetStats(ctx context.Context, userID string, filter domain.QuestionFilter) (*domain.Stats, error) {
	exec := GetExecutor(ctx, r.db)

	clause, filterArgs := filterClause(filter)
	query := `SELECT up.is_correct AS "is_correct", COUNT(*) AS "total"
	FROM user_progress up
	JOIN questions q ON q.id = up.question_id
	WHERE up.user_id = ?` + clause + `
	GROUP BY up.is_correct`
	args := append([]interface{}{userID}, filterArgs...)

	var rows []models.ProgressCount
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", domain.NewStorageError(err))
	}

	stats := &domain.Stats{}
	for _, row := range rows {
		if row.IsCorrect {
			stats.Correct += row.Total
		} else {
			stats.Wrong += row.Total
		}
	}
	return stats, nil
}
