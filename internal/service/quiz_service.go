package service

import (
	"context"
	"strings"

	"detran-quiz/internal/domain"
	"detran-quiz/internal/dto"
	"detran-quiz/internal/logger"
	"detran-quiz/internal/metrics"

	"go.uber.org/zap"
)

// QuizService defines the read and submit operations behind the HTTP surface.
type QuizService interface {
	ListTopics(ctx context.Context) ([]dto.TopicResponse, error)
	ListSubtopics(ctx context.Context, topicID int64) ([]dto.SubtopicResponse, error)
	// ListQuestions returns the filtered questions the user has not yet answered correctly.
	ListQuestions(ctx context.Context, query dto.QuestionQuery) ([]dto.QuestionResponse, error)
	GetStats(ctx context.Context, query dto.QuestionQuery) (*dto.StatsResponse, error)
	// SubmitAnswer appends a progress row. The question id and correctness are taken as given.
	SubmitAnswer(ctx context.Context, req *dto.SubmitRequest) (*dto.SubmitResponse, error)
}

// quizService implements QuizService
type quizService struct {
	topicRepo    domain.TopicRepository
	questionRepo domain.QuestionRepository
	progressRepo domain.ProgressRepository
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	topicRepo domain.TopicRepository,
	questionRepo domain.QuestionRepository,
	progressRepo domain.ProgressRepository,
) QuizService {
	return &quizService{
		topicRepo:    topicRepo,
		questionRepo: questionRepo,
		progressRepo: progressRepo,
	}
}

func (s *quizService) ListTopics(ctx context.Context) ([]dto.TopicResponse, error) {
	topics, err := s.topicRepo.ListTopics(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		resp = append(resp, dto.TopicResponse{ID: t.ID, Name: t.Name, Icon: t.Icon})
	}
	return resp, nil
}

func (s *quizService) ListSubtopics(ctx context.Context, topicID int64) ([]dto.SubtopicResponse, error) {
	subtopics, err := s.topicRepo.ListSubtopics(ctx, topicID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.SubtopicResponse, 0, len(subtopics))
	for _, st := range subtopics {
		resp = append(resp, dto.SubtopicResponse{ID: st.ID, TopicID: st.TopicID, Name: st.Name})
	}
	return resp, nil
}

func (s *quizService) ListQuestions(ctx context.Context, query dto.QuestionQuery) ([]dto.QuestionResponse, error) {
	userID := strings.TrimSpace(query.UserID)
	if userID == "" {
		return nil, domain.NewMissingInputError("user_id")
	}

	questions, err := s.questionRepo.ListAvailableQuestions(ctx, userID, toFilter(query))
	if err != nil {
		logger.Get().Error("Failed to list questions", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := make([]dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, dto.QuestionResponse{
			ID:            q.ID,
			TopicID:       q.TopicID,
			SubtopicID:    q.SubtopicID,
			QuestionText:  q.Text,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Explanation:   q.Explanation,
			TrickTip:      q.TrickTip,
			ImageURL:      q.ImageURL,
		})
	}
	return resp, nil
}

func (s *quizService) GetStats(ctx context.Context, query dto.QuestionQuery) (*dto.StatsResponse, error) {
	userID := strings.TrimSpace(query.UserID)
	if userID == "" {
		return nil, domain.NewMissingInputError("user_id")
	}

	stats, err := s.progressRepo.GetStats(ctx, userID, toFilter(query))
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{Correct: stats.Correct, Wrong: stats.Wrong}, nil
}

func (s *quizService) SubmitAnswer(ctx context.Context, req *dto.SubmitRequest) (*dto.SubmitResponse, error) {
	if req == nil {
		return nil, domain.NewMissingInputError("body")
	}
	switch {
	case strings.TrimSpace(req.UserID) == "":
		return nil, domain.NewMissingInputError("user_id")
	case strings.TrimSpace(req.QuestionID) == "":
		return nil, domain.NewMissingInputError("question_id")
	case req.IsCorrect == nil:
		return nil, domain.NewMissingInputError("is_correct")
	}

	progress := &domain.UserProgress{
		UserID:     strings.TrimSpace(req.UserID),
		QuestionID: strings.TrimSpace(req.QuestionID),
		IsCorrect:  *req.IsCorrect,
	}
	if err := s.progressRepo.CreateProgress(ctx, progress); err != nil {
		logger.Get().Error("Failed to record answer",
			zap.String("user_id", progress.UserID),
			zap.String("question_id", progress.QuestionID),
			zap.Error(err))
		return nil, err
	}

	if progress.IsCorrect {
		metrics.AnswersSubmitted.WithLabelValues("true").Inc()
	} else {
		metrics.AnswersSubmitted.WithLabelValues("false").Inc()
	}
	return &dto.SubmitResponse{Status: "success"}, nil
}

func toFilter(query dto.QuestionQuery) domain.QuestionFilter {
	return domain.QuestionFilter{TopicID: query.TopicID, SubtopicID: query.SubtopicID}.Effective()
}
