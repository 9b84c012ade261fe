package service

import (
	"context"
	"time"

	"detran-quiz/internal/classify"
	"detran-quiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockTopicRepository ---
type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) ListSubtopics(ctx context.Context, topicID int64) ([]*domain.Subtopic, error) {
	args := m.Called(ctx, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Subtopic), args.Error(1)
}

func (m *MockTopicRepository) GetTopicByID(ctx context.Context, id int64) (*domain.Topic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) SaveTopic(ctx context.Context, topic *domain.Topic) error {
	return m.Called(ctx, topic).Error(0)
}

func (m *MockTopicRepository) GetSubtopicByID(ctx context.Context, id int64) (*domain.Subtopic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subtopic), args.Error(1)
}

func (m *MockTopicRepository) SaveSubtopic(ctx context.Context, subtopic *domain.Subtopic) error {
	return m.Called(ctx, subtopic).Error(0)
}

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) SaveQuestion(ctx context.Context, question *domain.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockQuestionRepository) ExistsByContentHash(ctx context.Context, hash string) (bool, error) {
	args := m.Called(ctx, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestionRepository) ListAvailableQuestions(ctx context.Context, userID string, filter domain.QuestionFilter) ([]*domain.Question, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

// --- MockProgressRepository ---
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) CreateProgress(ctx context.Context, progress *domain.UserProgress) error {
	return m.Called(ctx, progress).Error(0)
}

func (m *MockProgressRepository) GetStats(ctx context.Context, userID string, filter domain.QuestionFilter) (*domain.Stats, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

// --- MockTransactionManager ---
// Records the call and runs fn with the same context.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// fixedClassifier puts every question under the same topic.
type fixedClassifier struct {
	result classify.Result
}

func (f fixedClassifier) Classify(string) classify.Result {
	return f.result
}

func int64Ptr(v int64) *int64 { return &v }

func boolPtr(v bool) *bool { return &v }
