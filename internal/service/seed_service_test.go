package service

import (
	"context"
	"errors"
	"testing"

	"detran-quiz/internal/classify"
	"detran-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticCatalog struct {
	topics    []classify.TopicDef
	subtopics []classify.SubtopicRule
}

func (s staticCatalog) Topics() []classify.TopicDef        { return s.topics }
func (s staticCatalog) Subtopics() []classify.SubtopicRule { return s.subtopics }

func TestSeed_InsertsMissingRows(t *testing.T) {
	source := staticCatalog{
		topics: []classify.TopicDef{{ID: 1, Name: "Legislação de Trânsito", Icon: "📜"}},
		subtopics: []classify.SubtopicRule{
			{ID: 101, TopicID: 1, Name: "Sinalização"},
			{ID: 102, TopicID: 1, Name: "Infrações"},
		},
	}

	repo := new(MockTopicRepository)
	tx := new(MockTransactionManager)
	tx.On("WithTransaction", mock.Anything).Return()

	repo.On("GetTopicByID", mock.Anything, int64(1)).Return(nil, nil)
	repo.On("SaveTopic", mock.Anything, mock.MatchedBy(func(tp *domain.Topic) bool {
		return tp.ID == 1 && tp.Icon != nil && *tp.Icon == "📜"
	})).Return(nil)
	repo.On("GetSubtopicByID", mock.Anything, int64(101)).Return(&domain.Subtopic{ID: 101, TopicID: 1}, nil)
	repo.On("GetSubtopicByID", mock.Anything, int64(102)).Return(nil, nil)
	repo.On("SaveSubtopic", mock.Anything, &domain.Subtopic{ID: 102, TopicID: 1, Name: "Infrações"}).Return(nil)

	report, err := NewSeedService(repo, tx, source, zap.NewNop()).Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.TopicsInserted)
	assert.Equal(t, 1, report.SubtopicsInserted)
	assert.Equal(t, 1, report.Skipped)
	repo.AssertExpectations(t)
	tx.AssertNumberOfCalls(t, "WithTransaction", 1)
}

func TestSeed_DefaultCatalogIsIdempotent(t *testing.T) {
	source := classify.Default()
	repo := new(MockTopicRepository)
	tx := new(MockTransactionManager)
	tx.On("WithTransaction", mock.Anything).Return()
	repo.On("GetTopicByID", mock.Anything, mock.Anything).Return(&domain.Topic{}, nil)
	repo.On("GetSubtopicByID", mock.Anything, mock.Anything).Return(&domain.Subtopic{}, nil)

	report, err := NewSeedService(repo, tx, source, zap.NewNop()).Seed(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.TopicsInserted)
	assert.Zero(t, report.SubtopicsInserted)
	assert.Equal(t, len(source.Topics())+len(source.Subtopics()), report.Skipped)
	repo.AssertNotCalled(t, "SaveTopic", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SaveSubtopic", mock.Anything, mock.Anything)
}

func TestSeed_StopsOnStorageError(t *testing.T) {
	source := staticCatalog{topics: []classify.TopicDef{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}}
	repo := new(MockTopicRepository)
	tx := new(MockTransactionManager)
	tx.On("WithTransaction", mock.Anything).Return()
	repo.On("GetTopicByID", mock.Anything, int64(1)).Return(nil, domain.NewStorageError(errors.New("connection refused")))

	_, err := NewSeedService(repo, tx, source, zap.NewNop()).Seed(context.Background())
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeStorage))
	repo.AssertNotCalled(t, "GetTopicByID", mock.Anything, int64(2))
}
