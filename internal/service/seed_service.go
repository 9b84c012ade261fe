package service

import (
	"context"
	"fmt"

	"detran-quiz/internal/classify"
	"detran-quiz/internal/domain"

	"go.uber.org/zap"
)

// CatalogSource provides the static topic and subtopic rows.
type CatalogSource interface {
	Topics() []classify.TopicDef
	Subtopics() []classify.SubtopicRule
}

// SeedReport counts rows written by one seeding run.
type SeedReport struct {
	TopicsInserted    int
	SubtopicsInserted int
	Skipped           int
}

type SeedService interface {
	Seed(ctx context.Context) (*SeedReport, error)
}

type seedService struct {
	topicRepo domain.TopicRepository
	txManager domain.TransactionManager
	source    CatalogSource
	logger    *zap.Logger
}

func NewSeedService(
	topicRepo domain.TopicRepository,
	txManager domain.TransactionManager,
	source CatalogSource,
	logger *zap.Logger,
) SeedService {
	return &seedService{
		topicRepo: topicRepo,
		txManager: txManager,
		source:    source,
		logger:    logger,
	}
}

// Seed inserts missing topics and their subtopics, one transaction per topic.
// Rows that already exist are left untouched, so reruns are no-ops.
func (s *seedService) Seed(ctx context.Context) (*SeedReport, error) {
	byTopic := make(map[int64][]classify.SubtopicRule)
	for _, st := range s.source.Subtopics() {
		byTopic[st.TopicID] = append(byTopic[st.TopicID], st)
	}

	report := &SeedReport{}
	for _, t := range s.source.Topics() {
		err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			return s.seedTopic(txCtx, t, byTopic[t.ID], report)
		})
		if err != nil {
			s.logger.Error("Error seeding topic, transaction rolled back", zap.Int64("topic_id", t.ID), zap.Error(err))
			return report, fmt.Errorf("failed to seed topic %d: %w", t.ID, err)
		}
	}

	s.logger.Info("Catalog seeding completed",
		zap.Int("topics_inserted", report.TopicsInserted),
		zap.Int("subtopics_inserted", report.SubtopicsInserted),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

func (s *seedService) seedTopic(ctx context.Context, t classify.TopicDef, subtopics []classify.SubtopicRule, report *SeedReport) error {
	existing, err := s.topicRepo.GetTopicByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		topic := &domain.Topic{ID: t.ID, Name: t.Name}
		if t.Icon != "" {
			icon := t.Icon
			topic.Icon = &icon
		}
		if err := s.topicRepo.SaveTopic(ctx, topic); err != nil {
			return err
		}
		report.TopicsInserted++
	} else {
		report.Skipped++
	}

	for _, st := range subtopics {
		found, err := s.topicRepo.GetSubtopicByID(ctx, st.ID)
		if err != nil {
			return err
		}
		if found != nil {
			report.Skipped++
			continue
		}
		if err := s.topicRepo.SaveSubtopic(ctx, &domain.Subtopic{ID: st.ID, TopicID: st.TopicID, Name: st.Name}); err != nil {
			return err
		}
		report.SubtopicsInserted++
	}
	return nil
}
