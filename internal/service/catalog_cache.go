package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"detran-quiz/internal/cache"
	"detran-quiz/internal/domain"
	"detran-quiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// cachedTopicRepository is a read-through cache in front of a domain.TopicRepository.
// Topic and subtopic lists are static after seeding, so they are cached whole. Any cache
// failure falls back to the wrapped repository.
type cachedTopicRepository struct {
	domain.TopicRepository
	cache domain.Cache
	ttl   time.Duration
	group singleflight.Group
}

// NewCachedTopicRepository wraps repo with cache. A nil cache returns repo unchanged.
func NewCachedTopicRepository(repo domain.TopicRepository, c domain.Cache, ttl time.Duration) domain.TopicRepository {
	if c == nil {
		return repo
	}
	return &cachedTopicRepository{TopicRepository: repo, cache: c, ttl: ttl}
}

func (r *cachedTopicRepository) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	key := cache.TopicsKey()
	var topics []*domain.Topic
	if r.lookup(ctx, key, &topics) {
		return topics, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		topics, err := r.TopicRepository.ListTopics(ctx)
		if err != nil {
			return nil, err
		}
		r.store(ctx, key, topics)
		return topics, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Topic), nil
}

func (r *cachedTopicRepository) ListSubtopics(ctx context.Context, topicID int64) ([]*domain.Subtopic, error) {
	key := cache.SubtopicsKey(topicID)
	var subtopics []*domain.Subtopic
	if r.lookup(ctx, key, &subtopics) {
		return subtopics, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		subtopics, err := r.TopicRepository.ListSubtopics(ctx, topicID)
		if err != nil {
			return nil, err
		}
		r.store(ctx, key, subtopics)
		return subtopics, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Subtopic), nil
}

// SaveTopic drops the cached topic list after a successful write.
func (r *cachedTopicRepository) SaveTopic(ctx context.Context, topic *domain.Topic) error {
	if err := r.TopicRepository.SaveTopic(ctx, topic); err != nil {
		return err
	}
	r.invalidate(ctx, cache.TopicsKey())
	return nil
}

func (r *cachedTopicRepository) SaveSubtopic(ctx context.Context, subtopic *domain.Subtopic) error {
	if err := r.TopicRepository.SaveSubtopic(ctx, subtopic); err != nil {
		return err
	}
	r.invalidate(ctx, cache.SubtopicsKey(subtopic.TopicID))
	return nil
}

// lookup reports whether key held a decodable value.
func (r *cachedTopicRepository) lookup(ctx context.Context, key string, dest interface{}) bool {
	raw, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Catalog cache read failed, using database", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Get().Warn("Discarding undecodable catalog cache entry", zap.String("key", key), zap.Error(err))
		r.invalidate(ctx, key)
		return false
	}
	return true
}

func (r *cachedTopicRepository) store(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Get().Error("Failed to marshal catalog for caching", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, key, string(data), r.ttl); err != nil {
		logger.Get().Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *cachedTopicRepository) invalidate(ctx context.Context, key string) {
	if err := r.cache.Delete(ctx, key); err != nil {
		logger.Get().Warn("Catalog cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
