package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ Store = (*RedisStore)(nil)

// RedisStore хранит настройки под ключами `prefs:{namespace}:{key}`.
type RedisStore struct {
	client    redis.Cmdable
	namespace string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisStore создает хранилище поверх Redis. Нулевой ttl - без срока жизни.
func NewRedisStore(client redis.Cmdable, namespace string, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if namespace == "" {
		namespace = "default"
	}
	return &RedisStore{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
		logger:    logger.Named("RedisPrefs"),
	}
}

func (s *RedisStore) redisKey(key string) string {
	return fmt.Sprintf("prefs:%s:%s", s.namespace, key)
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	redisKey := s.redisKey(key)
	v, err := s.client.Get(ctx, redisKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.logger.Debug("Preference not set", zap.String("key", redisKey))
			return "", ErrNotFound
		}
		s.logger.Error("Failed to get preference from redis", zap.String("key", redisKey), zap.Error(err))
		return "", fmt.Errorf("failed to get preference %s from redis: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	redisKey := s.redisKey(key)
	if err := s.client.Set(ctx, redisKey, value, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to set preference in redis", zap.String("key", redisKey), zap.Error(err))
		return fmt.Errorf("failed to set preference %s in redis: %w", key, err)
	}
	s.logger.Debug("Preference saved", zap.String("key", redisKey), zap.Duration("ttl", s.ttl))
	return nil
}
