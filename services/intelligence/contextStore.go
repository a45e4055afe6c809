// File: services/intelligence/contextStore.go
package ai

import (
	"context"
	"encoding/json"
	"time"

	"eisenflow/models"

	"github.com/go-redis/redis/v8"
)

const assistantContextPrefix = "ai:ctx:"

// maxHistoryTurns bounds the conversation state kept per user.
const maxHistoryTurns = 20

type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, userID string) (*models.AssistantContext, error) {
	key := assistantContextPrefix + userID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &models.AssistantContext{}, nil
	}
	if err != nil {
		return nil, err
	}
	var aiCtx models.AssistantContext
	if err := json.Unmarshal([]byte(data), &aiCtx); err != nil {
		return nil, err
	}
	return &aiCtx, nil
}

func (s *RedisContextStore) Set(ctx context.Context, userID string, aiCtx *models.AssistantContext) error {
	if len(aiCtx.History) > maxHistoryTurns {
		aiCtx.History = aiCtx.History[len(aiCtx.History)-maxHistoryTurns:]
	}
	key := assistantContextPrefix + userID
	b, err := json.Marshal(aiCtx)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, userID string) error {
	key := assistantContextPrefix + userID
	return s.client.Del(ctx, key).Err()
}
