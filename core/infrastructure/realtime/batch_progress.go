package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/database"
	"github.com/Hachijin-Okamoto/anyjara/core/domain/repository"
	"github.com/redis/go-redis/v9"
)

const progressKey = "batch:progress" // runID -> 进度快照 JSON

// RedisProgressStore Redis 实现的评测进度存储
type RedisProgressStore struct {
	redis *database.RedisManager
}

func NewRedisProgressStore(redis *database.RedisManager) repository.ProgressStore {
	return &RedisProgressStore{redis: redis}
}

func progressKeyOf(runID string) string {
	return progressKey + ":" + runID
}

func (r *RedisProgressStore) SaveProgress(ctx context.Context, p *repository.Progress, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("序列化进度失败: %w", err)
	}
	return r.redis.Set(ctx, progressKeyOf(p.RunID), string(data), ttl)
}

func (r *RedisProgressStore) GetProgress(ctx context.Context, runID string) (*repository.Progress, error) {
	raw, err := r.redis.Get(ctx, progressKeyOf(runID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrProgressNotFound
		}
		return nil, err
	}
	var p repository.Progress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("解析进度失败: %w", err)
	}
	return &p, nil
}

func (r *RedisProgressStore) DeleteProgress(ctx context.Context, runID string) error {
	return r.redis.Del(ctx, progressKeyOf(runID))
}
