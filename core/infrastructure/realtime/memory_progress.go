package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/cache"
	"github.com/Hachijin-Okamoto/anyjara/core/domain/repository"
)

// MemoryProgressStore 未启用 redis 时的本地实现，基于 ristretto，TTL 同样生效
type MemoryProgressStore struct {
	cache *cache.GeneralCache
}

func NewMemoryProgressStore(maxCost int64) (*MemoryProgressStore, error) {
	c, err := cache.NewGeneralCache(maxCost, time.Hour)
	if err != nil {
		return nil, fmt.Errorf("创建进度缓存失败: %w", err)
	}
	return &MemoryProgressStore{cache: c}, nil
}

func (m *MemoryProgressStore) SaveProgress(_ context.Context, p *repository.Progress, ttl time.Duration) error {
	snapshot := *p
	m.cache.SetWithTTL(progressKeyOf(p.RunID), &snapshot, ttl)
	m.cache.Wait()
	return nil
}

func (m *MemoryProgressStore) GetProgress(_ context.Context, runID string) (*repository.Progress, error) {
	v, ok := m.cache.Get(progressKeyOf(runID))
	if !ok {
		return nil, repository.ErrProgressNotFound
	}
	p, ok := v.(*repository.Progress)
	if !ok {
		return nil, repository.ErrProgressNotFound
	}
	snapshot := *p
	return &snapshot, nil
}

func (m *MemoryProgressStore) DeleteProgress(_ context.Context, runID string) error {
	m.cache.Delete(progressKeyOf(runID))
	return nil
}

func (m *MemoryProgressStore) Close() {
	m.cache.Close()
}
