package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// GeneralCache 通用本地缓存，支持 TTL
type GeneralCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewGeneralCache 创建通用缓存
// maxCost: 每个条目成本记为 1，即最多缓存的条目数
// ttl: 默认过期时间
func NewGeneralCache(maxCost int64, ttl time.Duration) (*GeneralCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10, // 官方建议计数器为条目数的 10 倍
		MaxCost:     maxCost,
		BufferItems: 64,
		// 不计入内部结构开销，成本只按 Set 传入的 1 计
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 ristretto 缓存失败: %w", err)
	}

	return &GeneralCache{
		cache: cache,
		ttl:   ttl,
	}, nil
}

// Set 设置缓存，使用默认 TTL
func (c *GeneralCache) Set(key string, value any) bool {
	return c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL 设置缓存，指定 TTL
func (c *GeneralCache) SetWithTTL(key string, value any, ttl time.Duration) bool {
	return c.cache.SetWithTTL(key, value, 1, ttl)
}

// Get 获取缓存
func (c *GeneralCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

// GetString 获取字符串缓存
func (c *GeneralCache) GetString(key string) (string, bool) {
	value, ok := c.cache.Get(key)
	if !ok {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// GetStrings 获取字符串切片缓存，返回副本
func (c *GeneralCache) GetStrings(key string) ([]string, bool) {
	value, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	strs, ok := value.([]string)
	if !ok {
		return nil, false
	}
	return append([]string(nil), strs...), true
}

// Wait Set 是异步写入，测试或需要读己之写时调用
func (c *GeneralCache) Wait() {
	c.cache.Wait()
}

// Delete 删除缓存
func (c *GeneralCache) Delete(key string) {
	c.cache.Del(key)
}

// Clear 清空所有条目
func (c *GeneralCache) Clear() {
	c.cache.Clear()
}

// Close 关闭缓存
func (c *GeneralCache) Close() {
	c.cache.Close()
}
