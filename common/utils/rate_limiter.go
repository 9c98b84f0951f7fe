package utils

import (
	"sync"
	"time"
)

// RateLimiter 令牌桶，批量评测里用来限制进度推送频率
type RateLimiter struct {
	rate       float64 // 每秒补充的令牌数
	capacity   float64
	tokens     float64
	lastRefill time.Time
	now        func() time.Time
	mu         sync.Mutex
}

// NewRateLimiter rate 每秒允许的次数，burst 桶容量；rate <= 0 时不限流
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	return newRateLimiter(rate, burst, time.Now)
}

func newRateLimiter(rate float64, burst int, now func() time.Time) *RateLimiter {
	capacity := float64(max(burst, 1))
	return &RateLimiter{
		rate:       rate,
		capacity:   capacity,
		tokens:     capacity,
		lastRefill: now(),
		now:        now,
	}
}

// Allow 有令牌则消耗一个并返回 true
func (rl *RateLimiter) Allow() bool {
	if rl == nil || rl.rate <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens = min(rl.capacity, rl.tokens+elapsed*rl.rate)
	rl.lastRefill = now

	if rl.tokens >= 1.0 {
		rl.tokens -= 1.0
		return true
	}
	return false
}
