package translation

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// RateLimiter 在所有 worker 之间强制外部请求的最小间隔。
// 间隔检查与时间戳更新在同一个临界区内完成，锁只覆盖槽位预留，
// 不跨越睡眠或外部调用。
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewRateLimiter 创建共享限速门，minInterval 为两次外呼之间的最小间隔
func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	return &RateLimiter{interval: minInterval}
}

// Wait 阻塞直到允许下一次外呼。实际间隔为 minInterval 加上
// [0, 0.1*minInterval) 的随机抖动，避免多个 worker 同步撞限。
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.interval <= 0 {
		return ctx.Err()
	}

	r.mu.Lock()
	jitter := time.Duration(rand.Float64() * 0.1 * float64(r.interval))
	target := r.interval + jitter

	now := time.Now()
	next := r.last.Add(target)
	if next.Before(now) {
		next = now
	}
	r.last = next
	r.mu.Unlock()

	if wait := time.Until(next); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
