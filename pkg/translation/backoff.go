package translation

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// ExponentialBackoff 计算同一批次相邻重试之间的等待时间。
// 每个批次的重试循环持有自己的实例，不跨 worker 共享。
type ExponentialBackoff struct {
	initial time.Duration
	max     time.Duration
	factor  float64
	jitter  bool
	attempt int
}

// NewExponentialBackoff 创建退避计算器
func NewExponentialBackoff(initial, max time.Duration, factor float64, jitter bool) *ExponentialBackoff {
	if initial <= 0 {
		initial = time.Second
	}
	if max <= 0 {
		max = 45 * time.Second
	}
	if factor <= 1.0 {
		factor = 2.0
	}
	return &ExponentialBackoff{
		initial: initial,
		max:     max,
		factor:  factor,
		jitter:  jitter,
	}
}

// Reset 将尝试计数归零
func (b *ExponentialBackoff) Reset() {
	b.attempt = 0
}

// Next 递增尝试计数并返回本次等待时间：
// min(initial * factor^(attempt-1), max)，再加 [0, 0.25*delay) 的抖动。
func (b *ExponentialBackoff) Next() time.Duration {
	b.attempt++
	delay := float64(b.initial) * math.Pow(b.factor, float64(b.attempt-1))
	if delay > float64(b.max) {
		delay = float64(b.max)
	}
	d := time.Duration(delay)
	if b.jitter {
		d += time.Duration(rand.Float64() * 0.25 * delay)
	}
	return d
}

// Wait 按计算出的时间睡眠，返回实际等待时长
func (b *ExponentialBackoff) Wait(ctx context.Context) (time.Duration, error) {
	d := b.Next()
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timer.C:
		return d, nil
	}
}
