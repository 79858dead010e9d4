package translation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-doc-translator/pkg/document"
)

// Translator 一次同步的外部翻译调用
type Translator interface {
	Translate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// WorkerState 批次翻译的状态机阶段
type WorkerState int

const (
	StatePending WorkerState = iota
	StateCalling
	StateValidating
	StateAccepted
	StateRetrying
	StateFailed
)

// String 实现 fmt.Stringer
func (s WorkerState) String() string {
	switch s {
	case StateCalling:
		return "calling"
	case StateValidating:
		return "validating"
	case StateAccepted:
		return "accepted"
	case StateRetrying:
		return "retrying"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

// WorkerOptions 批次 worker 的行为参数
type WorkerOptions struct {
	// TargetLanguage 提示词中使用的目标语言显示名
	TargetLanguage string

	// MaxAttempts 单个批次的最大尝试次数
	MaxAttempts int

	// InitialDelay / MaxDelay / BackoffFactor 重试退避参数
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64

	// OnFatal 在每次分类为致命 API 错误时立刻回调（高可见度上报），可为 nil
	OnFatal func(err error)
}

// DefaultWorkerOptions 返回默认参数
func DefaultWorkerOptions(targetLanguage string) WorkerOptions {
	return WorkerOptions{
		TargetLanguage: targetLanguage,
		MaxAttempts:    5,
		InitialDelay:   time.Second,
		MaxDelay:       45 * time.Second,
		BackoffFactor:  2.0,
	}
}

// Worker 驱动单个批次的 调用 → 校验 → 重试 循环。
// 同一个 Worker 可被多个 goroutine 并发使用；每个批次的退避状态
// 在 TranslateBatch 内部私有。
type Worker struct {
	translator Translator
	limiter    *RateLimiter
	diags      *Diagnostics
	logger     *zap.Logger
	opts       WorkerOptions
}

// NewWorker 创建批次 worker
func NewWorker(translator Translator, limiter *RateLimiter, diags *Diagnostics, logger *zap.Logger, opts WorkerOptions) *Worker {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	return &Worker{
		translator: translator,
		limiter:    limiter,
		diags:      diags,
		logger:     logger,
		opts:       opts,
	}
}

// TranslateBatch 翻译一个批次。任何失败都退化为原文透传，
// 永远返回与输入键集相同的结果，绝不丢内容。
func (w *Worker) TranslateBatch(ctx context.Context, batch document.Batch) map[string]string {
	prompt, err := BuildPrompt(batch, w.opts.TargetLanguage)
	if err != nil {
		w.diags.Errorf("failed to build prompt for batch (keys: %v): %v", batch.Keys(), err)
		return passThrough(batch)
	}

	backoff := NewExponentialBackoff(w.opts.InitialDelay, w.opts.MaxDelay, w.opts.BackoffFactor, true)
	var lastErr error

	for attempt := 1; attempt <= w.opts.MaxAttempts; attempt++ {
		final := attempt == w.opts.MaxAttempts

		w.logState(StateCalling, batch, attempt)
		if err := w.limiter.Wait(ctx); err != nil {
			w.diags.Errorf("batch canceled before dispatch (keys: %v): %v", batch.Keys(), err)
			return passThrough(batch)
		}

		raw, err := w.translator.Translate(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				w.diags.Errorf("batch canceled during call (keys: %v): %v", batch.Keys(), ctx.Err())
				return passThrough(batch)
			}
			lastErr = err
			class := Classify(err)
			switch class {
			case ClassFatalAPI:
				w.logger.Error("fatal API error",
					zap.String("provider", w.translator.Name()),
					zap.Int("attempt", attempt),
					zap.Error(err))
				if w.opts.OnFatal != nil {
					w.opts.OnFatal(err)
				}
				w.diags.Warnf("fatal API error on attempt %d/%d: %v", attempt, w.opts.MaxAttempts, err)
			case ClassRateLimited:
				w.diags.Warnf("rate limited / server busy on attempt %d/%d: %v", attempt, w.opts.MaxAttempts, err)
			default:
				w.diags.Warnf("translation call failed on attempt %d/%d: %v", attempt, w.opts.MaxAttempts, err)
			}
			if final {
				break
			}
			if !w.waitBackoff(ctx, backoff, batch) {
				return passThrough(batch)
			}
			continue
		}

		w.logState(StateValidating, batch, attempt)
		if strings.TrimSpace(raw) == "" {
			lastErr = ErrEmptyResponse
			w.diags.Warnf("attempt %d/%d: %v", attempt, w.opts.MaxAttempts, ErrEmptyResponse)
			if final {
				break
			}
			if !w.waitBackoff(ctx, backoff, batch) {
				return passThrough(batch)
			}
			continue
		}
		res, verr := ValidateResponse(raw, batch)
		if verr != nil {
			lastErr = verr
			if errors.Is(verr, ErrMissingKeys) {
				w.diags.Warnf("attempt %d/%d: response missing keys %v, retrying", attempt, w.opts.MaxAttempts, res.MissingKeys)
			} else {
				w.diags.Warnf("attempt %d/%d: %v", attempt, w.opts.MaxAttempts, verr)
			}
			if final {
				break
			}
			w.logState(StateRetrying, batch, attempt)
			if !w.waitBackoff(ctx, backoff, batch) {
				return passThrough(batch)
			}
			continue
		}

		if len(res.ExtraKeys) > 0 {
			w.diags.Warnf("dropped unexpected keys in translated batch (attempt %d): %v", attempt, res.ExtraKeys)
		}

		// 原样回显通常意味着服务没有真正翻译；只有最后一次尝试才接受
		if res.NoOp && !final {
			lastErr = errors.New("translation identical to input")
			w.diags.Warnf("attempt %d/%d: translation unchanged, possibly all identifiers or a transient no-op, retrying", attempt, w.opts.MaxAttempts)
			w.logState(StateRetrying, batch, attempt)
			if !w.waitBackoff(ctx, backoff, batch) {
				return passThrough(batch)
			}
			continue
		}

		w.logState(StateAccepted, batch, attempt)
		return res.Translations
	}

	w.logState(StateFailed, batch, w.opts.MaxAttempts)
	w.diags.Errorf("batch failed after %d attempts: %v; returning original content (keys: %v)",
		w.opts.MaxAttempts, lastErr, batch.Keys())
	return passThrough(batch)
}

// waitBackoff 在重试前退避等待，返回 false 表示已取消
func (w *Worker) waitBackoff(ctx context.Context, backoff *ExponentialBackoff, batch document.Batch) bool {
	waited, err := backoff.Wait(ctx)
	if err != nil {
		w.diags.Errorf("batch canceled during backoff (keys: %v): %v", batch.Keys(), err)
		return false
	}
	w.logger.Debug("backoff before retry", zap.Duration("waited", waited))
	return true
}

func (w *Worker) logState(state WorkerState, batch document.Batch, attempt int) {
	w.logger.Debug("batch state",
		zap.String("state", state.String()),
		zap.Int("attempt", attempt),
		zap.Int("entries", len(batch.Entries)),
		zap.Int("chars", batch.Chars))
}

// passThrough 返回批次的原文副本
func passThrough(batch document.Batch) map[string]string {
	out := make(map[string]string, len(batch.Entries))
	for k, v := range batch.Entries {
		out[k] = v
	}
	return out
}
