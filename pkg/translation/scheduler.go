package translation

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-doc-translator/pkg/document"
)

// ProgressSink 接收批次完成通知。单个调度器只在收集 goroutine
// 中调用它，但同一个 sink 可能被多个调度器共享，实现必须可并发调用。
type ProgressSink interface {
	Advance(n int)
}

// noopProgress 静默实现
type noopProgress struct{}

func (noopProgress) Advance(int) {}

// Scheduler 把批次分发给固定数量的 worker goroutine 并发翻译，
// 由单个收集循环合并结果并推进进度。
type Scheduler struct {
	worker  *Worker
	workers int
	logger  *zap.Logger
}

// NewScheduler 创建批次调度器，workers 为并发 goroutine 数
func NewScheduler(worker *Worker, workers int, logger *zap.Logger) *Scheduler {
	if workers <= 0 {
		workers = 1
	}
	return &Scheduler{worker: worker, workers: workers, logger: logger}
}

// Run 并发翻译全部批次并返回合并后的翻译映射。
// 取消时已入队的批次以原文透传，进度仍然推进到总数，
// 保证调用方的进度显示不会挂起。
func (s *Scheduler) Run(ctx context.Context, batches []document.Batch, progress ProgressSink) map[string]string {
	if progress == nil {
		progress = noopProgress{}
	}
	if len(batches) == 0 {
		return map[string]string{}
	}

	workers := s.workers
	if workers > len(batches) {
		workers = len(batches)
	}

	jobs := make(chan document.Batch)
	results := make(chan map[string]string, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				results <- s.worker.TranslateBatch(ctx, batch)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, batch := range batches {
			select {
			case jobs <- batch:
			case <-ctx.Done():
				// 未入队的批次直接透传，结果集保持完整
				results <- passThrough(batch)
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	merged := make(map[string]string)
	received := 0
	for part := range results {
		for k, v := range part {
			merged[k] = v
		}
		received++
		progress.Advance(1)
	}

	s.logger.Debug("all batches collected",
		zap.Int("batches", received),
		zap.Int("workers", workers),
		zap.Int("keys", len(merged)))
	return merged
}
