package translation

import (
	"context"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-doc-translator/pkg/document"
)

// PipelineOptions 整条翻译流水线的参数
type PipelineOptions struct {
	// Filter 可译文本的判定阈值
	Filter document.FilterOptions

	// MaxChars 单个批次的字符预算
	MaxChars int

	// Workers 并发批次数
	Workers int

	// Worker 批次级的调用/重试参数
	Worker WorkerOptions

	// Progress 批次完成通知，可为 nil
	Progress ProgressSink

	// OnBatches 在分块完成、调度开始之前回调（用于落盘中间产物），可为 nil
	OnBatches func(batches []document.Batch)
}

// Pipeline 提取 → 分块 → 并发翻译 → 重组 的完整流程
type Pipeline struct {
	translator Translator
	limiter    *RateLimiter
	diags      *Diagnostics
	logger     *zap.Logger
	opts       PipelineOptions
}

// NewPipeline 创建文档翻译流水线。limiter 可在多条流水线之间共享，
// 以便对同一个服务端点统一限速。
func NewPipeline(translator Translator, limiter *RateLimiter, diags *Diagnostics, logger *zap.Logger, opts PipelineOptions) *Pipeline {
	if opts.MaxChars <= 0 {
		opts.MaxChars = document.DefaultMaxChars
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Pipeline{
		translator: translator,
		limiter:    limiter,
		diags:      diags,
		logger:     logger,
		opts:       opts,
	}
}

// TranslateDocument 翻译一棵文档树，返回结构相同的新树。
// 第二个返回值为 true 表示文档没有可译文本，直接返回了原树的副本。
func (p *Pipeline) TranslateDocument(ctx context.Context, doc *document.Value) (*document.Value, bool) {
	texts := document.Extract(doc, p.opts.Filter)
	if len(texts) == 0 {
		p.logger.Info("no translatable text found, copying document unchanged")
		return doc.Clone(), true
	}

	batches := document.Chunk(texts, p.opts.MaxChars)
	p.logger.Info("document chunked",
		zap.Int("texts", len(texts)),
		zap.Int("batches", len(batches)),
		zap.Int("max_chars", p.opts.MaxChars))

	if p.opts.OnBatches != nil {
		p.opts.OnBatches(batches)
	}

	worker := NewWorker(p.translator, p.limiter, p.diags, p.logger, p.opts.Worker)
	scheduler := NewScheduler(worker, p.opts.Workers, p.logger)
	translations := scheduler.Run(ctx, batches, p.opts.Progress)

	return document.Apply(doc, translations), false
}

// BatchCount 返回该文档在当前参数下会产生的批次数，
// 供调用方在调度前初始化进度条。
func (p *Pipeline) BatchCount(doc *document.Value) int {
	texts := document.Extract(doc, p.opts.Filter)
	if len(texts) == 0 {
		return 0
	}
	return len(document.Chunk(texts, p.opts.MaxChars))
}
