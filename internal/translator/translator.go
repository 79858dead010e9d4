// Package translator 编排单文件和目录批量翻译：读取文档、
// 建立项目产物目录、驱动翻译流水线并写出译文。
package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-doc-translator/internal/config"
	"github.com/nerdneilsfield/go-doc-translator/internal/fileio"
	"github.com/nerdneilsfield/go-doc-translator/internal/project"
	"github.com/nerdneilsfield/go-doc-translator/pkg/document"
	"github.com/nerdneilsfield/go-doc-translator/pkg/providers"
	"github.com/nerdneilsfield/go-doc-translator/pkg/translation"
)

// maxConcurrentFiles 目录批量模式下同时翻译的文件上限
const maxConcurrentFiles = 8

// Progress 终端进度显示。批次总数只有在分块后才知道，
// 所以先 AddTotal 再随完成推进。实现必须可并发调用。
type Progress interface {
	translation.ProgressSink
	AddTotal(n int)
}

// FileResult 一个文件的翻译结果
type FileResult struct {
	Input    string
	Output   string
	Texts    int
	Batches  int
	Duration time.Duration
	Skipped  bool
	Err      error
}

// FileTranslator 文件级翻译器。同一个实例的所有调用共享
// 限速器和诊断收集器，对同一个服务端点统一限速。
type FileTranslator struct {
	cfg      *config.Config
	provider providers.Translator
	manager  *project.Manager
	limiter  *translation.RateLimiter
	diags    *translation.Diagnostics
	logger   *zap.Logger
}

// New 创建文件翻译器
func New(cfg *config.Config, provider providers.Translator, logger *zap.Logger) *FileTranslator {
	return &FileTranslator{
		cfg:      cfg,
		provider: provider,
		manager:  project.NewManager(cfg.ProjectRoot, logger),
		limiter:  translation.NewRateLimiter(cfg.RequestInterval()),
		diags:    translation.NewDiagnostics(),
		logger:   logger,
	}
}

// Diagnostics 返回共享的诊断收集器
func (ft *FileTranslator) Diagnostics() *translation.Diagnostics {
	return ft.diags
}

// TranslateFile 翻译单个文件并写出到 outputPath。
// 项目目录中同时保留原文副本、中间批次和译文。
func (ft *FileTranslator) TranslateFile(ctx context.Context, inputPath, outputPath string, progress Progress) FileResult {
	start := time.Now()
	runID := uuid.NewString()
	log := ft.logger.With(zap.String("run_id", runID), zap.String("input", inputPath))

	res := FileResult{Input: inputPath, Output: outputPath}

	doc, format, err := fileio.Load(inputPath)
	if err != nil {
		res.Err = err
		return res
	}

	layout, err := ft.manager.Create(trimExt(filepath.Base(inputPath)))
	if err != nil {
		res.Err = err
		return res
	}
	if err := copyFile(inputPath, filepath.Join(layout.OriginalDir, filepath.Base(inputPath))); err != nil {
		res.Err = fmt.Errorf("archiving original: %w", err)
		return res
	}

	pipeline := ft.newPipeline(layout.ChunksDir, progress, &res)

	log.Info("translation started",
		zap.String("provider", ft.provider.Name()),
		zap.String("target_lang", ft.cfg.TargetLang),
		zap.String("format", format.String()))

	translated, skipped := pipeline.TranslateDocument(ctx, doc)
	res.Skipped = skipped
	res.Duration = time.Since(start)

	projectOut := filepath.Join(layout.TranslatedDir, filepath.Base(inputPath))
	if err := fileio.Save(projectOut, translated, format); err != nil {
		res.Err = err
		return res
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		res.Err = fmt.Errorf("creating output directory: %w", err)
		return res
	}
	if err := fileio.Save(outputPath, translated, format); err != nil {
		res.Err = err
		return res
	}

	log.Info("translation finished",
		zap.Bool("skipped", skipped),
		zap.Int("texts", res.Texts),
		zap.Int("batches", res.Batches),
		zap.Duration("duration", res.Duration))
	return res
}

// TranslateDir 翻译目录下的全部文档文件，译文写到 outDir 下的同名文件。
// 并发文件数取 min(文件数, workers, 8)。
func (ft *FileTranslator) TranslateDir(ctx context.Context, inputDir, outDir string, progress Progress) ([]FileResult, error) {
	files, err := project.ListTranslatableFiles(inputDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no translatable files (.yml/.yaml/.json) found in %s", inputDir)
	}

	concurrency := len(files)
	if ft.cfg.Workers < concurrency {
		concurrency = ft.cfg.Workers
	}
	if concurrency > maxConcurrentFiles {
		concurrency = maxConcurrentFiles
	}

	ft.logger.Info("batch translation started",
		zap.Int("files", len(files)),
		zap.Int("concurrency", concurrency))

	results := make([]FileResult, len(files))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, input := range files {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			output := filepath.Join(outDir, filepath.Base(input))
			results[i] = ft.TranslateFile(ctx, input, output, progress)
		}(i, input)
	}
	wg.Wait()

	return results, nil
}

// newPipeline 为一个文件装配流水线，中间批次落盘到 chunksDir
func (ft *FileTranslator) newPipeline(chunksDir string, progress Progress, res *FileResult) *translation.Pipeline {
	workerOpts := translation.WorkerOptions{
		TargetLanguage: translation.LanguageName(ft.cfg.TargetLang),
		MaxAttempts:    ft.cfg.MaxRetries,
		InitialDelay:   time.Second,
		MaxDelay:       45 * time.Second,
		BackoffFactor:  ft.cfg.BackoffFactor,
		OnFatal:        reportFatal,
	}

	return translation.NewPipeline(ft.provider, ft.limiter, ft.diags, ft.logger, translation.PipelineOptions{
		Filter: document.FilterOptions{
			MinAlphaChars:    ft.cfg.MinAlphaChars,
			MaxIdentifierLen: ft.cfg.MaxIdentifierLen,
		},
		MaxChars: ft.cfg.MaxChunkChars,
		Workers:  ft.cfg.Workers,
		Worker:   workerOpts,
		Progress: progress,
		OnBatches: func(batches []document.Batch) {
			res.Batches = len(batches)
			for _, b := range batches {
				res.Texts += len(b.Entries)
			}
			if progress != nil {
				progress.AddTotal(len(batches))
			}
			if err := dumpChunks(chunksDir, batches); err != nil {
				ft.logger.Warn("failed to write chunk artifacts", zap.Error(err))
			}
		},
	})
}

// dumpChunks 把每个批次写成 chunk_%03d.json，便于排查和断点恢复
func dumpChunks(dir string, batches []document.Batch) error {
	for i, b := range batches {
		data, err := json.MarshalIndent(b.Entries, "", "  ")
		if err != nil {
			return err
		}
		name := filepath.Join(dir, fmt.Sprintf("chunk_%03d.json", i))
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// reportFatal 把致命 API 错误直接打到终端，不等运行结束
func reportFatal(err error) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "FATAL API ERROR: %v\n", err)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
