// Package cli 实现 doctrans 命令行入口
package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-doc-translator/internal/config"
	"github.com/nerdneilsfield/go-doc-translator/internal/logger"
	"github.com/nerdneilsfield/go-doc-translator/internal/translator"
	"github.com/nerdneilsfield/go-doc-translator/pkg/providers"

	// 注册内置的翻译服务
	_ "github.com/nerdneilsfield/go-doc-translator/pkg/providers/gemini"
	_ "github.com/nerdneilsfield/go-doc-translator/pkg/providers/openai"
)

var (
	// 命令行标志变量
	cfgFile      string
	providerName string
	modelName    string
	apiKey       string
	baseURL      string
	targetLang   string
	workers      int
	maxRetries   int
	chunkChars   int
	dirMode      bool // 输入输出按目录处理
	debugMode    bool
	verboseMode  bool
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "doctrans [flags] input output",
		Short: "doctrans translates YAML/JSON documents while preserving their structure",
		Long: `doctrans extracts the translatable text from structured YAML/JSON
documents, sends it to an LLM translation service in rate limited
batches, and reassembles a structurally identical translated document.

Identifiers, URLs, version numbers and other non natural language
strings are detected heuristically and kept unchanged.

Supported providers:
  - gemini: Google Gemini models (default)
  - openai: OpenAI and OpenAI compatible endpoints`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		Args:    cobra.ExactArgs(2),
		RunE:    runTranslate,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./doctrans.yaml)")
	flags.StringVar(&providerName, "provider", "", "translation provider (gemini, openai)")
	flags.StringVar(&modelName, "model", "", "model identifier")
	flags.StringVar(&apiKey, "api-key", "", "API key (falls back to GEMINI_API_KEY / OPENAI_API_KEY)")
	flags.StringVar(&baseURL, "base-url", "", "custom endpoint URL (openai provider only)")
	flags.StringVarP(&targetLang, "target-lang", "t", "", "target language code, e.g. vi, fr, ja")
	flags.IntVar(&workers, "workers", 0, "number of concurrent batches")
	flags.IntVar(&maxRetries, "max-retries", 0, "max attempts per batch")
	flags.IntVar(&chunkChars, "chunk-chars", 0, "character budget per batch")
	flags.BoolVar(&debugMode, "debug", false, "enable debug logging")
	flags.BoolVar(&verboseMode, "verbose", false, "human readable console logging")

	rootCmd.Flags().BoolVar(&dirMode, "dir", false, "treat input and output as directories")

	rootCmd.AddCommand(newProjectsCommand())
	rootCmd.AddCommand(newConfigCommand())
	return rootCmd
}

// loadConfig 加载配置并套用命令行覆盖
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("provider") {
		cfg.Provider = providerName
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = modelName
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = apiKey
	} else if cmd.Flags().Changed("provider") {
		// 切换服务后凭证跟着服务走
		cfg.APIKey = apiKeyFromFlagOrEnv(cfg.Provider)
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if cmd.Flags().Changed("target-lang") {
		cfg.TargetLang = targetLang
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.MaxRetries = maxRetries
	}
	if cmd.Flags().Changed("chunk-chars") {
		cfg.MaxChunkChars = chunkChars
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func apiKeyFromFlagOrEnv(provider string) string {
	switch provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		return ""
	}
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.NewLoggerWithVerbose(debugMode, verboseMode)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	provider, err := providers.New(ctx, cfg.Provider, providers.Config{
		APIKey:         cfg.APIKey,
		Model:          cfg.Model,
		Temperature:    cfg.Temperature,
		ThinkingBudget: cfg.ThinkingBudget,
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.RequestTimeout(),
	})
	if err != nil {
		return err
	}

	ft := translator.New(cfg, provider, log)
	bar := newProgressBar("Translating")
	defer bar.Stop()

	var results []translator.FileResult
	if dirMode {
		results, err = ft.TranslateDir(ctx, args[0], args[1], bar)
		if err != nil {
			return err
		}
	} else {
		results = []translator.FileResult{ft.TranslateFile(ctx, args[0], args[1], bar)}
	}
	bar.Stop()

	translator.RenderSummary(os.Stdout, results)
	printDiagnostics(ft.Diagnostics().Warnings(), ft.Diagnostics().Errors())

	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("translation finished with failures")
		}
	}
	return nil
}

// printDiagnostics 在运行结束后集中展示告警和单元级错误
func printDiagnostics(warnings, errors []string) {
	if len(warnings) > 0 {
		pterm.Warning.Printfln("%d warning(s) during translation:", len(warnings))
		for _, w := range warnings {
			pterm.Warning.Println("  " + w)
		}
	}
	if len(errors) > 0 {
		pterm.Error.Printfln("%d unit(s) fell back to original text:", len(errors))
		for _, e := range errors {
			pterm.Error.Println("  " + e)
		}
	}
}

// progressBar pterm 进度条的并发安全包装。
// 批次总数在分块后才知道，首次 AddTotal 时才真正启动进度条。
type progressBar struct {
	mu    sync.Mutex
	title string
	bar   *pterm.ProgressbarPrinter
}

func newProgressBar(title string) *progressBar {
	return &progressBar{title: title}
}

// AddTotal 实现 translator.Progress
func (p *progressBar) AddTotal(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		bar, err := pterm.DefaultProgressbar.WithTotal(n).WithTitle(p.title).Start()
		if err != nil {
			return
		}
		p.bar = bar
		return
	}
	p.bar.Total += n
}

// Advance 实现 translation.ProgressSink
func (p *progressBar) Advance(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Add(n)
	}
}

// Stop 结束进度条显示
func (p *progressBar) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_, _ = p.bar.Stop()
		p.bar = nil
	}
}
