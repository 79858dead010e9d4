// Package config 负责加载和校验运行配置，
// 优先级为 命令行标志 > 环境变量 > 配置文件 > 默认值。
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 一次运行的全部配置
type Config struct {
	// Provider 翻译服务名称（gemini / openai）
	Provider string `mapstructure:"provider"`

	// Model 模型标识
	Model string `mapstructure:"model"`

	// APIKey 服务凭证，未设置时回退到服务各自的环境变量
	APIKey string `mapstructure:"api_key"`

	// BaseURL 自定义服务地址（仅 OpenAI 兼容端点）
	BaseURL string `mapstructure:"base_url"`

	// TargetLang 目标语言代码，例如 vi / fr / zh
	TargetLang string `mapstructure:"target_lang"`

	// Workers 并发批次数
	Workers int `mapstructure:"workers"`

	// MinRequestInterval 相邻外部请求之间的最小间隔（秒）
	MinRequestInterval float64 `mapstructure:"min_request_interval"`

	// MaxRetries 单个批次的最大尝试次数
	MaxRetries int `mapstructure:"max_retries"`

	// BackoffFactor 重试退避的指数因子
	BackoffFactor float64 `mapstructure:"backoff_factor"`

	// MaxChunkChars 单个批次的字符预算
	MaxChunkChars int `mapstructure:"max_chunk_chars"`

	// MinAlphaChars 文本至少包含的字母数，低于该值按标识符处理
	MinAlphaChars int `mapstructure:"min_alpha_chars"`

	// MaxIdentifierLen 短 token 启发式判定的长度上限
	MaxIdentifierLen int `mapstructure:"max_identifier_len"`

	// ProjectRoot 翻译项目产物的根目录
	ProjectRoot string `mapstructure:"project_root"`

	// Temperature 采样温度
	Temperature float32 `mapstructure:"temperature"`

	// ThinkingBudget 思考预算（token），0 表示关闭
	ThinkingBudget int32 `mapstructure:"thinking_budget"`

	// RequestTimeoutSeconds 单次外部调用超时（秒），0 表示不限制
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
}

// Load 加载配置。cfgFile 为空时依次在当前目录和 $HOME/.doctrans
// 下查找 doctrans.yaml，找不到配置文件不算错误。
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("provider", "gemini")
	v.SetDefault("model", "gemini-2.5-flash")
	v.SetDefault("target_lang", "vi")
	v.SetDefault("workers", 4)
	v.SetDefault("min_request_interval", 0.5)
	v.SetDefault("max_retries", 5)
	v.SetDefault("backoff_factor", 2.0)
	v.SetDefault("max_chunk_chars", 1800)
	v.SetDefault("min_alpha_chars", 3)
	v.SetDefault("max_identifier_len", 30)
	v.SetDefault("project_root", "translator_projects")
	v.SetDefault("temperature", 0.3)
	v.SetDefault("thinking_budget", 0)
	v.SetDefault("request_timeout_seconds", 300)

	v.SetEnvPrefix("DOCTRANS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("doctrans")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.doctrans")
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv(cfg.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// apiKeyFromEnv 按服务名回退到常见的环境变量
func apiKeyFromEnv(provider string) string {
	switch provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		return ""
	}
}

// Validate 校验配置的合法性
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider must not be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	if c.TargetLang == "" {
		return fmt.Errorf("target_lang must not be empty")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MinRequestInterval < 0 {
		return fmt.Errorf("min_request_interval must not be negative, got %v", c.MinRequestInterval)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be positive, got %d", c.MaxRetries)
	}
	if c.BackoffFactor <= 1.0 {
		return fmt.Errorf("backoff_factor must be greater than 1.0, got %v", c.BackoffFactor)
	}
	if c.MaxChunkChars <= 0 {
		return fmt.Errorf("max_chunk_chars must be positive, got %d", c.MaxChunkChars)
	}
	return nil
}

// RequestInterval 返回最小请求间隔
func (c *Config) RequestInterval() time.Duration {
	return time.Duration(c.MinRequestInterval * float64(time.Second))
}

// RequestTimeout 返回单次调用超时
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
