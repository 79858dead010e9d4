// Package providers 定义外部翻译服务的统一接口和注册表。
// 具体实现放在各自的子包中，通过 init 注册。
package providers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Translator 对外部翻译服务的一次同步调用
type Translator interface {
	// Translate 发送完整提示词并返回原始响应文本
	Translate(ctx context.Context, prompt string) (string, error)

	// Name 返回服务标识，用于日志
	Name() string
}

// Config 创建翻译服务客户端所需的全部参数
type Config struct {
	// APIKey 服务凭证
	APIKey string

	// Model 模型标识，例如 gemini-2.5-flash
	Model string

	// Temperature 采样温度，翻译任务建议偏低
	Temperature float32

	// SystemInstruction 系统指令，为空时不设置
	SystemInstruction string

	// ThinkingBudget 思考预算（token），仅部分服务支持，0 表示关闭
	ThinkingBudget int32

	// BaseURL 自定义服务地址，为空时使用官方端点
	BaseURL string

	// Timeout 单次调用超时
	Timeout time.Duration
}

// Factory 根据配置创建一个翻译服务客户端
type Factory func(ctx context.Context, cfg Config) (Translator, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register 注册一个服务实现，由各实现包的 init 调用。
// 重复注册同名服务会 panic。
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("providers: duplicate registration of %q", name))
	}
	registry[name] = factory
}

// New 按名称创建翻译服务客户端
func New(ctx context.Context, name string, cfg Config) (Translator, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown translation provider %q (available: %v)", name, Names())
	}
	return factory(ctx, cfg)
}

// Names 返回已注册的服务名称，按字典序
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
