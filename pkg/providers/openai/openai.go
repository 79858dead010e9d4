// Package openai 通过 OpenAI 兼容接口调用模型进行翻译，
// 支持自定义 BaseURL 以接入任何兼容端点。
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/nerdneilsfield/go-doc-translator/pkg/providers"
)

func init() {
	providers.Register("openai", New)
}

// Client OpenAI 兼容的翻译客户端
type Client struct {
	client *goopenai.Client
	cfg    providers.Config
}

// New 创建 OpenAI 客户端
func New(_ context.Context, cfg providers.Config) (providers.Translator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai: model is required")
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client: goopenai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

// Translate 发送提示词并返回首个候选的文本内容
func (c *Client) Translate(ctx context.Context, prompt string) (string, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if c.cfg.SystemInstruction != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: c.cfg.SystemInstruction,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages:    messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: response contains no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Name 实现 providers.Translator
func (c *Client) Name() string {
	return "openai/" + c.cfg.Model
}
