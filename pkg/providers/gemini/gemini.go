// Package gemini 通过 Google GenAI SDK 调用 Gemini 模型进行翻译。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/nerdneilsfield/go-doc-translator/pkg/providers"
)

func init() {
	providers.Register("gemini", New)
}

// Client Gemini 翻译客户端
type Client struct {
	client *genai.Client
	cfg    providers.Config
}

// New 创建 Gemini 客户端
func New(ctx context.Context, cfg providers.Config) (providers.Translator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini: model is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	return &Client{client: client, cfg: cfg}, nil
}

// Translate 发送提示词并返回模型的文本响应
func (c *Client) Translate(ctx context.Context, prompt string) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.cfg.Temperature),
	}
	if c.cfg.SystemInstruction != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(c.cfg.SystemInstruction, genai.RoleUser)
	}
	if c.cfg.ThinkingBudget > 0 {
		genCfg.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(c.cfg.ThinkingBudget),
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	return resp.Text(), nil
}

// Name 实现 providers.Translator
func (c *Client) Name() string {
	return "gemini/" + c.cfg.Model
}
