package openai

import (
	"context"

	extopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/research_copilot/pkg/config"
	"github.com/iWorld-y/research_copilot/pkg/llm"
)

// Model 基于 eino 的 OpenAI 兼容生成器
type Model struct {
	chatModel model.ChatModel
}

// NewModel 创建 OpenAI 兼容生成器
func NewModel(ctx context.Context, cfg config.OpenAIConfig) (*Model, error) {
	chatModel, err := extopenai.NewChatModel(ctx, &extopenai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, err
	}
	return &Model{chatModel: chatModel}, nil
}

// Ensure Model implements llm.Generator
var _ llm.Generator = (*Model)(nil)

// Generate implements llm.Generator
func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []*schema.Message{
		{Role: schema.User, Content: prompt},
	}

	resp, err := m.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
