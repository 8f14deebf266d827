package factory

import (
	"context"
	"fmt"

	"github.com/iWorld-y/research_copilot/pkg/config"
	"github.com/iWorld-y/research_copilot/pkg/llm"
	"github.com/iWorld-y/research_copilot/pkg/llm/gemini"
	"github.com/iWorld-y/research_copilot/pkg/llm/openai"
)

// NewGenerator 根据配置创建文本生成实例
func NewGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	provider := cfg.LLM.Provider
	if provider == "" {
		// 默认回退逻辑：如果有 gemini key，则使用 gemini
		if cfg.LLM.Gemini.APIKey != "" {
			provider = "gemini"
		} else {
			return nil, fmt.Errorf("llm provider not configured")
		}
	}

	switch provider {
	case "gemini":
		if cfg.LLM.Gemini.APIKey == "" {
			return nil, fmt.Errorf("gemini api key is missing")
		}
		return gemini.NewClient(cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model), nil

	case "openai":
		if cfg.LLM.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai api key is missing")
		}
		return openai.NewModel(ctx, cfg.LLM.OpenAI)

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
