package server

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/research_copilot/internal/conf"
	"github.com/iWorld-y/research_copilot/pkg/config"
	"github.com/iWorld-y/research_copilot/pkg/engine"
	cpLogger "github.com/iWorld-y/research_copilot/pkg/logger"
	"github.com/iWorld-y/research_copilot/pkg/newsfeed"
	"github.com/iWorld-y/research_copilot/pkg/speech"
)

// NewEngine 初始化核心引擎
func NewEngine(c *conf.Copilot, logger log.Logger) (*engine.Engine, func(), error) {
	cfg := toConfig(c)

	// 初始化日志
	if err := cpLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.NewHelper(logger).Errorf("Failed to init copilot logger: %v", err)
		_ = cpLogger.InitLogger("info", "") // 降级处理
	}

	eng, err := engine.NewEngine(context.Background(), cfg)
	if err != nil {
		log.NewHelper(logger).Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("Cleaning up copilot engine")
	}

	return eng, cleanup, nil
}

// NewNewsCache 初始化头条缓存，以引擎的头条拉取作为数据源
func NewNewsCache(c *conf.Copilot, eng *engine.Engine) *newsfeed.Cache {
	ttl := newsfeed.DefaultTTL
	if c != nil && c.News != nil && c.News.TtlSeconds > 0 {
		ttl = time.Duration(c.News.TtlSeconds) * time.Second
	}
	return newsfeed.NewCache(ttl, eng.FetchHeadlines)
}

// NewSpeechClient 初始化语音服务客户端
func NewSpeechClient(c *conf.Copilot) *speech.Client {
	apiKey := ""
	if c != nil && c.Speech != nil {
		apiKey = c.Speech.ApiKey
	}
	return speech.NewClient(apiKey)
}

// toConfig 将 internal/conf.Copilot 转换为 pkg/config.Config
func toConfig(c *conf.Copilot) *config.Config {
	cfg := &config.Config{}
	if c == nil {
		return cfg
	}

	if c.Llm != nil {
		cfg.LLM.Provider = c.Llm.Provider
		if c.Llm.Gemini != nil {
			cfg.LLM.Gemini = config.GeminiConfig{
				APIKey: c.Llm.Gemini.ApiKey,
				Model:  c.Llm.Gemini.Model,
			}
		}
		if c.Llm.Openai != nil {
			cfg.LLM.OpenAI = config.OpenAIConfig{
				BaseURL: c.Llm.Openai.BaseUrl,
				APIKey:  c.Llm.Openai.ApiKey,
				Model:   c.Llm.Openai.Model,
			}
		}
	}

	if c.Search != nil {
		cfg.Search.Provider = c.Search.Provider
		if c.Search.Tavily != nil {
			cfg.Search.Tavily = config.TavilyConfig{APIKey: c.Search.Tavily.ApiKey}
		}
		if c.Search.Searxng != nil {
			cfg.Search.SearXNG = config.SearXNGConfig{
				BaseURL: c.Search.Searxng.BaseUrl,
				Timeout: int(c.Search.Searxng.Timeout),
			}
		}
	}

	if c.Speech != nil {
		cfg.Speech = config.SpeechConfig{APIKey: c.Speech.ApiKey}
	}

	if c.News != nil {
		cfg.News = config.NewsConfig{
			Query:      c.News.Query,
			TTLSeconds: int(c.News.TtlSeconds),
		}
	}

	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}

	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		}
	}

	return cfg
}
