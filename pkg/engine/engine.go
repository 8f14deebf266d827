package engine

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/research_copilot/pkg/config"
	"github.com/iWorld-y/research_copilot/pkg/llm"
	llmfactory "github.com/iWorld-y/research_copilot/pkg/llm/factory"
	"github.com/iWorld-y/research_copilot/pkg/llm/prompt"
	"github.com/iWorld-y/research_copilot/pkg/logger"
	"github.com/iWorld-y/research_copilot/pkg/model"
	"github.com/iWorld-y/research_copilot/pkg/search"
	searchfactory "github.com/iWorld-y/research_copilot/pkg/search/factory"
)

const (
	// maxSearchResults 每轮搜索取回的结果数
	maxSearchResults = 5
	// maxBullets 研究报告要点上限，超出部分按出现顺序截断
	maxBullets = 10
	// refinedQuerySuffix 第二轮搜索的固定细化后缀
	refinedQuerySuffix = " (in more detail)"
	// answerFallback 问答失败时的固定回复
	answerFallback = "Sorry, I couldn't get an answer right now."
	// defaultNewsQuery 默认的头条搜索词
	defaultNewsQuery = "latest Indian politics news"
)

// Engine 核心处理引擎：将搜索与生成调用编排为各条流水线
type Engine struct {
	cfg       *config.Config
	searcher  search.Searcher
	generator llm.Generator
	limiter   *rate.Limiter
}

// NewEngine 创建引擎实例
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	// 初始化 LLM
	generator, err := llmfactory.NewGenerator(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	// 初始化搜索客户端
	searcher, err := searchfactory.NewSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	return &Engine{
		cfg:       cfg,
		searcher:  searcher,
		generator: generator,
		limiter:   newLimiter(cfg),
	}, nil
}

// newLimiter 按配置创建 LLM 调用限流器，未配置时不限流
func newLimiter(cfg *config.Config) *rate.Limiter {
	limit := rate.Inf
	if cfg.Concurrency.RPM > 0 {
		limit = rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	}
	burst := cfg.Concurrency.QPS
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(limit, burst)
}

// Ask 单轮问答流水线：一次搜索 + 一次生成
func (e *Engine) Ask(ctx context.Context, question string) *model.AskAnswer {
	searchAnswer, results := e.searchWeb(ctx, question)
	contextText := joinContents(results)
	llmAnswer := e.answerQuestion(ctx, question, contextText)

	return &model.AskAnswer{
		Question:     question,
		SearchAnswer: searchAnswer,
		LLMAnswer:    llmAnswer,
		Citations:    citations(results, nil),
	}
}

// Research 深度研究流水线：两轮搜索 + 两次总结 + 要点聚合。
// 两轮搜索顺序执行；第一轮的自由文本回答被丢弃，不进入报告。
func (e *Engine) Research(ctx context.Context, query string) *model.ResearchReport {
	_, results := e.searchWeb(ctx, query)
	summary := e.summarize(ctx, joinContents(results))

	refinedQuery := query + refinedQuerySuffix
	_, refinedResults := e.searchWeb(ctx, refinedQuery)
	refinedSummary := e.summarize(ctx, joinContents(refinedResults))

	return &model.ResearchReport{
		Query:          query,
		Summary:        summary,
		RefinedSummary: refinedSummary,
		Bullets:        buildBullets(results, refinedResults),
		Citations:      citations(results, refinedResults),
	}
}

// TranslateAndSummarize 文档流水线：先翻译，再对译文做总结
func (e *Engine) TranslateAndSummarize(ctx context.Context, text, targetLanguage string) (translated, summary string) {
	translated = e.translate(ctx, text, targetLanguage)
	summary = e.summarize(ctx, translated)
	return translated, summary
}

// FetchHeadlines 以固定话题搜索头条。与各流水线不同，
// 失败会以 error 形式返回，由调用方决定回退策略。
func (e *Engine) FetchHeadlines(ctx context.Context) ([]model.Headline, error) {
	query := e.cfg.News.Query
	if query == "" {
		query = defaultNewsQuery
	}

	resp, err := e.searcher.Search(ctx, &search.Request{
		Query:      query,
		Topic:      "news",
		MaxResults: maxSearchResults,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch headlines failed: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("no headlines returned")
	}

	headlines := make([]model.Headline, 0, maxSearchResults)
	for _, r := range resp.Results {
		if len(headlines) >= maxSearchResults {
			break
		}
		title := r.Title
		if title == "" {
			title = "No Title"
		}
		headlines = append(headlines, model.Headline{
			Title:     title,
			Source:    r.URL,
			Timestamp: r.PublishedDate,
		})
	}
	return headlines, nil
}

// searchWeb 执行一次搜索。任何失败都被吸收为空回答 + 空结果，
// 使上层流水线始终能给出尽力而为的响应。
func (e *Engine) searchWeb(ctx context.Context, query string) (string, []search.Result) {
	resp, err := e.searcher.Search(ctx, &search.Request{
		Query:         query,
		MaxResults:    maxSearchResults,
		IncludeAnswer: true,
	})
	if err != nil {
		logger.Log.Errorf("搜索失败 [%s]: %v", query, err)
		return "", nil
	}
	return resp.Answer, resp.Results
}

// summarize 调用 LLM 总结文本，失败时原样返回输入
func (e *Engine) summarize(ctx context.Context, text string) string {
	out, err := e.generate(ctx, prompt.Summarize(text))
	if err != nil {
		logger.Log.Errorf("总结失败: %v", err)
		return text
	}
	return out
}

// translate 调用 LLM 翻译文本，失败时原样返回输入
func (e *Engine) translate(ctx context.Context, text, targetLanguage string) string {
	out, err := e.generate(ctx, prompt.Translate(text, targetLanguage))
	if err != nil {
		logger.Log.Errorf("翻译失败: %v", err)
		return text
	}
	return out
}

// answerQuestion 调用 LLM 回答问题，失败时返回固定道歉语
func (e *Engine) answerQuestion(ctx context.Context, question, contextText string) string {
	out, err := e.generate(ctx, prompt.Answer(question, contextText))
	if err != nil {
		logger.Log.Errorf("问答失败 [%s]: %v", question, err)
		return answerFallback
	}
	return out
}

// generate 限流后执行一次生成调用
func (e *Engine) generate(ctx context.Context, p string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return e.generator.Generate(ctx, p)
}

// joinContents 按结果顺序以换行拼接正文；空正文保留为空行，不跳过
func joinContents(results []search.Result) string {
	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Content
	}
	return strings.Join(contents, "\n")
}

// buildBullets 按两轮结果的出现顺序聚合要点，只保留前 maxBullets 条
func buildBullets(results, refinedResults []search.Result) []string {
	bullets := make([]string, 0, maxBullets)
	for _, r := range append(append([]search.Result{}, results...), refinedResults...) {
		if len(bullets) >= maxBullets {
			break
		}
		if r.Content == "" {
			continue
		}
		bullets = append(bullets, fmt.Sprintf("- %s ([%s](%s))", r.Content, r.Title, r.URL))
	}
	return bullets
}

// citations 投影两轮结果为引用列表，保序、不去重、不截断
func citations(results, refinedResults []search.Result) []model.Citation {
	out := make([]model.Citation, 0, len(results)+len(refinedResults))
	for _, r := range results {
		out = append(out, model.Citation{Title: r.Title, URL: r.URL})
	}
	for _, r := range refinedResults {
		out = append(out, model.Citation{Title: r.Title, URL: r.URL})
	}
	return out
}
