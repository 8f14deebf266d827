package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/research_copilot/pkg/config"
	"github.com/iWorld-y/research_copilot/pkg/search"
)

// mockSearcher 按查询词返回预置结果
type mockSearcher struct {
	responses map[string]*search.Response
	err       error
	queries   []string
}

func (m *mockSearcher) Search(_ context.Context, req *search.Request) (*search.Response, error) {
	m.queries = append(m.queries, req.Query)
	if m.err != nil {
		return nil, m.err
	}
	if resp, ok := m.responses[req.Query]; ok {
		return resp, nil
	}
	return &search.Response{}, nil
}

// scriptedGenerator 按顺序返回预置回复
type scriptedGenerator struct {
	replies []string
	err     error
	idx     int
	prompts []string
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if g.idx >= len(g.replies) {
		return "", errors.New("no scripted reply available")
	}
	reply := g.replies[g.idx]
	g.idx++
	return reply, nil
}

func newTestEngine(s search.Searcher, g *scriptedGenerator) *Engine {
	return &Engine{
		cfg:       &config.Config{},
		searcher:  s,
		generator: g,
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}
}

func TestResearch(t *testing.T) {
	searcher := &mockSearcher{responses: map[string]*search.Response{
		"electoral reform": {Results: []search.Result{
			{Title: "A", URL: "u1", Content: "c1"},
		}},
		"electoral reform (in more detail)": {Results: []search.Result{
			{Title: "B", URL: "u2", Content: "c2"},
		}},
	}}
	generator := &scriptedGenerator{replies: []string{"first summary", "second summary"}}
	eng := newTestEngine(searcher, generator)

	report := eng.Research(context.Background(), "electoral reform")

	if report.Query != "electoral reform" {
		t.Errorf("Query = %q", report.Query)
	}
	if report.Summary != "first summary" || report.RefinedSummary != "second summary" {
		t.Errorf("summaries = %q / %q", report.Summary, report.RefinedSummary)
	}

	wantBullets := []string{"- c1 ([A](u1))", "- c2 ([B](u2))"}
	if len(report.Bullets) != len(wantBullets) {
		t.Fatalf("Bullets = %v", report.Bullets)
	}
	for i, b := range wantBullets {
		if report.Bullets[i] != b {
			t.Errorf("Bullets[%d] = %q, want %q", i, report.Bullets[i], b)
		}
	}

	if len(report.Citations) != 2 ||
		report.Citations[0].Title != "A" || report.Citations[0].URL != "u1" ||
		report.Citations[1].Title != "B" || report.Citations[1].URL != "u2" {
		t.Errorf("Citations = %v", report.Citations)
	}

	// 第二轮查询必须带固定细化后缀
	if len(searcher.queries) != 2 || searcher.queries[1] != "electoral reform (in more detail)" {
		t.Errorf("queries = %v", searcher.queries)
	}
}

func TestResearchBulletCap(t *testing.T) {
	round1 := make([]search.Result, 0, 8)
	for i := 0; i < 8; i++ {
		round1 = append(round1, search.Result{
			Title:   fmt.Sprintf("t%d", i),
			URL:     fmt.Sprintf("u%d", i),
			Content: fmt.Sprintf("c%d", i),
		})
	}
	// 其中一条空正文：不进入要点，但仍进入引用
	round1[3].Content = ""

	round2 := make([]search.Result, 0, 6)
	for i := 8; i < 14; i++ {
		round2 = append(round2, search.Result{
			Title:   fmt.Sprintf("t%d", i),
			URL:     fmt.Sprintf("u%d", i),
			Content: fmt.Sprintf("c%d", i),
		})
	}

	searcher := &mockSearcher{responses: map[string]*search.Response{
		"q":                  {Results: round1},
		"q (in more detail)": {Results: round2},
	}}
	eng := newTestEngine(searcher, &scriptedGenerator{replies: []string{"s1", "s2"}})

	report := eng.Research(context.Background(), "q")

	if len(report.Bullets) != 10 {
		t.Fatalf("len(Bullets) = %d, want 10", len(report.Bullets))
	}
	// 保序：第一轮的非空正文在前
	if report.Bullets[0] != "- c0 ([t0](u0))" {
		t.Errorf("Bullets[0] = %q", report.Bullets[0])
	}
	if report.Bullets[3] != "- c4 ([t4](u4))" {
		t.Errorf("Bullets[3] = %q, 空正文应被跳过", report.Bullets[3])
	}
	for _, b := range report.Bullets {
		if !strings.HasPrefix(b, "- c") || !strings.Contains(b, " ([t") || !strings.HasSuffix(b, "))") {
			t.Errorf("bullet format = %q", b)
		}
	}

	// 引用不过滤、不截断、不去重
	if len(report.Citations) != 14 {
		t.Errorf("len(Citations) = %d, want 14", len(report.Citations))
	}
	if report.Citations[3].Title != "t3" {
		t.Errorf("空正文结果应保留在引用中, Citations[3] = %v", report.Citations[3])
	}
}

func TestResearchCitationsKeepDuplicates(t *testing.T) {
	dup := search.Result{Title: "Same", URL: "same-url", Content: "same"}
	searcher := &mockSearcher{responses: map[string]*search.Response{
		"q":                  {Results: []search.Result{dup}},
		"q (in more detail)": {Results: []search.Result{dup}},
	}}
	eng := newTestEngine(searcher, &scriptedGenerator{replies: []string{"s1", "s2"}})

	report := eng.Research(context.Background(), "q")
	if len(report.Citations) != 2 {
		t.Errorf("len(Citations) = %d, 重复引用不应被去重", len(report.Citations))
	}
}

func TestResearchBothSearchesFail(t *testing.T) {
	searcher := &mockSearcher{err: errors.New("provider down")}
	generator := &scriptedGenerator{err: errors.New("llm down")}
	eng := newTestEngine(searcher, generator)

	report := eng.Research(context.Background(), "anything")

	// 总结退化为对空上下文的原样透传
	if report.Summary != "" || report.RefinedSummary != "" {
		t.Errorf("summaries = %q / %q, want empty", report.Summary, report.RefinedSummary)
	}
	if len(report.Bullets) != 0 {
		t.Errorf("Bullets = %v, want empty", report.Bullets)
	}
	if len(report.Citations) != 0 {
		t.Errorf("Citations = %v, want empty", report.Citations)
	}
}

func TestAsk(t *testing.T) {
	searcher := &mockSearcher{responses: map[string]*search.Response{
		"who won": {
			Answer: "the incumbent",
			Results: []search.Result{
				{Title: "r1", URL: "u1", Content: "c1"},
				{Title: "r2", URL: "u2", Content: ""},
				{Title: "r3", URL: "u3", Content: "c3"},
			},
		},
	}}
	generator := &scriptedGenerator{replies: []string{"llm says so"}}
	eng := newTestEngine(searcher, generator)

	answer := eng.Ask(context.Background(), "who won")

	if answer.Question != "who won" {
		t.Errorf("Question = %q", answer.Question)
	}
	if answer.SearchAnswer != "the incumbent" {
		t.Errorf("SearchAnswer = %q", answer.SearchAnswer)
	}
	if answer.LLMAnswer != "llm says so" {
		t.Errorf("LLMAnswer = %q", answer.LLMAnswer)
	}
	if len(answer.Citations) != 3 || answer.Citations[1].Title != "r2" {
		t.Errorf("Citations = %v", answer.Citations)
	}

	// 空正文保留为空行，不跳过
	if len(generator.prompts) != 1 || !strings.Contains(generator.prompts[0], "c1\n\nc3") {
		t.Errorf("prompt = %q", generator.prompts)
	}
}

func TestAskLLMFailure(t *testing.T) {
	searcher := &mockSearcher{responses: map[string]*search.Response{}}
	generator := &scriptedGenerator{err: errors.New("llm down")}
	eng := newTestEngine(searcher, generator)

	answer := eng.Ask(context.Background(), "q")
	if answer.LLMAnswer != answerFallback {
		t.Errorf("LLMAnswer = %q, want fallback", answer.LLMAnswer)
	}
}

func TestSummarizeAndTranslatePassthroughOnFailure(t *testing.T) {
	generator := &scriptedGenerator{err: errors.New("llm down")}
	eng := newTestEngine(&mockSearcher{}, generator)

	if got := eng.summarize(context.Background(), "original text"); got != "original text" {
		t.Errorf("summarize = %q, want passthrough", got)
	}
	if got := eng.translate(context.Background(), "原文", "en"); got != "原文" {
		t.Errorf("translate = %q, want passthrough", got)
	}

	translated, summary := eng.TranslateAndSummarize(context.Background(), "doc body", "hi")
	if translated != "doc body" || summary != "doc body" {
		t.Errorf("TranslateAndSummarize = %q / %q", translated, summary)
	}
}

func TestTranslateAndSummarizeOrder(t *testing.T) {
	generator := &scriptedGenerator{replies: []string{"translated body", "summary of translation"}}
	eng := newTestEngine(&mockSearcher{}, generator)

	translated, summary := eng.TranslateAndSummarize(context.Background(), "doc body", "hi")
	if translated != "translated body" || summary != "summary of translation" {
		t.Errorf("TranslateAndSummarize = %q / %q", translated, summary)
	}
	// 总结的对象是译文而不是原文
	if !strings.Contains(generator.prompts[1], "translated body") {
		t.Errorf("summary prompt = %q", generator.prompts[1])
	}
}

func TestFetchHeadlines(t *testing.T) {
	searcher := &mockSearcher{responses: map[string]*search.Response{
		defaultNewsQuery: {Results: []search.Result{
			{Title: "h1", URL: "s1", PublishedDate: "2025-08-01"},
			{Title: "", URL: "s2", PublishedDate: "2025-08-02"},
		}},
	}}
	eng := newTestEngine(searcher, &scriptedGenerator{})

	headlines, err := eng.FetchHeadlines(context.Background())
	if err != nil {
		t.Fatalf("FetchHeadlines() error = %v", err)
	}
	if len(headlines) != 2 {
		t.Fatalf("len = %d", len(headlines))
	}
	if headlines[0].Title != "h1" || headlines[0].Source != "s1" || headlines[0].Timestamp != "2025-08-01" {
		t.Errorf("headlines[0] = %v", headlines[0])
	}
	if headlines[1].Title != "No Title" {
		t.Errorf("空标题应回退为 No Title, got %q", headlines[1].Title)
	}
}

func TestFetchHeadlinesFailure(t *testing.T) {
	eng := newTestEngine(&mockSearcher{err: errors.New("provider down")}, &scriptedGenerator{})
	if _, err := eng.FetchHeadlines(context.Background()); err == nil {
		t.Error("expected error on provider failure")
	}

	// 空结果同样视为失败，由调用方决定兜底
	eng = newTestEngine(&mockSearcher{responses: map[string]*search.Response{}}, &scriptedGenerator{})
	if _, err := eng.FetchHeadlines(context.Background()); err == nil {
		t.Error("expected error on empty results")
	}
}
