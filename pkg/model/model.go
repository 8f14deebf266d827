package model

// Citation 引用条目，仅保留用于展示的字段
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ResearchReport 深度研究报告，随请求构建、随响应丢弃
type ResearchReport struct {
	Query          string     `json:"query"`
	Summary        string     `json:"summary"`
	RefinedSummary string     `json:"refined_summary"`
	Bullets        []string   `json:"bullets"`
	Citations      []Citation `json:"citations"`
}

// AskAnswer 单轮问答结果
type AskAnswer struct {
	Question     string     `json:"question"`
	SearchAnswer string     `json:"search_answer"`
	LLMAnswer    string     `json:"llm_answer"`
	Citations    []Citation `json:"citations"`
}

// Headline 新闻头条
type Headline struct {
	Title     string `json:"title"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}
