package conf

type Bootstrap struct {
	Server  *Server
	Copilot *Copilot
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Copilot struct {
	Llm         *LLM         `json:"llm"`
	Search      *Search      `json:"search"`
	Speech      *Speech      `json:"speech"`
	News        *News        `json:"news"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
}

type LLM struct {
	Provider string  `json:"provider"`
	Gemini   *Gemini `json:"gemini"`
	Openai   *OpenAI `json:"openai"`
}

type Gemini struct {
	ApiKey string `json:"api_key"`
	Model  string `json:"model"`
}

type OpenAI struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Search struct {
	Provider string   `json:"provider"`
	Tavily   *Tavily  `json:"tavily"`
	Searxng  *SearXNG `json:"searxng"`
}

type Tavily struct {
	ApiKey string `json:"api_key"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type Speech struct {
	ApiKey string `json:"api_key"`
}

type News struct {
	Query      string `json:"query"`
	TtlSeconds int32  `json:"ttl_seconds"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
