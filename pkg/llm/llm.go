package llm

import "context"

// Generator 定义通用的文本生成接口
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
