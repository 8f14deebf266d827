// Package prompt 构造各类生成任务的提示词。
// 所有函数均为纯函数，不依赖任何传输层，便于单独测试。
package prompt

import "fmt"

// Summarize 要求模型以 5-7 个要点总结文本
func Summarize(text string) string {
	return fmt.Sprintf("Summarize the following text in 5-7 bullet points.\n\nText:\n%s", text)
}

// Answer 要求模型基于给定上下文回答问题
func Answer(question, context string) string {
	return fmt.Sprintf("Answer the following question using the provided context.\n\nContext:\n%s\n\nQuestion: %s\n\nCite sources if possible.", context, question)
}

// Translate 要求模型将文本翻译为目标语言
func Translate(text, targetLanguage string) string {
	return fmt.Sprintf("Translate the following text to %s.\n\nText:\n%s", targetLanguage, text)
}
