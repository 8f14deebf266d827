package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/research_copilot/pkg/model"
	"github.com/iWorld-y/research_copilot/pkg/pdftext"
)

// maxUploadBytes 上传文件大小上限
const maxUploadBytes = 32 << 20

// newsFallbackMessage 头条拉取失败时返回给前端的提示
const newsFallbackMessage = "Failed to fetch real news, showing cached/dummy data."

// Pipeline 服务层依赖的流水线能力
type Pipeline interface {
	Ask(ctx context.Context, question string) *model.AskAnswer
	Research(ctx context.Context, query string) *model.ResearchReport
	TranslateAndSummarize(ctx context.Context, text, targetLanguage string) (translated, summary string)
}

// NewsProvider 服务层依赖的头条数据源
type NewsProvider interface {
	Get(ctx context.Context) ([]model.Headline, error)
}

// SpeechProvider 服务层依赖的语音能力
type SpeechProvider interface {
	Recognize(ctx context.Context, audio []byte) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// CopilotService 各 HTTP 端点的处理器集合
type CopilotService struct {
	pipeline Pipeline
	news     NewsProvider
	speech   SpeechProvider
	extract  func(r io.ReaderAt, size int64) (string, error)
	log      *log.Helper
}

// NewCopilotService 创建服务实例
func NewCopilotService(pipeline Pipeline, news NewsProvider, speech SpeechProvider, logger log.Logger) *CopilotService {
	return &CopilotService{
		pipeline: pipeline,
		news:     news,
		speech:   speech,
		extract:  pdftext.Extract,
		log:      log.NewHelper(logger),
	}
}

type researchRequest struct {
	Query string `json:"query"`
}

// Research POST /research — 深度研究，设计上总是返回 200
func (s *CopilotService) Research(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report := s.pipeline.Research(r.Context(), req.Query)
	writeJSON(w, http.StatusOK, report)
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask POST /ask — 单轮问答，设计上总是返回 200
func (s *CopilotService) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer := s.pipeline.Ask(r.Context(), req.Question)
	writeJSON(w, http.StatusOK, answer)
}

type newsResponse struct {
	News  []model.Headline `json:"news"`
	Error string           `json:"error,omitempty"`
}

// News GET /news — 命中缓存或实时拉取；拉取失败时返回 503 + 兜底数据
func (s *CopilotService) News(w http.ResponseWriter, r *http.Request) {
	headlines, err := s.news.Get(r.Context())
	if err != nil {
		s.log.WithContext(r.Context()).Errorf("fetch news failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, newsResponse{
			News:  headlines,
			Error: newsFallbackMessage,
		})
		return
	}
	writeJSON(w, http.StatusOK, newsResponse{News: headlines})
}

type pdfResponse struct {
	Summary        string `json:"summary"`
	TranslatedText string `json:"translated_text"`
}

// PDF POST /pdf — 提取正文后先翻译再总结
func (s *CopilotService) PDF(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer file.Close()

	targetLanguage := r.FormValue("target_language")
	if targetLanguage == "" {
		targetLanguage = "en"
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	text, err := s.extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.log.WithContext(r.Context()).Errorf("pdf extract failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "No text found in PDF.")
		return
	}

	translated, summary := s.pipeline.TranslateAndSummarize(r.Context(), text, targetLanguage)
	writeJSON(w, http.StatusOK, pdfResponse{
		Summary:        summary,
		TranslatedText: translated,
	})
}

type transcribeResponse struct {
	Transcript string `json:"transcript"`
}

// Transcribe POST /transcribe — 语音转文字
func (s *CopilotService) Transcribe(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	transcript, err := s.speech.Recognize(r.Context(), data)
	if err != nil {
		s.log.WithContext(r.Context()).Errorf("transcribe failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, transcribeResponse{Transcript: transcript})
}

// TTS POST /tts — 文字转语音，返回 MP3 字节流
func (s *CopilotService) TTS(w http.ResponseWriter, r *http.Request) {
	text := r.FormValue("text")

	audio, err := s.speech.Synthesize(r.Context(), text)
	if err != nil {
		s.log.WithContext(r.Context()).Errorf("tts failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
