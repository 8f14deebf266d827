// Package speech 封装语音识别与语音合成的 REST 调用。
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultRecognizeURL  = "https://speech.googleapis.com/v1/speech:recognize"
	defaultSynthesizeURL = "https://texttospeech.googleapis.com/v1/text:synthesize"
)

// Client 语音服务客户端
type Client struct {
	apiKey        string
	recognizeURL  string
	synthesizeURL string
	client        *http.Client
}

// NewClient 创建一个新的语音服务客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:        apiKey,
		recognizeURL:  defaultRecognizeURL,
		synthesizeURL: defaultSynthesizeURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// recognizeRequest speech:recognize 请求体
type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding     string `json:"encoding"`
	LanguageCode string `json:"languageCode"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

// recognizeResponse speech:recognize 响应体
type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Recognize 识别音频内容，返回转写文本
func (c *Client) Recognize(ctx context.Context, audio []byte) (string, error) {
	reqBody := recognizeRequest{
		Config: recognizeConfig{
			Encoding:     "LINEAR16",
			LanguageCode: "en-US",
		},
		Audio: recognizeAudio{
			Content: base64.StdEncoding.EncodeToString(audio),
		},
	}

	var resp recognizeResponse
	if err := c.post(ctx, c.recognizeURL, reqBody, &resp); err != nil {
		return "", err
	}

	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return "", fmt.Errorf("empty recognize response")
	}
	return resp.Results[0].Alternatives[0].Transcript, nil
}

// synthesizeRequest text:synthesize 请求体
type synthesizeRequest struct {
	Input       synthesizeInput `json:"input"`
	Voice       synthesizeVoice `json:"voice"`
	AudioConfig audioConfig     `json:"audioConfig"`
}

type synthesizeInput struct {
	Text string `json:"text"`
}

type synthesizeVoice struct {
	LanguageCode string `json:"languageCode"`
	SSMLGender   string `json:"ssmlGender"`
}

type audioConfig struct {
	AudioEncoding string `json:"audioEncoding"`
}

// synthesizeResponse text:synthesize 响应体
type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize 合成文本为 MP3 音频
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	reqBody := synthesizeRequest{
		Input: synthesizeInput{Text: text},
		Voice: synthesizeVoice{
			LanguageCode: "en-US",
			SSMLGender:   "FEMALE",
		},
		AudioConfig: audioConfig{AudioEncoding: "MP3"},
	}

	var resp synthesizeResponse
	if err := c.post(ctx, c.synthesizeURL, reqBody, &resp); err != nil {
		return nil, err
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio failed: %w", err)
	}
	return audio, nil
}

// post 发送一次带 key 的 JSON 请求并解析响应
func (c *Client) post(ctx context.Context, url string, reqBody, respBody any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url+"?key="+c.apiKey, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("speech api error (status %d): %s", res.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("unmarshal response failed: %w", err)
	}
	return nil
}
