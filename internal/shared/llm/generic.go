// Package llm generic 家族调用器
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"arquitecto/internal/shared/model"
)

// genericCaller 把全部轮次拼接为转录文本，POST 到配置的 HTTP 端点
//
// 端点契约：请求 {model, prompt, max_tokens, temperature, top_p}，
// 响应 {text, usage?: {input_tokens, output_tokens}}。
type genericCaller struct {
	endpoint string
	client   *http.Client
}

func newGenericCaller(endpoint string) *genericCaller {
	return &genericCaller{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type genericRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type genericResponse struct {
	Text  string `json:"text"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *genericCaller) call(ctx context.Context, modelID, system string, turns []model.Message) (*Completion, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("%w: no generic endpoint configured", ErrUnknownModel)
	}

	body, err := json.Marshal(genericRequest{
		Model:       modelID,
		Prompt:      buildTranscript(system, turns),
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: endpoint returned %d", ErrUpstream, resp.StatusCode)
	}

	var out genericResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	result := &Completion{Text: out.Text}
	if out.Usage != nil {
		result.Usage = &model.Usage{
			InputTokens:  out.Usage.InputTokens,
			OutputTokens: out.Usage.OutputTokens,
		}
	}
	return result, nil
}

// buildTranscript 拼接转录文本：系统提示在前，各轮以角色标签前缀
func buildTranscript(system string, turns []model.Message) string {
	var b bytes.Buffer
	if system != "" {
		b.WriteString(system)
		b.WriteString("\n\n")
	}
	for _, t := range turns {
		switch t.Role {
		case model.RoleAssistant:
			b.WriteString("Assistant: ")
		default:
			b.WriteString("Human: ")
		}
		b.WriteString(t.Content)
		b.WriteByte('\n')
	}
	b.WriteString("Assistant:")
	return b.String()
}
