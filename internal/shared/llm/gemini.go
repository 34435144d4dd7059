// Package llm gemini 家族调用器
package llm

import (
	"context"
	"fmt"
	"sync"

	genai "google.golang.org/genai"

	"arquitecto/internal/shared/model"
)

// geminiCaller 通过官方 genai 客户端调用 gemini 系列模型
//
// genai 客户端构建需要 context，这里在首次调用时惰性创建并复用。
type geminiCaller struct {
	apiKey string

	mu  sync.Mutex
	cli *genai.Client
}

func newGeminiCaller(apiKey string) *geminiCaller {
	return &geminiCaller{apiKey: apiKey}
}

func (c *geminiCaller) clientFor(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cli != nil {
		return c.cli, nil
	}
	cfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if c.apiKey != "" {
		cfg.APIKey = c.apiKey
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini client: %v", ErrUpstream, err)
	}
	c.cli = cli
	return cli, nil
}

func (c *geminiCaller) call(ctx context.Context, modelID, system string, turns []model.Message) (*Completion, error) {
	cli, err := c.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := genai.RoleUser
		if t.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Content}},
		})
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(defaultMaxTokens),
		Temperature:     genai.Ptr[float32](defaultTemperature),
		TopP:            genai.Ptr[float32](defaultTopP),
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := cli.Models.GenerateContent(ctx, modelID, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %v", ErrUpstream, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: gemini", ErrEmptyCompletion)
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}

	out := &Completion{Text: text}
	if resp.UsageMetadata != nil {
		out.Usage = &model.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}
