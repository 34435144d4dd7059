// Package llm anthropic 家族调用器
package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"arquitecto/internal/shared/model"
)

// anthropicCaller 通过官方 SDK 调用 claude 系列模型
type anthropicCaller struct {
	client anthropic.Client
}

func newAnthropicCaller(apiKey string) *anthropicCaller {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &anthropicCaller{client: anthropic.NewClient(opts...)}
}

func (c *anthropicCaller) call(ctx context.Context, modelID, system string, turns []model.Message) (*Completion, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(modelID),
		MaxTokens:   int64(defaultMaxTokens),
		Temperature: anthropic.Float(defaultTemperature),
		TopP:        anthropic.Float(defaultTopP),
		Messages:    convertAnthropicMessages(turns),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: anthropic: %v", ErrUpstream, err)
	}

	var text string
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += b.Text
		}
	}

	return &Completion{
		Text: text,
		Usage: &model.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}, nil
}

// convertAnthropicMessages 将对话轮次转换为类型化文本块消息
func convertAnthropicMessages(turns []model.Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case model.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
		}
	}
	return result
}
