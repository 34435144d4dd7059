// Package llm openai 家族调用器
package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"arquitecto/internal/shared/model"
)

// openaiCaller 通过官方 SDK 调用 gpt 系列模型
type openaiCaller struct {
	client openai.Client
}

func newOpenAICaller(apiKey string) *openaiCaller {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &openaiCaller{client: openai.NewClient(opts...)}
}

func (c *openaiCaller) call(ctx context.Context, modelID, system string, turns []model.Message) (*Completion, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	for _, t := range turns {
		switch t.Role {
		case model.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(t.Content))
		default:
			messages = append(messages, openai.UserMessage(t.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(modelID),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(defaultMaxTokens),
		Temperature:         openai.Float(defaultTemperature),
		TopP:                openai.Float(defaultTopP),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai: no choices", ErrEmptyCompletion)
	}

	return &Completion{
		Text: resp.Choices[0].Message.Content,
		Usage: &model.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}
