// Package llm 统一封装外部聊天补全服务
//
// 调用方只依赖 Client 接口，模型家族分发是内部实现：根据 model_id
// 查表选择家族调用器，各家族自行构造请求体（anthropic 使用 system
// 字段加类型化文本块，openai 使用 chat messages，gemini 使用
// SystemInstruction，generic 把全部轮次拼接为转录文本发给配置的
// HTTP 端点）。适配器拒绝空补全。
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"arquitecto/internal/shared/model"
)

// 领域错误
var (
	// ErrEmptyCompletion 模型返回了空文本
	ErrEmptyCompletion = errors.New("llm: empty completion")

	// ErrUpstream 传输失败或上游 5xx
	ErrUpstream = errors.New("llm: upstream failure")

	// ErrUnknownModel model_id 无家族可匹配
	ErrUnknownModel = errors.New("llm: unknown model id")
)

// 固定推理参数
const (
	defaultMaxTokens   = 4000
	defaultTemperature = 0.7
	defaultTopP        = 0.9
)

// Completion 一次补全的结果
type Completion struct {
	Text  string
	Usage *model.Usage
}

// Client 聊天补全客户端接口
type Client interface {
	// Complete 单次补全。turns 中首条 system 角色消息作为系统提示词，
	// 其余按序作为对话轮次。
	Complete(ctx context.Context, modelID string, turns []model.Message) (*Completion, error)
}

// ============================================================================
// Family - 模型家族
// ============================================================================

// Family 模型家族标识
type Family string

const (
	FamilyAnthropic Family = "anthropic"
	FamilyOpenAI    Family = "openai"
	FamilyGemini    Family = "gemini"
	FamilyGeneric   Family = "generic"
)

// familyPrefixes 家族匹配表，按序查找
var familyPrefixes = []struct {
	prefix string
	family Family
}{
	{"claude", FamilyAnthropic},
	{"anthropic.", FamilyAnthropic},
	{"gpt", FamilyOpenAI},
	{"chatgpt", FamilyOpenAI},
	{"o1", FamilyOpenAI},
	{"o3", FamilyOpenAI},
	{"o4", FamilyOpenAI},
	{"gemini", FamilyGemini},
}

// FamilyFor 根据 model_id 查找家族
//
// 无前缀匹配且配置了通用端点时回落到 generic，否则返回 ErrUnknownModel。
func FamilyFor(modelID string, hasGenericEndpoint bool) (Family, error) {
	id := strings.ToLower(strings.TrimSpace(modelID))
	if id == "" {
		return "", fmt.Errorf("%w: empty model id", ErrUnknownModel)
	}
	for _, e := range familyPrefixes {
		if strings.HasPrefix(id, e.prefix) {
			return e.family, nil
		}
	}
	if hasGenericEndpoint {
		return FamilyGeneric, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
}

// ============================================================================
// Adapter - 家族分发适配器
// ============================================================================

// Config 适配器配置
type Config struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiAPIKey    string
	GenericEndpoint string
}

// familyCaller 单个家族的调用器
type familyCaller interface {
	call(ctx context.Context, modelID, system string, turns []model.Message) (*Completion, error)
}

// Adapter 按 model_id 分发到家族调用器的 Client 实现
type Adapter struct {
	cfg     Config
	callers map[Family]familyCaller
}

// NewAdapter 创建家族分发适配器
func NewAdapter(cfg Config) *Adapter {
	return &Adapter{
		cfg: cfg,
		callers: map[Family]familyCaller{
			FamilyAnthropic: newAnthropicCaller(cfg.AnthropicAPIKey),
			FamilyOpenAI:    newOpenAICaller(cfg.OpenAIAPIKey),
			FamilyGemini:    newGeminiCaller(cfg.GeminiAPIKey),
			FamilyGeneric:   newGenericCaller(cfg.GenericEndpoint),
		},
	}
}

// Complete 实现 Client
func (a *Adapter) Complete(ctx context.Context, modelID string, turns []model.Message) (*Completion, error) {
	family, err := FamilyFor(modelID, a.cfg.GenericEndpoint != "")
	if err != nil {
		return nil, err
	}

	system, rest := splitSystem(turns)
	out, err := a.callers[family].call(ctx, modelID, system, rest)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Text) == "" {
		return nil, fmt.Errorf("%w: model %s", ErrEmptyCompletion, modelID)
	}
	return out, nil
}

// splitSystem 取出首条 system 消息作为系统提示词，其余轮次原序返回
func splitSystem(turns []model.Message) (string, []model.Message) {
	var system string
	rest := make([]model.Message, 0, len(turns))
	for _, t := range turns {
		if t.Role == model.RoleSystem && system == "" {
			system = t.Content
			continue
		}
		rest = append(rest, t)
	}
	return system, rest
}
