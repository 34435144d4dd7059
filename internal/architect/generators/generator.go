// Package generators 生成提案包中的各类产物
//
// 每个生成器对其输入（项目草稿 + 对话语料）是纯函数，产物之间没有
// 共享可变状态，可以并行执行。部分逻辑产物有远程微服务变体，远程
// 失败或返回哨兵响应时回落到本地确定性模板，产物的 source 字段记录
// 实际生效的路径。
package generators

import (
	"context"
	"errors"

	"arquitecto/internal/shared/model"
)

// ErrGeneration 生成器失败的哨兵错误
var ErrGeneration = errors.New("generators: generation failed")

// Input 生成器的统一输入
type Input struct {
	Draft  model.ProjectDraft
	Corpus string
}

// Generator 单个逻辑产物的生成器
type Generator interface {
	// LogicalName 逻辑产物名称（diagram、cloudformation 等）
	LogicalName() string

	// Generate 生成产物。远程变体内部处理回落，返回错误代表彻底失败。
	Generate(ctx context.Context, in Input) (model.Artifact, error)
}

// Result 一个生成器的执行结果
type Result struct {
	LogicalName string
	Artifact    model.Artifact
	Err         error
}

// localFunc 本地确定性生成函数
type localFunc func(in Input) (model.Artifact, error)

// localGenerator 纯本地模板生成器
type localGenerator struct {
	name string
	fn   localFunc
}

func (g *localGenerator) LogicalName() string { return g.name }

func (g *localGenerator) Generate(_ context.Context, in Input) (model.Artifact, error) {
	return g.fn(in)
}
