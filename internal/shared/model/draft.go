// Package model 定义核心数据模型
//
// draft.go 包含参数提取结果相关的数据模型定义：
//   - ProjectDraft：从对话中推断出的项目参数
//   - ProjectType：项目类型枚举
//   - ArchitectureStyle：架构风格枚举
package model

import (
	"fmt"
	"strings"
)

// ============================================================================
// ProjectType - 项目类型
// ============================================================================

// ProjectType 项目类型
type ProjectType string

const (
	// TypeIntegral 端到端整体方案（迁移、新应用、分析平台等）
	TypeIntegral ProjectType = "integral"

	// TypeQuickService 单一 AWS 能力的快速服务（一台实例、一个桶、一条 VPN 等）
	TypeQuickService ProjectType = "quick_service"

	// TypeUnknown 尚未确定
	TypeUnknown ProjectType = "unknown"
)

// ============================================================================
// ArchitectureStyle - 架构风格
// ============================================================================

// ArchitectureStyle 架构风格
type ArchitectureStyle string

const (
	StyleServerless    ArchitectureStyle = "serverless"
	StyleMicroservices ArchitectureStyle = "microservices"
	StyleCDN           ArchitectureStyle = "cdn"
	StyleData          ArchitectureStyle = "data"
	StyleStandard      ArchitectureStyle = "standard"
)

// ============================================================================
// ProjectDraft - 项目参数草稿
// ============================================================================

// DefaultProjectName 未能从对话中识别项目名称时的占位名
const DefaultProjectName = "proyecto-aws"

// ProjectDraft 表示参数提取器从消息历史推断出的结构化项目参数
//
// 每轮对话重新计算，从不直接持久化。序列化副本会被写入
// 对话缓存并注入 LLM 上下文轮。
type ProjectDraft struct {
	Name              string            `json:"name"`
	Type              ProjectType       `json:"type"`
	Services          []string          `json:"services"`
	Region            string            `json:"region"`
	ArchitectureStyle ArchitectureStyle `json:"architecture_style"`
	Requirements      []string          `json:"requirements"`
	ScaleHint         string            `json:"scale_hint,omitempty"`
	BudgetHint        string            `json:"budget_hint,omitempty"`
	TimelineHint      string            `json:"timeline_hint,omitempty"`
	Description       string            `json:"description"`

	// 检出的资源细节（图表与模板生成时使用）
	InstanceType string `json:"instance_type,omitempty"`
	OS           string `json:"os,omitempty"`
	StorageGB    int    `json:"storage_gb,omitempty"`
}

// HasName 名称是否有效（非占位名且至少 4 个字符）
func (d ProjectDraft) HasName() bool {
	return d.Name != "" && d.Name != DefaultProjectName && len(d.Name) >= 4
}

// HasService 服务集合是否包含指定服务
func (d ProjectDraft) HasService(svc string) bool {
	for _, s := range d.Services {
		if strings.EqualFold(s, svc) {
			return true
		}
	}
	return false
}

// TopServices 返回前 n 个服务（提取顺序即插入顺序，保证确定性）
func (d ProjectDraft) TopServices(n int) []string {
	if len(d.Services) <= n {
		return d.Services
	}
	return d.Services[:n]
}

// Summary 返回注入 LLM 上下文轮的摘要串
func (d ProjectDraft) Summary() string {
	return fmt.Sprintf("CONTEXTO DEL PROYECTO: nombre=%s tipo=%s estilo=%s region=%s servicios=%s requisitos=%s",
		d.Name, d.Type, d.ArchitectureStyle, d.Region,
		strings.Join(d.Services, ","), strings.Join(d.Requirements, "; "))
}
