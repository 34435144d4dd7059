// Package model 定义核心数据模型
//
// readiness.go 包含就绪度评估相关的数据模型定义：
//   - Readiness：就绪度评估结果
//   - Criterion：评估准则标识
package model

// ============================================================================
// Criterion - 评估准则
// ============================================================================

// Criterion 就绪度评估准则标识
type Criterion string

const (
	// CriterionNamePresent 项目名称已识别
	CriterionNamePresent Criterion = "name_present"

	// CriterionTypeDetermined 项目类型已确定
	CriterionTypeDetermined Criterion = "type_determined"

	// CriterionServicesIdentified 至少识别出一个 AWS 服务
	CriterionServicesIdentified Criterion = "services_identified"

	// CriterionRequirementsGathered 至少收集到一条非功能需求
	CriterionRequirementsGathered Criterion = "requirements_gathered"

	// CriterionConversationDepth 用户消息数达到阈值
	CriterionConversationDepth Criterion = "conversation_depth"
)

// ReadyThreshold 就绪门槛：score >= 0.80 即就绪
const ReadyThreshold = 0.80

// ============================================================================
// Readiness - 就绪度评估结果
// ============================================================================

// Readiness 表示一轮对话的就绪度评估
//
// 每轮重新计算，不持久化。ready 当且仅当 score >= ReadyThreshold。
type Readiness struct {
	Score        float64            `json:"score"`
	Criteria     map[Criterion]bool `json:"criteria"`
	NextQuestion string             `json:"next_question,omitempty"`
	Status       string             `json:"status"`
	Ready        bool               `json:"ready"`
}
