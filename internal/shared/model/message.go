// Package model 定义核心数据模型
//
// message.go 包含对话消息相关的数据模型定义：
//   - Message：一条对话消息
//   - Role：消息角色枚举
package model

import "strings"

// ============================================================================
// Role - 消息角色
// ============================================================================

// Role 消息角色
type Role string

const (
	// RoleUser 用户消息
	RoleUser Role = "user"

	// RoleAssistant 助手消息
	RoleAssistant Role = "assistant"

	// RoleSystem 系统消息
	RoleSystem Role = "system"
)

// ============================================================================
// Message - 对话消息
// ============================================================================

// Message 表示一条对话消息
//
// 消息由客户端创建，服务端只读。编排器每轮消费完整的消息历史，
// 消息顺序端到端保持不变。
type Message struct {
	Role      Role   `json:"role" bson:"role"`
	Content   string `json:"content" bson:"content"`
	ID        string `json:"id,omitempty" bson:"id,omitempty"`
	Timestamp string `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// IsEmpty 内容是否为空（跳过空白消息时使用）
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

// UserTurnCount 统计用户角色的消息数
func UserTurnCount(messages []Message) int {
	n := 0
	for _, m := range messages {
		if m.Role == RoleUser && !m.IsEmpty() {
			n++
		}
	}
	return n
}

// JoinCorpus 将全部消息内容拼接为小写语料
//
// 参数提取与产物生成共用该语料，保证同一输入得到同一输出。
func JoinCorpus(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		if m.IsEmpty() {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Content)
	}
	return strings.ToLower(b.String())
}
