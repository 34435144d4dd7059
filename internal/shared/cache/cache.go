// Package cache 会话快照缓存
//
// 就绪评估是对全量消息历史的纯函数，不依赖缓存。快照在每轮结束时
// 写入（已知项目 ID 时），下一轮读取用于补充 LLM 的上下文轮。缓存
// 不可用时系统照常工作。
package cache

import (
	"context"
	"time"

	"arquitecto/internal/shared/model"
)

// SnapshotTTL 会话快照的过期时间
const SnapshotTTL = 24 * time.Hour

// Snapshot 一次请求后的会话快照
type Snapshot struct {
	ProjectID      string             `json:"project_id"`
	Draft          model.ProjectDraft `json:"draft"`
	ReadinessScore float64            `json:"readiness_score"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// ConversationCache 会话快照缓存接口
type ConversationCache interface {
	// PutSnapshot 写入快照，带 TTL
	PutSnapshot(ctx context.Context, snap Snapshot) error

	// GetSnapshot 读取快照，未命中时返回 (nil, nil)
	GetSnapshot(ctx context.Context, projectID string) (*Snapshot, error)

	// Close 释放底层连接
	Close() error
}

// Noop 空实现，未配置 Redis 时使用
type Noop struct{}

var _ ConversationCache = Noop{}

func (Noop) PutSnapshot(context.Context, Snapshot) error          { return nil }
func (Noop) GetSnapshot(context.Context, string) (*Snapshot, error) { return nil, nil }
func (Noop) Close() error                                           { return nil }
