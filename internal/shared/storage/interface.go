package storage

import (
	"context"
	"time"

	"arquitecto/internal/shared/model"
)

// WriteTimeout 单次注册表写入的最长时间
const WriteTimeout = 10 * time.Second

// ProjectStore 项目注册表接口
//
// 记录按项目 ID 作为键做整文档 upsert，并发写入同一项目时
// 后写者胜出。记录只嵌入产物清单，从不嵌入产物字节。
type ProjectStore interface {
	// UpsertProject 按 ID 写入或覆盖项目记录
	UpsertProject(ctx context.Context, project *model.Project) error

	// GetProject 按 ID 查找项目，不存在时返回 (nil, nil)
	GetProject(ctx context.Context, id string) (*model.Project, error)

	// ListProjects 按更新时间倒序返回最多 limit 条项目
	ListProjects(ctx context.Context, limit int) ([]*model.Project, error)

	// Close 释放底层连接
	Close() error
}
