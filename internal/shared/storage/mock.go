package storage

import (
	"context"
	"sort"
	"sync"

	"arquitecto/internal/shared/model"
)

// MemStore 内存实现，用于测试和本地开发
type MemStore struct {
	mu       sync.RWMutex
	projects map[string]model.Project
}

var _ ProjectStore = (*MemStore)(nil)

// NewMemStore 创建内存项目注册表
func NewMemStore() *MemStore {
	return &MemStore{projects: make(map[string]model.Project)}
}

// UpsertProject 按 ID 写入或覆盖项目记录
func (s *MemStore) UpsertProject(_ context.Context, project *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = *project
	return nil
}

// GetProject 按 ID 查找项目
func (s *MemStore) GetProject(_ context.Context, id string) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ListProjects 按更新时间倒序返回最多 limit 条
func (s *MemStore) ListProjects(_ context.Context, limit int) ([]*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close 无操作
func (s *MemStore) Close() error { return nil }
