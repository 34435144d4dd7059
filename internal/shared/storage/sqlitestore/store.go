// Package sqlitestore 实现基于 SQLite 的 ProjectStore
//
// 适用于开发、测试和轻量级部署场景。项目记录整体序列化为 JSON
// 文档存储，少量热字段（name、status、updated_at）冗余成列用于
// 排序和查询。
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	_ "modernc.org/sqlite"

	"arquitecto/internal/shared/model"
	"arquitecto/internal/shared/storage"
)

// DefaultTable 默认项目表名，可通过 PROJECTS_TABLE 覆盖
const DefaultTable = "projects"

// tableNamePattern 表名只允许普通标识符，避免 DDL 拼接注入
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func schemaFor(table string) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	status     TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	doc        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_updated_at ON %[1]s (updated_at DESC);
`, table)
}

// Store 实现 storage.ProjectStore 接口的 SQLite 驱动
type Store struct {
	db    *sql.DB
	table string
}

var _ storage.ProjectStore = (*Store)(nil)

// Open 创建 SQLite 存储实例并自动建表
//
// dsn 示例: "file:arquitecto.db?cache=shared&mode=rwc" 或 ":memory:"
// table: 项目表名，空串时使用 DefaultTable
func Open(dsn, table string) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("sqlitestore: invalid table name %q", table)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open failed: %w", err)
	}
	// modernc.org/sqlite 的单连接写模型
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaFor(table)); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: migrate failed: %w", err)
	}
	return &Store{db: db, table: table}, nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertProject 按 ID 写入或覆盖项目记录
func (s *Store) UpsertProject(ctx context.Context, project *model.Project) error {
	doc, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("sqlitestore: marshal project: %w", err)
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, name, status, updated_at, doc)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			updated_at = excluded.updated_at,
			doc = excluded.doc`, s.table),
		project.ID,
		project.Name,
		string(project.Status),
		project.UpdatedAt.UTC().Format(time.RFC3339Nano),
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("sqlitestore: upsert project: %w", err)
	}
	return nil
}

// GetProject 按 ID 查找项目，不存在时返回 (nil, nil)
func (s *Store) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = ?`, s.table), id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlitestore: get project: %w", err)
	}
	return unmarshalProject(doc)
}

// ListProjects 按更新时间倒序返回最多 limit 条
func (s *Store) ListProjects(ctx context.Context, limit int) ([]*model.Project, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s ORDER BY updated_at DESC, id ASC`, s.table)
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list projects: %w", err)
	}
	defer rows.Close()

	results := []*model.Project{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		p, err := unmarshalProject(doc)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

func unmarshalProject(doc string) (*model.Project, error) {
	var p model.Project
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("sqlitestore: decode project: %w", err)
	}
	return &p, nil
}
