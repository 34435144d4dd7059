// Package model 定义核心数据模型
//
// project.go 包含项目记录相关的数据模型定义：
//   - Project：持久化的项目记录
//   - ProjectStatus：项目状态枚举
//   - BuildFolder：对象存储前缀派生
package model

import (
	"regexp"
	"strings"
	"time"
)

// ============================================================================
// ProjectStatus - 项目状态
// ============================================================================

// ProjectStatus 项目状态
type ProjectStatus string

const (
	// StatusInProgress 访谈进行中
	StatusInProgress ProjectStatus = "in_progress"

	// StatusCompleted 产物包生成并上传成功（清单非空）
	StatusCompleted ProjectStatus = "completed"

	// StatusFailed 产物包生成或上传全部失败
	StatusFailed ProjectStatus = "failed"
)

// ============================================================================
// Project - 项目记录
// ============================================================================

// Project 表示注册表中的一条项目记录
//
// 记录仅由注册表写入器修改，其余组件只读。清单只含产物元数据，
// 从不包含产物字节。EstimatedCost 在写入时转换为注册表的原生
// 十进制类型（mongo Decimal128），转换只发生在写入器边界。
type Project struct {
	ID            string         `json:"id" bson:"_id"`
	Name          string         `json:"name" bson:"name"`
	Type          ProjectType    `json:"type" bson:"type"`
	Status        ProjectStatus  `json:"status" bson:"status"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" bson:"updated_at"`
	S3Folder      string         `json:"s3_folder" bson:"s3_folder"`
	Bucket        string         `json:"bucket" bson:"bucket"`
	Description   string         `json:"description" bson:"description"`
	Manifest      []ArtifactMeta `json:"artifact_manifest" bson:"artifact_manifest"`
	EstimatedCost float64        `json:"estimated_cost,omitempty" bson:"-"`
	QualityScore  float64        `json:"quality_score,omitempty" bson:"-"`
}

// ============================================================================
// 对象存储前缀派生
// ============================================================================

// folderIDLen s3 前缀中携带的项目 ID 字符数
const folderIDLen = 8

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeName 归一化项目名称：小写、非字母数字折叠为连字符、修剪两端
func SanitizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "proyecto"
	}
	return s
}

// BuildFolder 派生项目的对象存储前缀
//
// 前缀 = 归一化名称 + "-" + 项目 ID 前缀，项目生命周期内保持稳定。
// ID 前缀保证同名项目的键不冲突。
func BuildFolder(name, projectID string) string {
	id := projectID
	if len(id) > folderIDLen {
		id = id[:folderIDLen]
	}
	return SanitizeName(name) + "-" + id
}
