// Package model 定义核心数据模型
//
// artifact.go 包含提案产物相关的数据模型定义：
//   - Artifact：一份打包后的产物（含字节）
//   - ArtifactMeta：产物元数据（清单用，不含字节）
//   - ArtifactSource：产物来源枚举
package model

// ============================================================================
// ArtifactSource - 产物来源
// ============================================================================

// ArtifactSource 产物生成路径
type ArtifactSource string

const (
	// SourceLocal 本地确定性模板生成
	SourceLocal ArtifactSource = "local"

	// SourceRemote 远程生成微服务返回
	SourceRemote ArtifactSource = "remote"
)

// ============================================================================
// 逻辑产物名称
// ============================================================================

const (
	ArtifactDiagram         = "diagram"
	ArtifactCloudFormation  = "cloudformation"
	ArtifactDocumentation   = "documentation"
	ArtifactPricing         = "pricing"
	ArtifactActivities      = "activities"
	ArtifactCalculatorGuide = "calculator_guide"
)

// ============================================================================
// Artifact - 提案产物
// ============================================================================

// Artifact 表示提案包中的一份文件
//
// 产物在就绪时生成，打包后上传到对象存储。字节只存在于请求生命周期内，
// 清单（ArtifactMeta）才会进入项目记录。
type Artifact struct {
	LogicalName string         `json:"logical_name"`
	FileName    string         `json:"file_name"`
	MediaType   string         `json:"media_type"`
	Bytes       []byte         `json:"-"`
	Source      ArtifactSource `json:"source"`
}

// Size 产物字节数
func (a Artifact) Size() int64 {
	return int64(len(a.Bytes))
}

// Meta 返回产物元数据（不含字节）
func (a Artifact) Meta(s3Key string) ArtifactMeta {
	return ArtifactMeta{
		LogicalName: a.LogicalName,
		FileName:    a.FileName,
		MediaType:   a.MediaType,
		S3Key:       s3Key,
		Size:        a.Size(),
		Source:      a.Source,
	}
}

// ============================================================================
// ArtifactMeta - 产物元数据
// ============================================================================

// ArtifactMeta 产物清单条目，嵌入项目记录，从不包含产物字节
type ArtifactMeta struct {
	LogicalName string         `json:"logical_name" bson:"logical_name"`
	FileName    string         `json:"file_name" bson:"file_name"`
	MediaType   string         `json:"media_type" bson:"media_type"`
	S3Key       string         `json:"s3_key" bson:"s3_key"`
	Size        int64          `json:"size" bson:"size"`
	Source      ArtifactSource `json:"source" bson:"source"`
}
