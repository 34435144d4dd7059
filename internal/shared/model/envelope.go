// Package model 定义核心数据模型
//
// envelope.go 包含请求/响应信封相关的数据模型定义：
//   - ConversationRequest：一轮对话请求
//   - ConversationResult：编排器的处理结果
//   - ProjectState：客户端回显的项目状态
//   - S3Info：上传结果摘要
package model

// ============================================================================
// ProjectState - 回显状态
// ============================================================================

// 项目状态 phase 取值
const (
	PhaseGathering = "gathering"
	PhaseCompleted = "completed"
	PhaseFailed    = "failed"
)

// ProjectState 客户端在请求间回显的项目状态
type ProjectState struct {
	Phase string         `json:"phase"`
	Data  map[string]any `json:"data,omitempty"`
}

// ============================================================================
// ConversationRequest - 对话请求
// ============================================================================

// ConversationRequest 一轮对话的请求信封
type ConversationRequest struct {
	Messages     []Message     `json:"messages"`
	ModelID      string        `json:"modelId,omitempty"`
	ProjectState *ProjectState `json:"projectState,omitempty"`
}

// ProjectID 从回显状态中取出项目 ID（不存在时为空串）
func (r ConversationRequest) ProjectID() string {
	if r.ProjectState == nil || r.ProjectState.Data == nil {
		return ""
	}
	id, _ := r.ProjectState.Data["project_id"].(string)
	return id
}

// ============================================================================
// Usage - token 用量
// ============================================================================

// Usage LLM token 用量
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// ============================================================================
// S3Info - 上传结果摘要
// ============================================================================

// S3Info 上传结果摘要（响应体使用）
type S3Info struct {
	Bucket         string `json:"bucket"`
	Folder         string `json:"folder"`
	DocumentsSaved int    `json:"documents_saved"`
	ContentSource  string `json:"content_source"`
}

// ============================================================================
// ConversationResult - 处理结果
// ============================================================================

// ConversationResult 编排器处理一轮对话的结果
type ConversationResult struct {
	Content        string         `json:"content"`
	ProjectState   ProjectState   `json:"projectState"`
	MCPActivated   bool           `json:"mcpActivated"`
	MCPStatus      string         `json:"mcpStatus"`
	MCPUsed        []string       `json:"mcpUsed"`
	ReadinessScore float64        `json:"readinessScore"`
	ModelUsed      string         `json:"modelUsed"`
	Usage          *Usage         `json:"usage,omitempty"`
	Timestamp      string         `json:"timestamp"`
	S3Info         *S3Info        `json:"s3Info,omitempty"`
	Manifest       []ArtifactMeta `json:"artifactManifest,omitempty"`
}
