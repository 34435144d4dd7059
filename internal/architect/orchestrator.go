// Package architect 实现对话驱动的提案编排器
//
// 每个请求独立处理：解析信封、构建 LLM 轮次、提取项目参数、计算
// 就绪度；就绪后并行生成产物、上传对象存储、更新项目注册表，最后
// 组装响应。编排器自身不持有跨请求状态。
package architect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"arquitecto/internal/architect/extract"
	"arquitecto/internal/architect/generators"
	"arquitecto/internal/architect/prompt"
	"arquitecto/internal/architect/readiness"
	"arquitecto/internal/shared/cache"
	"arquitecto/internal/shared/llm"
	"arquitecto/internal/shared/model"
	"arquitecto/internal/shared/objstore"
	"arquitecto/internal/shared/storage"
	"arquitecto/pkg/logging"
)

// ErrInvalidInput 请求信封缺少消息或全部消息为空
var ErrInvalidInput = errors.New("architect: invalid input")

// llmTimeout 单次 LLM 调用的最长时间
const llmTimeout = 60 * time.Second

// BundleUploader 提案包上传接口
type BundleUploader interface {
	UploadBundle(ctx context.Context, project model.Project, artifacts []model.Artifact) objstore.UploadReport
}

// Options 编排器配置
type Options struct {
	DefaultModel string
	Bucket       string
}

// Orchestrator 提案编排器
type Orchestrator struct {
	llm    llm.Client
	bundle *generators.Bundle
	writer BundleUploader
	store  storage.ProjectStore
	cache  cache.ConversationCache
	opts   Options
	logger *logging.Logger
}

// New 创建编排器。cache 为 nil 时使用空实现。
func New(client llm.Client, bundle *generators.Bundle, writer BundleUploader, store storage.ProjectStore, convCache cache.ConversationCache, opts Options, logger *logging.Logger) *Orchestrator {
	if convCache == nil {
		convCache = cache.Noop{}
	}
	if logger == nil {
		logger = logging.Default("architect")
	}
	return &Orchestrator{
		llm:    client,
		bundle: bundle,
		writer: writer,
		store:  store,
		cache:  convCache,
		opts:   opts,
		logger: logger,
	}
}

// Handle 处理一轮对话
//
// 返回的错误由 HTTP 层映射状态码：ErrInvalidInput → 400、
// llm.ErrUpstream / llm.ErrEmptyCompletion → 502、
// context.DeadlineExceeded → 504。部分上传失败不返回错误，
// 通过 projectState.phase 表达。
func (o *Orchestrator) Handle(ctx context.Context, req model.ConversationRequest) (*model.ConversationResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	modelID := req.ModelID
	if modelID == "" {
		modelID = o.opts.DefaultModel
	}

	// 客户端回显过项目 ID 时读取上一轮的会话快照
	var snap *cache.Snapshot
	if projectID := req.ProjectID(); projectID != "" {
		var err error
		if snap, err = o.cache.GetSnapshot(ctx, projectID); err != nil {
			o.logger.WithContext(ctx).WithError(err).Warn("conversation snapshot cache read failed")
		}
	}

	// 提取与就绪评估只依赖请求自身的消息历史
	draft := extract.Extract(req.Messages)
	ready := readiness.Evaluate(req.Messages, draft)

	completion, err := o.callLLM(ctx, modelID, req.Messages, draft, snap)
	if err != nil {
		return nil, err
	}

	result := &model.ConversationResult{
		Content:        completion.Text,
		ProjectState:   model.ProjectState{Phase: model.PhaseGathering, Data: map[string]any{}},
		MCPStatus:      "no activado",
		MCPUsed:        []string{},
		ReadinessScore: ready.Score,
		ModelUsed:      modelID,
		Usage:          completion.Usage,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	if req.ProjectState != nil {
		for k, v := range req.ProjectState.Data {
			result.ProjectState.Data[k] = v
		}
	}

	// 哨兵短语是评分之外的显式逃生门
	forced := strings.Contains(completion.Text, prompt.GenerationSentinel)
	if !ready.Ready && !forced {
		result.ProjectState.Data["readiness"] = ready
		o.putSnapshot(ctx, req.ProjectID(), draft, ready.Score)
		return result, nil
	}

	if err := o.generateAndPersist(ctx, req, draft, ready, result); err != nil {
		return nil, err
	}
	return result, nil
}

func validate(req model.ConversationRequest) error {
	if len(req.Messages) == 0 {
		return fmt.Errorf("%w: messages are required", ErrInvalidInput)
	}
	for _, m := range req.Messages {
		if !m.IsEmpty() {
			return nil
		}
	}
	return fmt.Errorf("%w: all messages are empty", ErrInvalidInput)
}

// callLLM 构建轮次并调用适配器：主提示词在最前，随后是可选的
// 草稿上下文轮，再按序附加客户端消息；空内容轮次被跳过
func (o *Orchestrator) callLLM(ctx context.Context, modelID string, messages []model.Message, draft model.ProjectDraft, snap *cache.Snapshot) (*llm.Completion, error) {
	turns := make([]model.Message, 0, len(messages)+2)
	turns = append(turns, model.Message{Role: model.RoleSystem, Content: prompt.Master})

	// 只有捕获到真实项目名后才附加草稿上下文轮；
	// 本轮提取不到名称时退回上一轮的缓存快照
	switch {
	case draft.HasName():
		turns = append(turns, model.Message{Role: model.RoleUser, Content: draft.Summary()})
	case snap != nil && snap.Draft.HasName():
		turns = append(turns, model.Message{Role: model.RoleUser, Content: snap.Draft.Summary()})
	}
	for _, m := range messages {
		if m.IsEmpty() {
			continue
		}
		turns = append(turns, m)
	}

	llmCtx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	family, _ := llm.FamilyFor(modelID, true)

	start := time.Now()
	completion, err := o.llm.Complete(llmCtx, modelID, turns)
	o.logger.WithContext(ctx).LLMCallLog(string(family), modelID, time.Since(start), err)
	return completion, err
}

// generateAndPersist 就绪路径：生成 → 打包 → 上传 → 注册表 → 响应增补
//
// 请求截止或被取消时返回 ctx 的错误，由 HTTP 层映射 504。
func (o *Orchestrator) generateAndPersist(ctx context.Context, req model.ConversationRequest, draft model.ProjectDraft, ready model.Readiness, result *model.ConversationResult) error {
	projectID := req.ProjectID()
	if projectID == "" {
		projectID = uuid.NewString()
	}
	log := o.logger.WithContext(ctx).WithProjectID(projectID)

	now := time.Now().UTC()
	project := model.Project{
		ID:            projectID,
		Name:          draft.Name,
		Type:          draft.Type,
		Status:        model.StatusInProgress,
		CreatedAt:     now,
		UpdatedAt:     now,
		S3Folder:      model.BuildFolder(draft.Name, projectID),
		Bucket:        o.opts.Bucket,
		Description:   draft.Description,
		EstimatedCost: generators.EstimateMonthlyCost(draft),
		QualityScore:  ready.Score,
	}

	// 生成器并行执行，单个失败不中止其余
	gens := o.bundle.ForDraft(draft)
	in := generators.Input{Draft: draft, Corpus: model.JoinCorpus(req.Messages)}
	results := generators.RunAll(ctx, gens, in)

	var artifacts []model.Artifact
	for _, res := range results {
		result.MCPUsed = append(result.MCPUsed, res.LogicalName)
		if res.Err != nil {
			log.WithError(res.Err).Warn("artifact generation failed", "logical_name", res.LogicalName)
			continue
		}
		artifacts = append(artifacts, res.Artifact)
	}
	result.MCPActivated = true

	if err := ctx.Err(); err != nil {
		// 请求截止已过：不上传也不写注册表，让调用方报告失败
		return err
	}

	report := o.writer.UploadBundle(ctx, project, artifacts)
	result.S3Info = &model.S3Info{
		Bucket:         report.Bucket,
		Folder:         report.Folder,
		DocumentsSaved: len(report.Uploaded),
		ContentSource:  contentSource(artifacts),
	}
	result.ProjectState.Data["project_id"] = projectID
	result.ProjectState.Data["s3_folder"] = project.S3Folder

	if len(report.Uploaded) == 0 {
		// 全部上传失败：不写注册表，响应携带错误摘要
		result.ProjectState.Phase = model.PhaseFailed
		result.MCPStatus = "generacion completada pero fallo la subida de documentos"
		result.Content += uploadFailureSummary(report)
		log.Warn("all artifact uploads failed", "failures", len(report.Failed))
		return nil
	}

	project.Status = model.StatusCompleted
	project.Manifest = report.Uploaded

	regCtx, cancel := context.WithTimeout(ctx, storage.WriteTimeout)
	defer cancel()
	if err := o.store.UpsertProject(regCtx, &project); err != nil {
		// 产物已经在对象存储里，注册表失败降级为告警
		log.WithError(err).Error("project registry upsert failed")
		result.MCPStatus = "documentos subidos pero fallo el registro del proyecto"
	} else {
		result.MCPStatus = fmt.Sprintf("%d documentos generados y subidos", len(report.Uploaded))
	}

	result.ProjectState.Phase = model.PhaseCompleted
	result.Manifest = report.Uploaded
	result.Content += artifactSummary(project, report)

	o.putSnapshot(ctx, projectID, draft, ready.Score)
	return nil
}

// putSnapshot 尽力写入会话快照，失败只告警。
// 项目 ID 尚未分配（首轮收集阶段）时没有键可写，直接跳过。
func (o *Orchestrator) putSnapshot(ctx context.Context, projectID string, draft model.ProjectDraft, score float64) {
	if projectID == "" {
		return
	}
	if err := o.cache.PutSnapshot(ctx, cache.Snapshot{
		ProjectID:      projectID,
		Draft:          draft,
		ReadinessScore: score,
		UpdatedAt:      time.Now().UTC(),
	}); err != nil {
		o.logger.WithContext(ctx).WithProjectID(projectID).WithError(err).Warn("conversation snapshot cache write failed")
	}
}

// contentSource 汇总产物来源：local、remote 或 mixed
func contentSource(artifacts []model.Artifact) string {
	var hasLocal, hasRemote bool
	for _, a := range artifacts {
		switch a.Source {
		case model.SourceLocal:
			hasLocal = true
		case model.SourceRemote:
			hasRemote = true
		}
	}
	switch {
	case hasLocal && hasRemote:
		return "mixed"
	case hasRemote:
		return "remote"
	default:
		return "local"
	}
}

// artifactSummary 追加到 LLM 回复末尾的人类可读产物摘要
func artifactSummary(project model.Project, report objstore.UploadReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\n---\n%d documentos generados para el proyecto %s:\n", len(report.Uploaded), project.Name)
	for _, m := range report.Uploaded {
		fmt.Fprintf(&b, "- %s (%s)\n", m.FileName, m.LogicalName)
	}
	fmt.Fprintf(&b, "Guardados en s3://%s/%s/\n", report.Bucket, report.Folder)
	if len(report.Failed) > 0 {
		fmt.Fprintf(&b, "Advertencia: %d documentos no pudieron subirse.\n", len(report.Failed))
	}
	return b.String()
}

// uploadFailureSummary 全部上传失败时的错误摘要
func uploadFailureSummary(report objstore.UploadReport) string {
	var b strings.Builder
	b.WriteString("\n\n---\nLos documentos fueron generados pero no pudieron guardarse en el almacenamiento:\n")
	for _, f := range report.Failed {
		fmt.Fprintf(&b, "- %s: %s\n", f.FileName, f.Reason)
	}
	return b.String()
}
