package architect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arquitecto/internal/architect/generators"
	"arquitecto/internal/architect/prompt"
	"arquitecto/internal/shared/cache"
	"arquitecto/internal/shared/llm"
	"arquitecto/internal/shared/model"
	"arquitecto/internal/shared/objstore"
	"arquitecto/internal/shared/storage"
	"arquitecto/pkg/logging"
)

// ============================================================================
// 测试替身
// ============================================================================

type fakeLLM struct {
	text       string
	err        error
	turns      []model.Message
	onComplete func()
}

func (f *fakeLLM) Complete(_ context.Context, _ string, turns []model.Message) (*llm.Completion, error) {
	f.turns = turns
	if f.onComplete != nil {
		f.onComplete()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Text: f.text, Usage: &model.Usage{InputTokens: 100, OutputTokens: 50}}, nil
}

type fakeCache struct {
	mu    sync.Mutex
	snaps map[string]cache.Snapshot
}

func newFakeCache() *fakeCache {
	return &fakeCache{snaps: make(map[string]cache.Snapshot)}
}

func (f *fakeCache) PutSnapshot(_ context.Context, snap cache.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps[snap.ProjectID] = snap
	return nil
}

func (f *fakeCache) GetSnapshot(_ context.Context, projectID string) (*cache.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.snaps[projectID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (f *fakeCache) Close() error { return nil }

type fakeUploader struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failFile string
	failAll  bool
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte)}
}

func (f *fakeUploader) Upload(_ context.Context, key string, data []byte, _ string, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll || (f.failFile != "" && strings.HasSuffix(key, f.failFile)) {
		return errors.New("upload rejected")
	}
	f.objects[key] = data
	return nil
}

func (f *fakeUploader) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeUploader) Bucket() string { return "test-bucket" }

type fixture struct {
	orch     *Orchestrator
	llm      *fakeLLM
	uploader *fakeUploader
	store    *storage.MemStore
	cache    *fakeCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logging.Default("test")
	fl := &fakeLLM{text: "Gracias por la informacion."}
	up := newFakeUploader()
	f := &fixture{
		llm:      fl,
		uploader: up,
		store:    storage.NewMemStore(),
		cache:    newFakeCache(),
	}
	f.orch = New(
		fl,
		generators.NewBundle(nil, logger),
		objstore.NewWriter(up, logger),
		f.store,
		f.cache,
		Options{DefaultModel: "claude-haiku-4-5-20251001", Bucket: "test-bucket"},
		logger,
	)
	return f
}

func userMsg(content string) model.Message {
	return model.Message{Role: model.RoleUser, Content: content}
}

// readyMessages 覆盖全部五个就绪标准的消息历史
func readyMessages() []model.Message {
	return []model.Message{
		userMsg("quiero un proyecto llamado Alpha"),
		{Role: model.RoleAssistant, Content: "tipo?"},
		userMsg("solucion integral"),
		userMsg("necesito EC2 t3.medium con 100gb"),
		userMsg("alta disponibilidad"),
		userMsg("us-east-1"),
	}
}

// ============================================================================
// 端到端场景
// ============================================================================

func TestHandleNotReadySingleMessage(t *testing.T) {
	f := newFixture(t)

	res, err := f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: []model.Message{userMsg("quiero un proyecto llamado Alpha")},
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.40, res.ReadinessScore, 0.001)
	assert.False(t, res.MCPActivated)
	assert.Equal(t, model.PhaseGathering, res.ProjectState.Phase)
	assert.Empty(t, res.Manifest)
	assert.Nil(t, res.S3Info)
	assert.Empty(t, f.uploader.objects)

	projects, _ := f.store.ListProjects(context.Background(), 0)
	assert.Empty(t, projects)
}

func TestHandleReadyFullPipeline(t *testing.T) {
	f := newFixture(t)

	res, err := f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: readyMessages(),
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.00, res.ReadinessScore, 0.001)
	assert.True(t, res.MCPActivated)
	assert.Equal(t, model.PhaseCompleted, res.ProjectState.Phase)
	require.Len(t, res.Manifest, 5)
	assert.Len(t, res.MCPUsed, 5)
	assert.Contains(t, res.Content, "5 documentos generados")

	require.NotNil(t, res.S3Info)
	assert.Equal(t, "test-bucket", res.S3Info.Bucket)
	assert.Equal(t, 5, res.S3Info.DocumentsSaved)
	assert.Equal(t, "local", res.S3Info.ContentSource)
	assert.True(t, strings.HasPrefix(res.S3Info.Folder, "alpha-"))

	// 清单里的每个键都能在对象存储中 HEAD 到
	for _, m := range res.Manifest {
		ok, err := f.uploader.Exists(context.Background(), m.S3Key)
		require.NoError(t, err)
		assert.True(t, ok, m.S3Key)
	}

	// 注册表记录 completed 且只嵌清单
	projectID, _ := res.ProjectState.Data["project_id"].(string)
	require.NotEmpty(t, projectID)
	p, err := f.store.GetProject(context.Background(), projectID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, model.StatusCompleted, p.Status)
	assert.Len(t, p.Manifest, 5)
	assert.Equal(t, model.BuildFolder("alpha", projectID), p.S3Folder)
	assert.Positive(t, p.EstimatedCost)

	// 就绪轮同样写入会话快照
	snap, err := f.cache.GetSnapshot(context.Background(), projectID)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.Draft.HasName())
}

func TestHandlePartialUploadFailure(t *testing.T) {
	f := newFixture(t)
	f.uploader.failFile = "cloudformation-template.yaml"

	res, err := f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: readyMessages(),
	})
	require.NoError(t, err)

	assert.Equal(t, model.PhaseCompleted, res.ProjectState.Phase)
	require.Len(t, res.Manifest, 4)
	for _, m := range res.Manifest {
		assert.NotEqual(t, model.ArtifactCloudFormation, m.LogicalName)
	}
	assert.Contains(t, res.Content, "4 documentos generados")

	projectID, _ := res.ProjectState.Data["project_id"].(string)
	p, _ := f.store.GetProject(context.Background(), projectID)
	require.NotNil(t, p)
	assert.Equal(t, model.StatusCompleted, p.Status)
	assert.Len(t, p.Manifest, 4)
}

func TestHandleAllUploadsFailed(t *testing.T) {
	f := newFixture(t)
	f.uploader.failAll = true

	res, err := f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: readyMessages(),
	})
	require.NoError(t, err)

	assert.Equal(t, model.PhaseFailed, res.ProjectState.Phase)
	assert.Empty(t, res.Manifest)
	assert.Contains(t, res.Content, "no pudieron guardarse")

	// 注册表不写入
	projects, _ := f.store.ListProjects(context.Background(), 0)
	assert.Empty(t, projects)
}

func TestHandleCancelledBeforeUpload(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.llm.onComplete = cancel

	_, err := f.orch.Handle(ctx, model.ConversationRequest{
		Messages: readyMessages(),
	})
	require.ErrorIs(t, err, context.Canceled)

	// 既不上传也不写注册表
	assert.Empty(t, f.uploader.objects)
	projects, _ := f.store.ListProjects(context.Background(), 0)
	assert.Empty(t, projects)
}

func TestHandleDeadlineExceededBeforeUpload(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := f.orch.Handle(ctx, model.ConversationRequest{
		Messages: readyMessages(),
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, f.uploader.objects)
}

func TestHandleEmptyMessages(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Handle(context.Background(), model.ConversationRequest{})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: []model.Message{{Role: model.RoleUser, Content: "   "}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, f.uploader.objects)
}

func TestHandleEmptyLLMReply(t *testing.T) {
	f := newFixture(t)
	f.llm.err = fmt.Errorf("%w: model x", llm.ErrEmptyCompletion)

	_, err := f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: readyMessages(),
	})
	require.ErrorIs(t, err, llm.ErrEmptyCompletion)

	// 既不上传也不写注册表
	assert.Empty(t, f.uploader.objects)
	projects, _ := f.store.ListProjects(context.Background(), 0)
	assert.Empty(t, projects)
}

// ============================================================================
// 行为细节
// ============================================================================

func TestSentinelPhraseForcesGeneration(t *testing.T) {
	f := newFixture(t)
	f.llm.text = "Perfecto. " + prompt.GenerationSentinel + "\n- documento tecnico"

	res, err := f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: []model.Message{userMsg("quiero un proyecto llamado Alpha")},
	})
	require.NoError(t, err)

	// 评分不足 0.80 但哨兵短语强制走就绪路径
	assert.Less(t, res.ReadinessScore, 0.80)
	assert.True(t, res.MCPActivated)
	assert.Equal(t, model.PhaseCompleted, res.ProjectState.Phase)
	assert.NotEmpty(t, res.Manifest)
}

func TestReusesInboundProjectID(t *testing.T) {
	f := newFixture(t)

	res, err := f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: readyMessages(),
		ProjectState: &model.ProjectState{
			Phase: model.PhaseGathering,
			Data:  map[string]any{"project_id": "11112222-3333-4444-5555-666677778888"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "11112222-3333-4444-5555-666677778888", res.ProjectState.Data["project_id"])
	assert.Equal(t, "alpha-11112222", res.S3Info.Folder)
}

func TestTurnConstruction(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: []model.Message{
			userMsg("quiero un proyecto llamado Alpha"),
			{Role: model.RoleAssistant, Content: ""},
			userMsg("es una tienda web"),
		},
	})
	require.NoError(t, err)

	turns := f.llm.turns
	require.NotEmpty(t, turns)
	assert.Equal(t, model.RoleSystem, turns[0].Role)
	assert.Contains(t, turns[0].Content, "arquitecto")

	// 捕获到名称后带草稿上下文轮；空轮次被丢弃
	assert.Contains(t, turns[1].Content, "CONTEXTO DEL PROYECTO")
	for _, turn := range turns {
		assert.False(t, turn.IsEmpty())
	}
	assert.Len(t, turns, 4)
}

func TestSnapshotSuppliesContextTurn(t *testing.T) {
	f := newFixture(t)
	const projectID = "11112222-3333-4444-5555-666677778888"
	f.cache.snaps[projectID] = cache.Snapshot{
		ProjectID: projectID,
		Draft: model.ProjectDraft{
			Name:     "alpha",
			Type:     model.TypeIntegral,
			Services: []string{"EC2", "VPC"},
		},
		ReadinessScore: 0.60,
		UpdatedAt:      time.Now().UTC(),
	}

	// 本轮消息提取不到项目名，上下文轮来自缓存快照
	_, err := f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: []model.Message{userMsg("hola, continuemos")},
		ProjectState: &model.ProjectState{
			Phase: model.PhaseGathering,
			Data:  map[string]any{"project_id": projectID},
		},
	})
	require.NoError(t, err)

	turns := f.llm.turns
	require.GreaterOrEqual(t, len(turns), 3)
	assert.Contains(t, turns[1].Content, "CONTEXTO DEL PROYECTO")
	assert.Contains(t, turns[1].Content, "alpha")
}

func TestSnapshotWrittenOnGatheringTurn(t *testing.T) {
	f := newFixture(t)
	const projectID = "11112222-3333-4444-5555-666677778888"

	res, err := f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: []model.Message{userMsg("quiero un proyecto llamado Alpha")},
		ProjectState: &model.ProjectState{
			Phase: model.PhaseGathering,
			Data:  map[string]any{"project_id": projectID},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PhaseGathering, res.ProjectState.Phase)

	snap, err := f.cache.GetSnapshot(context.Background(), projectID)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.Draft.HasName())
	assert.InDelta(t, res.ReadinessScore, snap.ReadinessScore, 0.001)
}

func TestDefaultModelApplied(t *testing.T) {
	f := newFixture(t)

	res, err := f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: []model.Message{userMsg("hola")},
	})
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5-20251001", res.ModelUsed)

	res, err = f.orch.Handle(context.Background(), model.ConversationRequest{
		Messages: []model.Message{userMsg("hola")},
		ModelID:  "gpt-4o",
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", res.ModelUsed)
}
