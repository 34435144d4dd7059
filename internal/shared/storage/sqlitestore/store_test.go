package sqlitestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arquitecto/internal/shared/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", "")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testProject(id, name string, updated time.Time) *model.Project {
	return &model.Project{
		ID:        id,
		Name:      name,
		Type:      model.TypeIntegral,
		Status:    model.StatusCompleted,
		CreatedAt: updated.Add(-time.Hour),
		UpdatedAt: updated,
		S3Folder:  model.BuildFolder(name, id),
		Bucket:    "arquitecto-documents",
		Manifest: []model.ArtifactMeta{
			{LogicalName: model.ArtifactDiagram, FileName: "diagrama-arquitectura.svg", S3Key: "x/diagrama-arquitectura.svg", Size: 10, Source: model.SourceLocal},
		},
		EstimatedCost: 50.37,
		QualityScore:  0.8,
	}
}

func TestUpsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testProject("proj-1", "alpha", time.Now().UTC())
	require.NoError(t, s.UpsertProject(ctx, p))

	got, err := s.GetProject(ctx, "proj-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alpha", got.Name)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Len(t, got.Manifest, 1)
	assert.InDelta(t, 50.37, got.EstimatedCost, 0.001)
}

func TestGetMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetProject(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpsertOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testProject("proj-1", "alpha", time.Now().UTC())
	require.NoError(t, s.UpsertProject(ctx, p))

	p.Status = model.StatusFailed
	p.Manifest = nil
	require.NoError(t, s.UpsertProject(ctx, p))

	got, err := s.GetProject(ctx, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, got.Status)
	assert.Empty(t, got.Manifest)
}

func TestOpenCustomTable(t *testing.T) {
	s, err := Open(":memory:", "propuestas")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	p := testProject("proj-1", "alpha", time.Now().UTC())
	require.NoError(t, s.UpsertProject(ctx, p))

	got, err := s.GetProject(ctx, "proj-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alpha", got.Name)

	// 默认表不存在：写入只进了配置的表
	var count int
	err = s.db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'projects'`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestOpenRejectsInvalidTableName(t *testing.T) {
	for _, name := range []string{"bad-name", "projects; DROP", "1projects", "a b"} {
		_, err := Open(":memory:", name)
		assert.Error(t, err, name)
	}
}

func TestListProjectsOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertProject(ctx, testProject("p1", "uno", base)))
	require.NoError(t, s.UpsertProject(ctx, testProject("p2", "dos", base.Add(time.Minute))))
	require.NoError(t, s.UpsertProject(ctx, testProject("p3", "tres", base.Add(2*time.Minute))))

	all, err := s.ListProjects(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "p3", all[0].ID)
	assert.Equal(t, "p1", all[2].ID)

	limited, err := s.ListProjects(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "p3", limited[0].ID)
}
