package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arquitecto/internal/shared/model"
)

func TestMemStoreRoundTrip(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	got, err := s.GetProject(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	p := &model.Project{ID: "p1", Name: "alpha", Status: model.StatusCompleted, UpdatedAt: time.Now()}
	require.NoError(t, s.UpsertProject(ctx, p))

	got, err = s.GetProject(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alpha", got.Name)

	// 返回副本，调用方修改不影响存储
	got.Name = "mutated"
	again, _ := s.GetProject(ctx, "p1")
	assert.Equal(t, "alpha", again.Name)
}

func TestMemStoreListOrder(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.UpsertProject(ctx, &model.Project{ID: id, UpdatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	out, err := s.ListProjects(ctx, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "c", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
}
