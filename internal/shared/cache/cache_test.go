package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arquitecto/internal/shared/model"
)

func TestNoopContract(t *testing.T) {
	ctx := context.Background()
	var c ConversationCache = Noop{}

	require.NoError(t, c.PutSnapshot(ctx, Snapshot{ProjectID: "p1"}))

	// 未命中语义：(nil, nil)
	snap, err := c.GetSnapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, snap)

	assert.NoError(t, c.Close())
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "arquitecto:snapshot:abc-123", snapshotKey("abc-123"))
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	snap := Snapshot{
		ProjectID: "p1",
		Draft: model.ProjectDraft{
			Name:     "alpha",
			Type:     model.TypeIntegral,
			Services: []string{"EC2", "VPC"},
		},
		ReadinessScore: 0.80,
		UpdatedAt:      time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, snap.ProjectID, got.ProjectID)
	assert.Equal(t, snap.Draft.Name, got.Draft.Name)
	assert.True(t, got.Draft.HasName())
	assert.InDelta(t, 0.80, got.ReadinessScore, 0.001)
}

func TestNewRedisCacheFromURLInvalid(t *testing.T) {
	_, err := NewRedisCacheFromURL("not-a-redis-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse Redis URL")
}
