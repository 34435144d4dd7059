package objstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arquitecto/internal/shared/model"
)

// fakeUploader 内存上传器，按逻辑名注入失败
type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	meta    map[string]map[string]string
	failKey string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		objects: make(map[string][]byte),
		meta:    make(map[string]map[string]string),
	}
}

func (f *fakeUploader) Upload(_ context.Context, key string, data []byte, _ string, metadata map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKey != "" && key == f.failKey {
		return errors.New("injected upload failure")
	}
	f.objects[key] = data
	f.meta[key] = metadata
	return nil
}

func (f *fakeUploader) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeUploader) Bucket() string { return "test-bucket" }

func sampleProject() model.Project {
	return model.Project{
		ID:       "a1b2c3d4-0000-0000-0000-000000000000",
		Name:     "alpha",
		Type:     model.TypeIntegral,
		S3Folder: "alpha-a1b2c3d4",
		Bucket:   "test-bucket",
	}
}

func sampleArtifacts() []model.Artifact {
	return []model.Artifact{
		{LogicalName: model.ArtifactDiagram, FileName: "diagrama-arquitectura.svg", MediaType: "image/svg+xml", Bytes: []byte("<svg/>"), Source: model.SourceLocal},
		{LogicalName: model.ArtifactCloudFormation, FileName: "cloudformation-template.yaml", MediaType: "text/yaml", Bytes: []byte("Resources: {}"), Source: model.SourceLocal},
		{LogicalName: model.ArtifactPricing, FileName: "estimacion-costos.csv", MediaType: "text/csv", Bytes: []byte("a,b"), Source: model.SourceRemote},
	}
}

func TestUploadBundleAllSuccess(t *testing.T) {
	up := newFakeUploader()
	w := NewWriter(up, nil)

	report := w.UploadBundle(context.Background(), sampleProject(), sampleArtifacts())

	assert.Equal(t, "test-bucket", report.Bucket)
	assert.Equal(t, "alpha-a1b2c3d4", report.Folder)
	require.Len(t, report.Uploaded, 3)
	assert.Empty(t, report.Failed)
	assert.False(t, report.AllFailed())

	// 保持产物顺序
	assert.Equal(t, model.ArtifactDiagram, report.Uploaded[0].LogicalName)
	assert.Equal(t, "alpha-a1b2c3d4/diagrama-arquitectura.svg", report.Uploaded[0].S3Key)
	assert.Equal(t, int64(6), report.Uploaded[0].Size)

	// 每个对象都带用户元数据
	meta := up.meta["alpha-a1b2c3d4/estimacion-costos.csv"]
	require.NotNil(t, meta)
	assert.Equal(t, "alpha", meta["project_name"])
	assert.Equal(t, "integral", meta["project_type"])
	assert.Equal(t, "remote", meta["source"])
	assert.NotEmpty(t, meta["generated_at"])
}

func TestUploadBundlePartialFailure(t *testing.T) {
	up := newFakeUploader()
	up.failKey = "alpha-a1b2c3d4/cloudformation-template.yaml"
	w := NewWriter(up, nil)

	report := w.UploadBundle(context.Background(), sampleProject(), sampleArtifacts())

	require.Len(t, report.Uploaded, 2)
	require.Len(t, report.Failed, 1)
	assert.False(t, report.AllFailed())
	assert.Equal(t, model.ArtifactCloudFormation, report.Failed[0].LogicalName)
	assert.Contains(t, report.Failed[0].Reason, "injected")

	// 清单里只有成功的产物
	for _, m := range report.Uploaded {
		assert.NotEqual(t, model.ArtifactCloudFormation, m.LogicalName)
		ok, _ := up.Exists(context.Background(), m.S3Key)
		assert.True(t, ok)
	}
}

func TestUploadBundleAllFailed(t *testing.T) {
	up := newFakeUploader()
	w := NewWriter(failingUploader{}, nil)
	_ = up

	report := w.UploadBundle(context.Background(), sampleProject(), sampleArtifacts())
	assert.Empty(t, report.Uploaded)
	assert.Len(t, report.Failed, 3)
	assert.True(t, report.AllFailed())
}

func TestUploadBundleEmpty(t *testing.T) {
	w := NewWriter(newFakeUploader(), nil)
	report := w.UploadBundle(context.Background(), sampleProject(), nil)
	assert.Empty(t, report.Uploaded)
	assert.Empty(t, report.Failed)
	assert.False(t, report.AllFailed())
}

type failingUploader struct{}

func (failingUploader) Upload(context.Context, string, []byte, string, map[string]string) error {
	return errors.New("storage unavailable")
}
func (failingUploader) Exists(context.Context, string) (bool, error) { return false, nil }
func (failingUploader) Bucket() string                               { return "test-bucket" }
