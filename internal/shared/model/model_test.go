package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSanitizeName 测试名称归一化
func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"简单名称", "Alpha", "alpha"},
		{"空格折叠", "Mi Proyecto Web", "mi-proyecto-web"},
		{"特殊字符", "Tienda_Online!2024", "tienda-online-2024"},
		{"两端修剪", "  --Alpha--  ", "alpha"},
		{"全特殊字符", "***", "proyecto"},
		{"混合大小写", "MiGracion SAP", "migracion-sap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

// TestBuildFolder 测试对象存储前缀派生的确定性
func TestBuildFolder(t *testing.T) {
	id := "a1b2c3d4-0000-1111-2222-333344445555"

	first := BuildFolder("Mi Proyecto", id)
	require.Equal(t, "mi-proyecto-a1b2c3d4", first)

	// 同一输入重复派生结果一致
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildFolder("Mi Proyecto", id))
	}

	// 短 ID 不截断
	assert.Equal(t, "alpha-abc", BuildFolder("Alpha", "abc"))
}

// TestJoinCorpus 测试语料拼接
func TestJoinCorpus(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "Quiero EC2"},
		{Role: RoleAssistant, Content: "   "},
		{Role: RoleUser, Content: "Con S3"},
	}
	assert.Equal(t, "quiero ec2\ncon s3", JoinCorpus(msgs))
	assert.Equal(t, "", JoinCorpus(nil))
}

// TestUserTurnCount 测试用户消息计数
func TestUserTurnCount(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "hola"},
		{Role: RoleAssistant, Content: "hola"},
		{Role: RoleUser, Content: ""},
		{Role: RoleUser, Content: "ec2"},
	}
	assert.Equal(t, 2, UserTurnCount(msgs))
}

// TestArtifactMeta 测试清单条目不携带字节
func TestArtifactMeta(t *testing.T) {
	a := Artifact{
		LogicalName: ArtifactDiagram,
		FileName:    "diagram.svg",
		MediaType:   "image/svg+xml",
		Bytes:       []byte("<svg></svg>"),
		Source:      SourceLocal,
	}

	meta := a.Meta("alpha-a1b2c3d4/diagram.svg")
	assert.Equal(t, ArtifactDiagram, meta.LogicalName)
	assert.Equal(t, int64(11), meta.Size)
	assert.Equal(t, "alpha-a1b2c3d4/diagram.svg", meta.S3Key)
	assert.Equal(t, SourceLocal, meta.Source)
}

// TestProjectDraftHelpers 测试草稿辅助方法
func TestProjectDraftHelpers(t *testing.T) {
	d := ProjectDraft{
		Name:     "Alpha",
		Services: []string{"EC2", "VPC", "S3", "CloudWatch"},
	}

	assert.True(t, d.HasName())
	assert.True(t, d.HasService("ec2"))
	assert.False(t, d.HasService("Lambda"))
	assert.Equal(t, []string{"EC2", "VPC", "S3"}, d.TopServices(3))

	assert.False(t, ProjectDraft{Name: DefaultProjectName}.HasName())
	assert.False(t, ProjectDraft{Name: "Ana"}.HasName())
}
