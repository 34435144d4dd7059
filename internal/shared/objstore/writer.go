package objstore

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"arquitecto/internal/shared/model"
	"arquitecto/pkg/logging"
)

// uploadTimeout 单个对象上传的最长时间
const uploadTimeout = 30 * time.Second

// maxParallelUploads 单次请求内并行上传上限
const maxParallelUploads = 4

// UploadFailure 一次失败的上传
type UploadFailure struct {
	LogicalName string `json:"logical_name"`
	FileName    string `json:"file_name"`
	Reason      string `json:"reason"`
}

// UploadReport 一个提案包的上传结果
//
// 上传彼此独立，单个失败不会中止其余上传；Uploaded 保持产物的
// 原始顺序。
type UploadReport struct {
	Bucket   string               `json:"bucket"`
	Folder   string               `json:"folder"`
	Uploaded []model.ArtifactMeta `json:"uploaded"`
	Failed   []UploadFailure      `json:"failed,omitempty"`
}

// AllFailed 是否所有上传都失败了
func (r UploadReport) AllFailed() bool {
	return len(r.Uploaded) == 0 && len(r.Failed) > 0
}

// Writer 把打包后的产物上传到对象存储的项目前缀下
type Writer struct {
	up     Uploader
	logger *logging.Logger
}

// NewWriter 创建对象存储写入器
func NewWriter(up Uploader, logger *logging.Logger) *Writer {
	if logger == nil {
		logger = logging.Default("objstore")
	}
	return &Writer{up: up, logger: logger}
}

// UploadBundle 上传一个项目的全部产物
//
// 每个对象的键为 {folder}/{file_name}，内容类型取产物的 media_type，
// 用户元数据携带项目名、项目类型、生成时间和产物来源。
func (w *Writer) UploadBundle(ctx context.Context, project model.Project, artifacts []model.Artifact) UploadReport {
	report := UploadReport{
		Bucket: w.up.Bucket(),
		Folder: project.S3Folder,
	}

	type slot struct {
		meta model.ArtifactMeta
		fail *UploadFailure
	}
	slots := make([]slot, len(artifacts))
	generatedAt := time.Now().UTC().Format(time.RFC3339)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)

	for i, art := range artifacts {
		g.Go(func() error {
			key := project.S3Folder + "/" + art.FileName
			metadata := map[string]string{
				"project_name": project.Name,
				"project_type": string(project.Type),
				"generated_at": generatedAt,
				"source":       string(art.Source),
			}

			upCtx, cancel := context.WithTimeout(gctx, uploadTimeout)
			defer cancel()

			start := time.Now()
			err := w.up.Upload(upCtx, key, art.Bytes, art.MediaType, metadata)
			if err != nil {
				w.logger.WithContext(ctx).WithError(err).WithDuration(time.Since(start)).
					Warn("artifact upload failed", "key", key, "logical_name", art.LogicalName)
				slots[i] = slot{fail: &UploadFailure{
					LogicalName: art.LogicalName,
					FileName:    art.FileName,
					Reason:      err.Error(),
				}}
				return nil
			}

			w.logger.WithContext(ctx).WithDuration(time.Since(start)).
				Info("artifact uploaded", "key", key, "size", art.Size(), "source", art.Source)
			slots[i] = slot{meta: art.Meta(key)}
			return nil
		})
	}
	_ = g.Wait()

	for _, s := range slots {
		if s.fail != nil {
			report.Failed = append(report.Failed, *s.fail)
			continue
		}
		report.Uploaded = append(report.Uploaded, s.meta)
	}
	return report
}
