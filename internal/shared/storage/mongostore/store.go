// Package mongostore 实现基于 MongoDB 的 ProjectStore
//
// 使用 mongo-go-driver v2，通过 bson tag 实现 model 结构体的序列化/反序列化。
// 浮点数值字段（estimated_cost、quality_score）在写入边界转换为 Decimal128。
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"arquitecto/internal/shared/model"
	"arquitecto/internal/shared/storage"
)

// ColProjects 默认项目集合名，可通过 PROJECTS_TABLE 覆盖
const ColProjects = "projects"

// Store 实现 storage.ProjectStore 接口的 MongoDB 驱动
type Store struct {
	client *mongo.Client
	col    *mongo.Collection
}

var _ storage.ProjectStore = (*Store)(nil)

// NewStore 创建 MongoDB 存储实例
//
// uri: MongoDB 连接 URI，如 "mongodb://localhost:27017"
// dbName: 数据库名称，如 "arquitecto"
// collection: 项目集合名，空串时使用 ColProjects
func NewStore(uri, dbName, collection string) (*Store, error) {
	if collection == "" {
		collection = ColProjects
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}

	// 验证连接
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	s := &Store{client: client, col: client.Database(dbName).Collection(collection)}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("mongostore: ensure indexes failed: %w", err)
	}
	return s, nil
}

// Close 关闭 MongoDB 连接
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "updated_at", Value: -1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	})
	return err
}

// wrapError 将 MongoDB 错误转换为领域错误
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicate
	}
	return err
}

// projectDoc 持久化文档，数值字段用注册表原生的 Decimal128
type projectDoc struct {
	model.Project `bson:",inline"`
	EstimatedCost bson.Decimal128 `bson:"estimated_cost"`
	QualityScore  bson.Decimal128 `bson:"quality_score"`
}

// toDecimal128 浮点到 Decimal128 的边界转换，保留两位小数
func toDecimal128(v float64) (bson.Decimal128, error) {
	return bson.ParseDecimal128(strconv.FormatFloat(v, 'f', 2, 64))
}

func fromDecimal128(d bson.Decimal128) float64 {
	v, err := strconv.ParseFloat(d.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// UpsertProject 按 ID 整文档覆盖写入，后写者胜出
func (s *Store) UpsertProject(ctx context.Context, project *model.Project) error {
	cost, err := toDecimal128(project.EstimatedCost)
	if err != nil {
		return fmt.Errorf("mongostore: estimated_cost: %w", err)
	}
	score, err := toDecimal128(project.QualityScore)
	if err != nil {
		return fmt.Errorf("mongostore: quality_score: %w", err)
	}

	doc := projectDoc{Project: *project, EstimatedCost: cost, QualityScore: score}
	_, err = s.col.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: project.ID}},
		doc,
		options.Replace().SetUpsert(true),
	)
	return wrapError(err)
}

// GetProject 按 ID 查找项目，不存在时返回 (nil, nil)
func (s *Store) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var doc projectDoc
	err := s.col.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, wrapError(err)
	}
	return docToProject(doc), nil
}

// ListProjects 按更新时间倒序返回最多 limit 条
func (s *Store) ListProjects(ctx context.Context, limit int) ([]*model.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := s.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrapError(err)
	}
	defer cursor.Close(ctx)

	results := []*model.Project{}
	for cursor.Next(ctx) {
		var doc projectDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		results = append(results, docToProject(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func docToProject(doc projectDoc) *model.Project {
	p := doc.Project
	p.EstimatedCost = fromDecimal128(doc.EstimatedCost)
	p.QualityScore = fromDecimal128(doc.QualityScore)
	return &p
}
