package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache 基于 Redis 的会话快照缓存
type RedisCache struct {
	client *redis.Client
}

var _ ConversationCache = (*RedisCache)(nil)

// NewRedisCacheFromURL 从 URL 创建 Redis 缓存实例
func NewRedisCacheFromURL(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// Close 关闭 Redis 连接
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func snapshotKey(projectID string) string {
	return "arquitecto:snapshot:" + projectID
}

// PutSnapshot 写入快照，TTL 到期自动清除
func (c *RedisCache) PutSnapshot(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return c.client.Set(ctx, snapshotKey(snap.ProjectID), data, SnapshotTTL).Err()
}

// GetSnapshot 读取快照，未命中时返回 (nil, nil)
func (c *RedisCache) GetSnapshot(ctx context.Context, projectID string) (*Snapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey(projectID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
