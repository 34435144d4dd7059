// Package main API Server 入口
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arquitecto/internal/apiserver/server"
	orchestrator "arquitecto/internal/architect"
	"arquitecto/internal/architect/generators"
	"arquitecto/internal/config"
	"arquitecto/internal/shared/cache"
	"arquitecto/internal/shared/llm"
	"arquitecto/internal/shared/objstore"
	"arquitecto/internal/shared/storage"
	"arquitecto/internal/shared/storage/mongostore"
	"arquitecto/internal/shared/storage/sqlitestore"
	"arquitecto/pkg/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.Default("api-server")

	log.Printf("Starting API Server... [env=%s]", cfg.Env)

	// 项目注册表：生产走 MongoDB，开发/测试可切 SQLite
	store, err := openRegistry(cfg)
	if err != nil {
		log.Fatalf("Failed to open project registry: %v", err)
	}
	defer store.Close()
	log.Printf("Project registry ready [driver=%s]", cfg.Registry.Driver)

	// 对象存储
	minioClient, err := objstore.NewClient(cfg.MinIO, cfg.DocumentsBucket, cfg.Region)
	if err != nil {
		log.Fatalf("Failed to create object storage client: %v", err)
	}
	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := minioClient.EnsureBucket(ctx); err != nil {
			log.Fatalf("Failed to ensure bucket: %v", err)
		}
		cancel()
	}
	log.Printf("Object storage ready [bucket=%s]", minioClient.Bucket())

	// 会话快照缓存（可选）
	var convCache cache.ConversationCache = cache.Noop{}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCacheFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("WARNING: Redis unavailable, snapshot cache disabled: %v", err)
		} else {
			convCache = rc
			defer rc.Close()
			log.Println("Connected to Redis")
		}
	}

	// LLM 适配器与生成器
	adapter := llm.NewAdapter(llm.Config{
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GenericEndpoint: cfg.LLM.Endpoint,
	})
	bundle := generators.NewBundle(
		generators.NewRemoteClient(cfg.MCP.BaseURL, logger),
		logger,
	)

	orch := orchestrator.New(
		adapter,
		bundle,
		objstore.NewWriter(minioClient, logger),
		store,
		convCache,
		orchestrator.Options{DefaultModel: cfg.LLM.DefaultModel, Bucket: minioClient.Bucket()},
		logger,
	)

	h := server.NewHandler(orch, store, server.NewMetrics("arquitecto"), logger)

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("API Server listening on :%s", cfg.APIPort)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped")
}

// openRegistry 按配置选择注册表驱动
func openRegistry(cfg *config.Config) (storage.ProjectStore, error) {
	switch cfg.Registry.Driver {
	case "sqlite":
		return sqlitestore.Open(cfg.Registry.SQLitePath, cfg.Registry.Table)
	default:
		return mongostore.NewStore(cfg.Registry.URL, cfg.Registry.Database, cfg.Registry.Table)
	}
}
