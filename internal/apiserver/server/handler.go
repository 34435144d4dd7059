// Package server 路由配置与核心基础设施
//
// 本文件定义 HTTP API 路由，将请求分发到各领域独立包：
//   - architect: 对话编排与项目查询接口
//
// 仍保留在本包的模块：
//   - metrics.go: Prometheus 指标与请求度量中间件
//   - middleware.go: CORS 与 OpenAPI 请求校验
package server

import (
	"net/http"

	apiarchitect "arquitecto/internal/apiserver/architect"
	orchestrator "arquitecto/internal/architect"
	"arquitecto/internal/shared/storage"
	"arquitecto/pkg/logging"
)

// Handler API Server 顶层处理器，持有各领域处理器的依赖
type Handler struct {
	orch    *orchestrator.Orchestrator
	store   storage.ProjectStore
	metrics *Metrics
	logger  *logging.Logger
}

// NewHandler 创建顶层处理器
func NewHandler(orch *orchestrator.Orchestrator, store storage.ProjectStore, metrics *Metrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default("api.server")
	}
	return &Handler{orch: orch, store: store, metrics: metrics, logger: logger}
}

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 健康检查:
//   - GET /health - 服务健康检查
//
// 对话编排 (Architect):
//   - POST    /arquitecto            - 处理一轮对话
//   - OPTIONS /arquitecto            - CORS preflight
//
// 项目查询:
//   - GET /api/v1/projects           - 列出项目
//   - GET /api/v1/projects/{id}      - 获取项目详情
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 健康检查
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", MetricsHandler())

	// 编排接口
	var observer apiarchitect.RoundObserver
	if h.metrics != nil {
		observer = h.metrics
	}
	archHandler := apiarchitect.NewHandler(h.orch, h.store, observer, h.logger)
	archHandler.RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = h.openapiMiddleware(handler)
	if h.metrics != nil {
		handler = h.metricsMiddleware(handler)
	}
	handler = corsMiddleware(handler)
	return handler
}

// Health 服务健康检查
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
