// Package architect 提案编排领域 - HTTP 处理
package architect

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	orchestrator "arquitecto/internal/architect"
	"arquitecto/internal/shared/llm"
	"arquitecto/internal/shared/model"
	"arquitecto/internal/shared/storage"
	"arquitecto/pkg/logging"
)

// defaultListLimit 项目列表的默认条数
const defaultListLimit = 50

// RoundObserver 提案轮次的指标回调
type RoundObserver interface {
	ObserveRound(phase string, score float64, manifest []model.ArtifactMeta)
}

// Handler 提案编排领域 HTTP 处理器
type Handler struct {
	orch     *orchestrator.Orchestrator
	store    storage.ProjectStore
	observer RoundObserver
	logger   *logging.Logger
}

// NewHandler 创建编排处理器。observer 可以为 nil。
func NewHandler(orch *orchestrator.Orchestrator, store storage.ProjectStore, observer RoundObserver, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default("api.architect")
	}
	return &Handler{orch: orch, store: store, observer: observer, logger: logger}
}

// RegisterRoutes 注册编排相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /arquitecto", h.Converse)
	mux.HandleFunc("GET /api/v1/projects", h.ListProjects)
	mux.HandleFunc("GET /api/v1/projects/{id}", h.GetProject)
}

// Converse 处理一轮对话
// POST /arquitecto
func (h *Handler) Converse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.orch.Handle(ctx, req)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Warn("conversation failed")
		writeError(w, statusFor(err), err.Error())
		return
	}

	if h.observer != nil {
		h.observer.ObserveRound(result.ProjectState.Phase, result.ReadinessScore, result.Manifest)
	}
	writeJSON(w, http.StatusOK, result)
}

// statusFor 编排器错误到 HTTP 状态码的映射
func statusFor(err error) int {
	switch {
	case errors.Is(err, orchestrator.ErrInvalidInput),
		errors.Is(err, llm.ErrUnknownModel):
		return http.StatusBadRequest
	case errors.Is(err, llm.ErrEmptyCompletion),
		errors.Is(err, llm.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ListProjects 列出已注册项目
// GET /api/v1/projects?limit=N
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	projects, err := h.store.ListProjects(r.Context(), limit)
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Error("list projects failed")
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetProject 获取项目详情
// GET /api/v1/projects/{id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	project, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Error("get project failed")
		writeError(w, http.StatusInternalServerError, "failed to get project")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}
