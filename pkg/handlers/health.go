package handlers

import (
	"context"
	"net/http"
	"time"

	"app-catalog-backend/pkg/config"
	"app-catalog-backend/pkg/database"
	"app-catalog-backend/pkg/utils"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	config *config.Config
	store  database.Store
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(cfg *config.Config, store database.Store) *HealthHandler {
	return &HealthHandler{
		config: cfg,
		store:  store,
	}
}

// HealthCheck 健康检查
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 测试存储连接
	storeStatus := "healthy"
	if err := h.store.HealthCheck(ctx); err != nil {
		storeStatus = "unhealthy: " + err.Error()
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"service":      "app-catalog-backend",
		"version":      "1.0.0",
		"environment":  h.config.Environment,
		"store":        h.getStoreType(),
		"store_status": storeStatus,
		"timestamp":    time.Now().Unix(),
		"status":       "healthy",
	})
}

// getStoreType 获取存储类型
func (h *HealthHandler) getStoreType() string {
	switch h.store.(type) {
	case *database.PostgresStore:
		return "postgresql"
	case *database.RemoteStore:
		return "remote"
	case *database.MemoryStore:
		return "memory"
	}
	return "unknown"
}
