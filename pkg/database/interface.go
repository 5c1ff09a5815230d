package database

import (
	"context"
	"strings"

	"app-catalog-backend/pkg/logger"
	"app-catalog-backend/pkg/models"

	"go.uber.org/zap"
)

// Store 定义目录与访问申请的存储接口
// 各实现可以互相替换，上层的筛选和状态机逻辑不需要改动
type Store interface {
	// 应用目录（按目录顺序返回）
	ListApps(ctx context.Context) ([]models.App, error)
	GetApp(ctx context.Context, id string) (*models.App, error)

	// 访问申请
	ListRequests(ctx context.Context) ([]models.AccessRequest, error)
	GetRequest(ctx context.Context, id string) (*models.AccessRequest, error)
	// CreateRequest stores req and fills in its ID when empty.
	CreateRequest(ctx context.Context, req *models.AccessRequest) error
	// UpdateRequest loads the request, applies mutate and persists the result
	// as one atomic step. An error from mutate aborts the update unchanged.
	UpdateRequest(ctx context.Context, id string, mutate func(*models.AccessRequest) error) (*models.AccessRequest, error)

	// 健康检查
	HealthCheck(ctx context.Context) error

	// 关闭连接
	Close() error
}

// StoreConfig 存储配置
type StoreConfig struct {
	PostgresDSN string
	RemoteURL   string
	Debug       bool
}

// Open 根据配置选择存储实现：PostgreSQL > 远程目录服务 > 内存
func Open(config StoreConfig) (Store, error) {
	if dsn := strings.TrimSpace(config.PostgresDSN); dsn != "" {
		logger.Info("using PostgreSQL store")
		store, err := NewPostgresStore(dsn)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	if remote := strings.TrimSpace(config.RemoteURL); remote != "" {
		logger.Info("using remote catalog store", zap.String("url", remote))
		return NewRemoteStore(remote), nil
	}

	logger.Info("using in-memory seeded store")
	return NewMemoryStore(), nil
}
