package database

import (
	"context"
	"sync"
	"time"

	"app-catalog-backend/pkg/logger"

	"go.uber.org/zap"
)

// storePool 进程级存储缓存，serverless实例复用时避免重复连接和重置内存数据
type storePool struct {
	instance Store
	config   StoreConfig
	mu       sync.RWMutex
	lastUsed time.Time
}

var (
	globalPool *storePool
	poolMutex  sync.Mutex
)

// GetStore 获取存储实例（单例模式 + 连接池）
func GetStore(config StoreConfig) (Store, error) {
	poolMutex.Lock()
	defer poolMutex.Unlock()

	if globalPool != nil && !shouldRecreateStore(globalPool, config) {
		globalPool.mu.Lock()
		globalPool.lastUsed = time.Now()
		globalPool.mu.Unlock()

		logger.Debug("reusing existing store")
		return globalPool.instance, nil
	}

	logger.Info("creating new store")

	// 关闭旧连接（如果存在）
	if globalPool != nil && globalPool.instance != nil {
		globalPool.instance.Close()
	}

	instance, err := Open(config)
	if err != nil {
		globalPool = nil
		return nil, err
	}
	globalPool = &storePool{
		instance: instance,
		config:   config,
		lastUsed: time.Now(),
	}
	return instance, nil
}

// shouldRecreateStore 判断是否需要重新创建存储
func shouldRecreateStore(pool *storePool, newConfig StoreConfig) bool {
	if pool == nil || pool.instance == nil {
		return true
	}

	if pool.config != newConfig {
		logger.Info("store configuration changed, recreating")
		return true
	}

	// 内存存储保存的是申请数据，过期重建会丢失状态
	if _, ok := pool.instance.(*MemoryStore); ok {
		return false
	}

	// 检查连接是否过期（30分钟）
	pool.mu.RLock()
	expired := time.Since(pool.lastUsed) > 30*time.Minute
	pool.mu.RUnlock()

	if expired {
		logger.Info("store connection expired, recreating")
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.instance.HealthCheck(ctx); err != nil {
		logger.Warn("store health check failed, recreating", zap.Error(err))
		return true
	}

	return false
}

// ResetStore 关闭并丢弃缓存的存储
func ResetStore() {
	poolMutex.Lock()
	defer poolMutex.Unlock()

	if globalPool != nil && globalPool.instance != nil {
		globalPool.instance.Close()
	}
	globalPool = nil
}

// GetConnectionStats 获取存储缓存统计信息
func GetConnectionStats() map[string]interface{} {
	poolMutex.Lock()
	defer poolMutex.Unlock()

	if globalPool == nil {
		return map[string]interface{}{
			"status":    "no_connection",
			"last_used": nil,
		}
	}

	globalPool.mu.RLock()
	lastUsed := globalPool.lastUsed
	globalPool.mu.RUnlock()

	return map[string]interface{}{
		"status":    "connected",
		"last_used": lastUsed.Format(time.RFC3339),
		"age":       time.Since(lastUsed).String(),
		"config": map[string]interface{}{
			"has_postgres": globalPool.config.PostgresDSN != "",
			"has_remote":   globalPool.config.RemoteURL != "",
		},
	}
}
