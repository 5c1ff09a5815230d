package database

import (
	"context"
	"fmt"
	"sync"

	"app-catalog-backend/pkg/catalog"
	"app-catalog-backend/pkg/models"

	"github.com/google/uuid"
)

// MemoryStore 内存存储实现，进程重启后数据恢复为种子数据
type MemoryStore struct {
	mu       sync.RWMutex
	apps     []models.App
	requests []models.AccessRequest
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore 创建带种子数据的内存存储
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWith(catalog.SeedApps(), catalog.SeedRequests())
}

// NewMemoryStoreWith 使用给定数据创建内存存储
func NewMemoryStoreWith(apps []models.App, requests []models.AccessRequest) *MemoryStore {
	s := &MemoryStore{
		apps:     make([]models.App, 0, len(apps)),
		requests: make([]models.AccessRequest, 0, len(requests)),
	}
	for _, a := range apps {
		s.apps = append(s.apps, a.Clone())
	}
	for _, r := range requests {
		s.requests = append(s.requests, r.Clone())
	}
	return s
}

// ListApps 列出所有应用
func (s *MemoryStore) ListApps(_ context.Context) ([]models.App, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.App, len(s.apps))
	for i, a := range s.apps {
		out[i] = a.Clone()
	}
	return out, nil
}

// GetApp 根据ID获取应用
func (s *MemoryStore) GetApp(_ context.Context, id string) (*models.App, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.apps {
		if a.ID == id {
			app := a.Clone()
			return &app, nil
		}
	}
	return nil, models.NewNotFoundError("app", id)
}

// ListRequests 列出所有访问申请
func (s *MemoryStore) ListRequests(_ context.Context) ([]models.AccessRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AccessRequest, len(s.requests))
	for i, r := range s.requests {
		out[i] = r.Clone()
	}
	return out, nil
}

// GetRequest 根据ID获取访问申请
func (s *MemoryStore) GetRequest(_ context.Context, id string) (*models.AccessRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOfLocked(id); i >= 0 {
		req := s.requests[i].Clone()
		return &req, nil
	}
	return nil, models.NewNotFoundError("request", id)
}

// CreateRequest 创建访问申请
func (s *MemoryStore) CreateRequest(_ context.Context, req *models.AccessRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.New().String()
	} else if s.indexOfLocked(req.ID) >= 0 {
		return fmt.Errorf("request %s already exists", req.ID)
	}

	s.requests = append(s.requests, req.Clone())
	return nil
}

// UpdateRequest 在同一把锁内读取、修改并写回访问申请
func (s *MemoryStore) UpdateRequest(_ context.Context, id string, mutate func(*models.AccessRequest) error) (*models.AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return nil, models.NewNotFoundError("request", id)
	}

	updated := s.requests[i].Clone()
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	updated.ID = id
	s.requests[i] = updated.Clone()
	return &updated, nil
}

// HealthCheck 健康检查
func (s *MemoryStore) HealthCheck(_ context.Context) error {
	return nil
}

// Close 内存存储无需关闭
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) indexOfLocked(id string) int {
	for i, r := range s.requests {
		if r.ID == id {
			return i
		}
	}
	return -1
}
