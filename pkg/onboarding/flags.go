package onboarding

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// FlagStore remembers which viewers have already seen the catalog.
type FlagStore interface {
	Seen(ctx context.Context, viewer string) (bool, error)
	// MarkSeen sets the flag and reports whether it was newly set.
	MarkSeen(ctx context.Context, viewer string) (bool, error)
	Reset(ctx context.Context, viewer string) error
}

// MemoryFlagStore 进程内的访问标记
type MemoryFlagStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewMemoryFlagStore 创建内存访问标记存储
func NewMemoryFlagStore() *MemoryFlagStore {
	return &MemoryFlagStore{seen: make(map[string]bool)}
}

func (s *MemoryFlagStore) Seen(_ context.Context, viewer string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[viewer], nil
}

func (s *MemoryFlagStore) MarkSeen(_ context.Context, viewer string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[viewer] {
		return false, nil
	}
	s.seen[viewer] = true
	return true, nil
}

func (s *MemoryFlagStore) Reset(_ context.Context, viewer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, viewer)
	return nil
}

// KeyPrefix Redis键前缀
const KeyPrefix = "app-catalog:visited:"

// RedisFlagStore 基于Redis的访问标记，标记不过期，只能显式重置
type RedisFlagStore struct {
	client *redis.Client
}

// NewRedisFlagStore 使用已有客户端创建标记存储
func NewRedisFlagStore(client *redis.Client) *RedisFlagStore {
	return &RedisFlagStore{client: client}
}

// OpenRedisFlagStore connects to addr (a redis:// URL or host:port) and pings it.
func OpenRedisFlagStore(addr string) (*RedisFlagStore, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisFlagStore(client), nil
}

func key(viewer string) string {
	return KeyPrefix + viewer
}

func (s *RedisFlagStore) Seen(ctx context.Context, viewer string) (bool, error) {
	n, err := s.client.Exists(ctx, key(viewer)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read visited flag: %w", err)
	}
	return n > 0, nil
}

func (s *RedisFlagStore) MarkSeen(ctx context.Context, viewer string) (bool, error) {
	created, err := s.client.SetNX(ctx, key(viewer), "true", 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set visited flag: %w", err)
	}
	return created, nil
}

func (s *RedisFlagStore) Reset(ctx context.Context, viewer string) error {
	if err := s.client.Del(ctx, key(viewer)).Err(); err != nil {
		return fmt.Errorf("failed to reset visited flag: %w", err)
	}
	return nil
}

// Close 关闭Redis连接
func (s *RedisFlagStore) Close() error {
	return s.client.Close()
}
