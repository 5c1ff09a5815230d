package onboarding

import (
	"context"
	"strings"

	"app-catalog-backend/pkg/logger"

	"go.uber.org/zap"
)

// VisitResult 首次访问检查结果
type VisitResult struct {
	ShowWalkthrough bool   `json:"showWalkthrough"`
	Steps           []Step `json:"steps,omitempty"`
}

// Service 新手引导服务
type Service struct {
	flags FlagStore
}

// NewService 创建新手引导服务
func NewService(flags FlagStore) *Service {
	return &Service{flags: flags}
}

// Visit marks the viewer as having visited and reports whether this was the first time.
func (s *Service) Visit(ctx context.Context, viewer string) (*VisitResult, error) {
	first, err := s.flags.MarkSeen(ctx, normalizeViewer(viewer))
	if err != nil {
		return nil, err
	}
	if !first {
		return &VisitResult{}, nil
	}
	logger.Debug("first catalog visit", zap.String("viewer", viewer))
	return &VisitResult{ShowWalkthrough: true, Steps: Steps()}, nil
}

// Seen 是否已访问
func (s *Service) Seen(ctx context.Context, viewer string) (bool, error) {
	return s.flags.Seen(ctx, normalizeViewer(viewer))
}

// Reset clears the flag so the next visit shows the walkthrough again.
func (s *Service) Reset(ctx context.Context, viewer string) error {
	return s.flags.Reset(ctx, normalizeViewer(viewer))
}

func normalizeViewer(viewer string) string {
	viewer = strings.TrimSpace(viewer)
	if viewer == "" {
		return "anonymous"
	}
	return viewer
}
