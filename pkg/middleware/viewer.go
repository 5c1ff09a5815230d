package middleware

import (
	"context"
	"net/http"

	"app-catalog-backend/pkg/config"
	"app-catalog-backend/pkg/logger"
	"app-catalog-backend/pkg/models"
	"app-catalog-backend/pkg/utils"

	"go.uber.org/zap"
)

// ContextKey 用于在context中存储访客信息的键
type ContextKey string

const (
	ViewerContextKey ContextKey = "viewer"
)

// DemoViewerID 未携带令牌时使用的访客ID
const DemoViewerID = "demo"

// DefaultViewer 默认演示访客
func DefaultViewer(cfg *config.Config) *models.Viewer {
	return &models.Viewer{
		ID:         DemoViewerID,
		Name:       "Demo User",
		Department: cfg.DefaultDepartment,
	}
}

// ViewerMiddleware 可选的访客令牌中间件（不强制要求令牌）
// 只用于个性化展示，令牌无效时退回默认访客
func ViewerMiddleware(cfg *config.Config, jwtService *utils.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := DefaultViewer(cfg)

			// 尝试获取Authorization头
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parsed, err := jwtService.ExtractViewer(authHeader)
				if err == nil {
					viewer = parsed
					if viewer.Department == "" {
						viewer.Department = cfg.DefaultDepartment
					}
				} else {
					logger.Debug("ignoring viewer token", zap.Error(err))
				}
			}

			ctx := context.WithValue(r.Context(), ViewerContextKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetViewerFromContext 从context中获取访客信息
func GetViewerFromContext(ctx context.Context) (*models.Viewer, bool) {
	viewer, ok := ctx.Value(ViewerContextKey).(*models.Viewer)
	return viewer, ok && viewer != nil
}

// WithViewer 把访客放入context
func WithViewer(ctx context.Context, viewer *models.Viewer) context.Context {
	return context.WithValue(ctx, ViewerContextKey, viewer)
}
