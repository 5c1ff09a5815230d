package handlers

import (
	"net/http"

	"app-catalog-backend/pkg/catalog"
	"app-catalog-backend/pkg/config"
	"app-catalog-backend/pkg/database"
	"app-catalog-backend/pkg/logger"
	"app-catalog-backend/pkg/middleware"
	"app-catalog-backend/pkg/models"
	"app-catalog-backend/pkg/onboarding"
	"app-catalog-backend/pkg/requests"
	"app-catalog-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ScreensHandler 页面数据处理器，每个接口返回一个页面需要的全部数据
type ScreensHandler struct {
	config     *config.Config
	store      database.Store
	onboarding *onboarding.Service
}

// NewScreensHandler 创建页面数据处理器
func NewScreensHandler(cfg *config.Config, store database.Store, onboardingService *onboarding.Service) *ScreensHandler {
	return &ScreensHandler{
		config:     cfg,
		store:      store,
		onboarding: onboardingService,
	}
}

func (h *ScreensHandler) viewer(r *http.Request) *models.Viewer {
	if viewer, ok := middleware.GetViewerFromContext(r.Context()); ok {
		return viewer
	}
	return middleware.DefaultViewer(h.config)
}

// Catalog 应用目录页
func (h *ScreensHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	apps, err := h.store.ListApps(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	viewer := h.viewer(r)
	visited, err := h.onboarding.Seen(r.Context(), viewer.ID)
	if err != nil {
		// 引导标记不可用时不影响目录展示
		logger.Warn("onboarding flag lookup failed", zap.String("viewer", viewer.ID), zap.Error(err))
		visited = true
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"listing":    buildListing(apps, r),
		"facets":     catalog.BuildFacets(apps),
		"hasVisited": visited,
	})
}

// AppDetail 应用详情页
func (h *ScreensHandler) AppDetail(w http.ResponseWriter, r *http.Request) {
	writeAppDetail(w, r, h.store)
}

// RequestForm 申请表单页
func (h *ScreensHandler) RequestForm(w http.ResponseWriter, r *http.Request) {
	app, err := h.store.GetApp(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"app":               app,
		"canRequest":        !app.IsAvailable(),
		"departments":       catalog.Departments,
		"features":          app.Features,
		"minReasonLength":   requests.MinReasonLength,
		"defaultDepartment": h.viewer(r).Department,
	})
}

// Dashboard 个人仪表盘
func (h *ScreensHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	apps, err := h.store.ListApps(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	reqs, err := h.store.ListRequests(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	viewer := h.viewer(r)
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"viewer":      viewer,
		"myApps":      catalog.MyApps(apps),
		"requests":    reqs,
		"recommended": catalog.Recommended(apps, viewer.Department),
		"stats":       catalog.ComputeDashboardStats(apps, reqs),
	})
}

// Admin 管理后台
func (h *ScreensHandler) Admin(w http.ResponseWriter, r *http.Request) {
	apps, err := h.store.ListApps(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	reqs, err := h.store.ListRequests(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"requests": reqs,
		"apps":     apps,
		"stats":    catalog.ComputeAdminStats(apps, reqs),
	})
}

// Profile 当前访客信息
func (h *ScreensHandler) Profile(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"viewer": h.viewer(r),
	})
}
