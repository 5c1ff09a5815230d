package handler

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"app-catalog-backend/pkg/config"
	"app-catalog-backend/pkg/database"
	"app-catalog-backend/pkg/handlers"
	"app-catalog-backend/pkg/logger"
	"app-catalog-backend/pkg/metrics"
	customMiddleware "app-catalog-backend/pkg/middleware"
	"app-catalog-backend/pkg/onboarding"
	"app-catalog-backend/pkg/progress"
	"app-catalog-backend/pkg/requests"
	"app-catalog-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// maxBodyBytes 请求体大小上限
const maxBodyBytes = 64 << 10

// 进程级引导标记存储，warm实例之间复用
var (
	flagStore     onboarding.FlagStore
	flagStoreOnce sync.Once
)

// 路由器缓存，存储实例不变时复用（限流器状态保存在路由器里）
var (
	routerMu     sync.Mutex
	cachedRouter http.Handler
	cachedStore  database.Store
)

// Handler 是Vercel函数的入口点
// 这个函数实现了"单体路由模式"，将所有API端点集中在一个Chi路由器中管理
func Handler(w http.ResponseWriter, r *http.Request) {
	// 加载配置
	cfg := config.GetCached()

	// 验证配置
	if err := cfg.Validate(); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Configuration error: "+err.Error())
		return
	}

	logger.Init(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// 获取缓存的存储实例
	store, err := database.GetStore(StoreConfig(cfg))
	if err != nil {
		logger.Error("store unavailable", zap.Error(err))
		utils.WriteInternalServerErrorResponse(w, "Store unavailable")
		return
	}

	routerFor(cfg, store).ServeHTTP(w, r)
}

// routerFor 获取缓存的路由器，存储重建后重新创建
func routerFor(cfg *config.Config, store database.Store) http.Handler {
	routerMu.Lock()
	defer routerMu.Unlock()

	if cachedRouter == nil || cachedStore != store {
		cachedRouter = NewRouter(cfg, store, FlagStore(cfg))
		cachedStore = store
	}
	return cachedRouter
}

// StoreConfig 从配置生成存储配置
func StoreConfig(cfg *config.Config) database.StoreConfig {
	return database.StoreConfig{
		PostgresDSN: cfg.PostgresDSN,
		RemoteURL:   cfg.RemoteURL,
		Debug:       cfg.Debug,
	}
}

// FlagStore returns the process-wide onboarding flag store: redis when
// REDIS_URL is set and reachable, memory otherwise.
func FlagStore(cfg *config.Config) onboarding.FlagStore {
	flagStoreOnce.Do(func() {
		if cfg.RedisURL != "" {
			redisStore, err := onboarding.OpenRedisFlagStore(cfg.RedisURL)
			if err == nil {
				flagStore = redisStore
				return
			}
			logger.Warn("redis unavailable, using in-memory onboarding flags", zap.Error(err))
		}
		flagStore = onboarding.NewMemoryFlagStore()
	})
	return flagStore
}

// NewRouter 创建Chi路由器并挂载全部中间件和路由
func NewRouter(cfg *config.Config, store database.Store, flags onboarding.FlagStore) *chi.Mux {
	router := chi.NewRouter()

	// 设置全局中间件
	setupMiddleware(router, cfg)

	// 设置路由
	setupRoutes(router, cfg, store, flags)

	return router
}

// setupMiddleware 设置全局中间件
func setupMiddleware(router *chi.Mux, cfg *config.Config) {
	// 基础中间件
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	// Normalize path and restore scheme/host before logging and routing
	router.Use(customMiddleware.Normalize())
	router.Use(metrics.InstrumentHandler)
	// 访客信息（可选令牌），须在请求日志之前
	router.Use(customMiddleware.ViewerMiddleware(cfg, utils.NewJWTService(cfg.ViewerTokenSecret)))
	router.Use(customMiddleware.Logger())
	router.Use(customMiddleware.Recovery(cfg))

	// CORS中间件
	router.Use(customMiddleware.CORS(cfg))

	// 超时中间件（Vercel函数有时间限制）
	router.Use(middleware.Timeout(25 * time.Second)) // 留5秒缓冲

	// 压缩中间件
	router.Use(middleware.Compress(5))

	// 开发环境额外中间件
	if cfg.IsDevelopment() {
		router.Use(middleware.Heartbeat("/ping"))
	}

	// 按IP限流
	router.Use(customMiddleware.RateLimitByIP(cfg.RateLimitPerMinute))
}

// setupRoutes 设置所有API路由
func setupRoutes(router *chi.Mux, cfg *config.Config, store database.Store, flags onboarding.FlagStore) {
	// 创建服务
	requestService := requests.NewService(store, requests.WithSubmitDelay(cfg.SubmitDelay))
	onboardingService := onboarding.NewService(flags)

	// 创建处理器
	healthHandler := handlers.NewHealthHandler(cfg, store)
	appsHandler := handlers.NewAppsHandler(cfg, store)
	requestsHandler := handlers.NewRequestsHandler(cfg, requestService)
	screensHandler := handlers.NewScreensHandler(cfg, store, onboardingService)
	onboardingHandler := handlers.NewOnboardingHandler(cfg, onboardingService)
	loadingHandler := handlers.NewLoadingHandler(progress.Default())
	viewerHandler := handlers.NewViewerHandler(cfg, utils.NewJWTService(cfg.ViewerTokenSecret))

	// 健康检查端点
	router.Get("/", healthHandler.HealthCheck)

	// Prometheus指标
	router.Handle("/metrics", metrics.Handler())

	// 存储状态端点（调试用）
	if cfg.IsDevelopment() {
		router.Get("/debug/store", func(w http.ResponseWriter, r *http.Request) {
			utils.WriteSuccessResponse(w, database.GetConnectionStats())
		})
	}

	// API路由组
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)

		// 应用目录
		r.Get("/apps", appsHandler.ListApps)
		r.Get("/apps/{id}", appsHandler.GetApp)
		r.Get("/facets", appsHandler.Facets)

		// 访问申请
		r.Route("/requests", func(r chi.Router) {
			r.Get("/", requestsHandler.ListRequests)
			r.Get("/{id}", requestsHandler.GetRequest)

			r.Group(func(r chi.Router) {
				r.Use(customMiddleware.ContentTypeJSON)
				r.Use(customMiddleware.MaxBodySize(maxBodyBytes))
				r.Post("/", requestsHandler.SubmitRequest)
				r.Patch("/{id}", requestsHandler.UpdateRequestStatus)
			})

			r.Post("/{id}/approve", requestsHandler.ApproveRequest)
			r.Post("/{id}/reject", requestsHandler.RejectRequest)
		})

		// 页面数据
		r.Route("/screens", func(r chi.Router) {
			r.Get("/catalog", screensHandler.Catalog)
			r.Get("/app/{id}", screensHandler.AppDetail)
			r.Get("/request/{id}", screensHandler.RequestForm)
			r.Get("/dashboard", screensHandler.Dashboard)
			r.Get("/admin", screensHandler.Admin)
			r.Get("/profile", screensHandler.Profile)
		})

		// 新手引导
		r.Get("/walkthrough", onboardingHandler.Walkthrough)
		r.Route("/onboarding", func(r chi.Router) {
			r.Post("/visit", onboardingHandler.Visit)
			r.Delete("/", onboardingHandler.Reset)
		})

		// 加载进度（SSE）
		r.Get("/loading", loadingHandler.Stream)

		// 访客令牌
		r.With(customMiddleware.ContentTypeJSON, customMiddleware.MaxBodySize(maxBodyBytes)).
			Post("/viewer", viewerHandler.IssueViewer)
	})

	// 404处理
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, fmt.Sprintf("Route not found: %s %s", r.Method, r.URL.Path))
	})

	// 405处理
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponseWithCode(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path), "")
	})
}
