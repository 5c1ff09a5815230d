package handlers

import (
	"net/http"

	"app-catalog-backend/pkg/catalog"
	"app-catalog-backend/pkg/config"
	"app-catalog-backend/pkg/database"
	"app-catalog-backend/pkg/models"
	"app-catalog-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// AppsHandler 应用目录处理器
type AppsHandler struct {
	config *config.Config
	store  database.Store
}

// NewAppsHandler 创建应用目录处理器
func NewAppsHandler(cfg *config.Config, store database.Store) *AppsHandler {
	return &AppsHandler{
		config: cfg,
		store:  store,
	}
}

// listing is the filtered catalog plus the "Showing N of M applications" counts.
type listing struct {
	Apps              []models.App        `json:"apps"`
	Shown             int                 `json:"shown"`
	Total             int                 `json:"total"`
	Filters           catalog.FilterState `json:"filters"`
	ActiveFilterCount int                 `json:"activeFilterCount"`
}

func buildListing(apps []models.App, r *http.Request) listing {
	state := catalog.ParseFilterState(r.URL.Query())
	filtered := catalog.Filter(apps, state)
	return listing{
		Apps:              filtered,
		Shown:             len(filtered),
		Total:             len(apps),
		Filters:           state,
		ActiveFilterCount: state.ActiveCount(),
	}
}

// alreadyAvailableNotice 已有访问权限时的提示
func alreadyAvailableNotice() *models.Notice {
	return &models.Notice{
		Title:       "Already Available",
		Description: "You already have access to this application.",
		Variant:     models.NoticeDefault,
	}
}

// ListApps 按查询参数筛选应用
func (h *AppsHandler) ListApps(w http.ResponseWriter, r *http.Request) {
	apps, err := h.store.ListApps(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, buildListing(apps, r))
}

// GetApp 获取应用详情
func (h *AppsHandler) GetApp(w http.ResponseWriter, r *http.Request) {
	writeAppDetail(w, r, h.store)
}

// writeAppDetail writes the app named by the {id} URL param, with the
// "Already Available" notice when the viewer can already use it.
func writeAppDetail(w http.ResponseWriter, r *http.Request, store database.Store) {
	app, err := store.GetApp(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	response := map[string]interface{}{
		"app":        app,
		"canRequest": !app.IsAvailable(),
	}
	if app.IsAvailable() {
		response["notice"] = alreadyAvailableNotice()
	}
	utils.WriteSuccessResponse(w, response)
}

// Facets 筛选栏选项及计数
func (h *AppsHandler) Facets(w http.ResponseWriter, r *http.Request) {
	apps, err := h.store.ListApps(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, catalog.BuildFacets(apps))
}
