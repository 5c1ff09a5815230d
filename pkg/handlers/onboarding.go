package handlers

import (
	"net/http"
	"strconv"

	"app-catalog-backend/pkg/config"
	"app-catalog-backend/pkg/middleware"
	"app-catalog-backend/pkg/models"
	"app-catalog-backend/pkg/onboarding"
	"app-catalog-backend/pkg/utils"
)

// OnboardingHandler 新手引导处理器
type OnboardingHandler struct {
	config  *config.Config
	service *onboarding.Service
}

// NewOnboardingHandler 创建新手引导处理器
func NewOnboardingHandler(cfg *config.Config, service *onboarding.Service) *OnboardingHandler {
	return &OnboardingHandler{
		config:  cfg,
		service: service,
	}
}

func (h *OnboardingHandler) viewerID(r *http.Request) string {
	if viewer, ok := middleware.GetViewerFromContext(r.Context()); ok {
		return viewer.ID
	}
	return middleware.DemoViewerID
}

// Walkthrough 返回全部引导步骤及游标状态
// ?step=N&action=next|previous|skip moves a cursor resumed at step N; replay=true
// selects the replay completion notice.
func (h *OnboardingHandler) Walkthrough(w http.ResponseWriter, r *http.Request) {
	step := 0
	if raw := utils.GetQueryParam(r, "step", ""); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.WriteAppError(w, models.NewValidationError("invalid walkthrough step", models.FieldErrors{
				"step": "step must be a number",
			}))
			return
		}
		step = parsed
	}

	cursor := onboarding.At(step)
	if err := cursor.Apply(utils.GetQueryParam(r, "action", "")); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"steps":          onboarding.Steps(),
		"state":          cursor.State(utils.GetQueryParam(r, "replay", "") == "true"),
		"welcomeNotice":  onboarding.WelcomeNotice(),
		"completeNotice": onboarding.ReplayNotice(),
	})
}

// Visit 记录目录页访问，首次访问时返回引导步骤
func (h *OnboardingHandler) Visit(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Visit(r.Context(), h.viewerID(r))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, result)
}

// Reset 清除访问标记
func (h *OnboardingHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context(), h.viewerID(r)); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"reset": true,
	})
}
