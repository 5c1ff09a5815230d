package handlers

import (
	"net/http"
	"strings"

	"app-catalog-backend/pkg/catalog"
	"app-catalog-backend/pkg/config"
	"app-catalog-backend/pkg/models"
	"app-catalog-backend/pkg/utils"
)

// ViewerHandler 访客令牌处理器
type ViewerHandler struct {
	config     *config.Config
	jwtService *utils.JWTService
}

// NewViewerHandler 创建访客令牌处理器
func NewViewerHandler(cfg *config.Config, jwtService *utils.JWTService) *ViewerHandler {
	return &ViewerHandler{
		config:     cfg,
		jwtService: jwtService,
	}
}

// IssueViewerRequest 访客令牌请求体
type IssueViewerRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
}

// IssueViewer issues a personalization token. It does not authenticate anyone.
func (h *ViewerHandler) IssueViewer(w http.ResponseWriter, r *http.Request) {
	var body IssueViewerRequest
	if err := utils.ParseJSONBody(r, &body); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	name := strings.TrimSpace(body.Name)
	department := strings.TrimSpace(body.Department)
	if department == "" {
		department = h.config.DefaultDepartment
	}

	fields := models.FieldErrors{}
	if name == "" {
		fields["name"] = "Please enter your name."
	}
	if !catalog.IsDepartment(department) {
		fields["department"] = "Unknown department."
	}
	if len(fields) > 0 {
		utils.WriteAppError(w, models.NewValidationError("Invalid viewer details", fields))
		return
	}

	id, err := utils.NewViewerID()
	if err != nil {
		utils.WriteAppError(w, models.NewInternalError(err))
		return
	}

	viewer := &models.Viewer{ID: id, Name: name, Department: department}
	token, expiresAt, err := h.jwtService.GenerateViewerToken(viewer)
	if err != nil {
		utils.WriteAppError(w, models.NewInternalError(err))
		return
	}

	utils.WriteCreatedResponse(w, map[string]interface{}{
		"viewer":    viewer,
		"token":     token,
		"expiresAt": expiresAt,
	})
}
