package handlers

import (
	"net/http"

	"app-catalog-backend/pkg/config"
	"app-catalog-backend/pkg/models"
	"app-catalog-backend/pkg/requests"
	"app-catalog-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// RequestsHandler 访问申请处理器
type RequestsHandler struct {
	config  *config.Config
	service *requests.Service
}

// NewRequestsHandler 创建访问申请处理器
func NewRequestsHandler(cfg *config.Config, service *requests.Service) *RequestsHandler {
	return &RequestsHandler{
		config:  cfg,
		service: service,
	}
}

// UpdateRequestStatusRequest 审批请求体
type UpdateRequestStatusRequest struct {
	Status models.RequestStatus `json:"status"`
}

// ListRequests 获取申请列表，可按status筛选
func (h *RequestsHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	status := models.RequestStatus(utils.GetQueryParam(r, "status", ""))

	list, err := h.service.List(r.Context(), status)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"requests": list,
		"count":    len(list),
	})
}

// GetRequest 获取单个申请
func (h *RequestsHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"request": req,
	})
}

// SubmitRequest 提交访问申请
func (h *RequestsHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var input requests.SubmitInput
	if err := utils.ParseJSONBody(r, &input); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	result, err := h.service.Submit(r.Context(), input)
	if err != nil {
		if r.Context().Err() != nil {
			// 客户端已断开，不再写响应
			return
		}
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteCreatedResponse(w, result)
}

// UpdateRequestStatus 批准或拒绝申请
func (h *RequestsHandler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	var body UpdateRequestStatusRequest
	if err := utils.ParseJSONBody(r, &body); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	result, err := h.service.Decide(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, result)
}

// ApproveRequest 批准申请
func (h *RequestsHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.RequestApproved)
}

// RejectRequest 拒绝申请
func (h *RequestsHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.RequestRejected)
}

func (h *RequestsHandler) decide(w http.ResponseWriter, r *http.Request, target models.RequestStatus) {
	result, err := h.service.Decide(r.Context(), chi.URLParam(r, "id"), target)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, result)
}
