package requests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"app-catalog-backend/pkg/catalog"
	"app-catalog-backend/pkg/database"
	"app-catalog-backend/pkg/logger"
	"app-catalog-backend/pkg/metrics"
	"app-catalog-backend/pkg/models"

	"go.uber.org/zap"
)

// MinReasonLength 申请理由的最少字符数
const MinReasonLength = 20

// DefaultSubmitDelay 模拟提交耗时
const DefaultSubmitDelay = 1500 * time.Millisecond

// SubmitInput 申请表单
type SubmitInput struct {
	AppID      string `json:"appId"`
	Department string `json:"department"`
	Reason     string `json:"reason"`
}

// Result 操作结果及给用户的提示
type Result struct {
	Request *models.AccessRequest `json:"request"`
	Notice  models.Notice         `json:"notice"`
}

// Service 访问申请服务
type Service struct {
	store       database.Store
	submitDelay time.Duration
	now         func() time.Time
}

// Option 服务选项
type Option func(*Service)

// WithSubmitDelay overrides the simulated submission latency.
func WithSubmitDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.submitDelay = d
		}
	}
}

// WithClock replaces time.Now, used to stamp request and approval dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService 创建访问申请服务
func NewService(store database.Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		submitDelay: DefaultSubmitDelay,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks the form without touching the store.
func Validate(input SubmitInput) error {
	fields := models.FieldErrors{}

	if strings.TrimSpace(input.AppID) == "" {
		fields["appId"] = "Please choose an application."
	}

	department := strings.TrimSpace(input.Department)
	switch {
	case department == "":
		fields["department"] = "Please select your department."
	case !catalog.IsDepartment(department):
		fields["department"] = fmt.Sprintf("Unknown department %q.", department)
	}

	// 空白理由视为未填写，长度按原文计算
	switch {
	case strings.TrimSpace(input.Reason) == "":
		fields["reason"] = "Please provide a reason for your request."
	case len([]rune(input.Reason)) < MinReasonLength:
		fields["reason"] = fmt.Sprintf("Please provide at least %d characters.", MinReasonLength)
	}

	if len(fields) > 0 {
		return models.NewValidationError("Please provide a reason and select your department.", fields)
	}
	return nil
}

// Submit validates the form, waits the simulated latency and stores a pending request.
// Nothing is stored when validation fails or ctx is cancelled during the wait.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*Result, error) {
	if err := Validate(input); err != nil {
		metrics.RecordTransition("submit", models.CodeValidation)
		return nil, err
	}

	app, err := s.store.GetApp(ctx, strings.TrimSpace(input.AppID))
	if err != nil {
		metrics.RecordTransition("submit", errorCode(err))
		return nil, err
	}

	if err := s.wait(ctx); err != nil {
		metrics.RecordTransition("submit", "CANCELLED")
		logger.Info("request submission cancelled", zap.String("app_id", app.ID), zap.Error(err))
		return nil, err
	}

	req := &models.AccessRequest{
		AppID:       app.ID,
		AppName:     app.Name,
		Reason:      input.Reason,
		Department:  strings.TrimSpace(input.Department),
		Status:      models.RequestPending,
		RequestDate: models.Today(s.now()),
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		metrics.RecordTransition("submit", errorCode(err))
		return nil, err
	}

	metrics.RecordTransition("submit", "")
	logger.Info("access request submitted",
		zap.String("request_id", req.ID),
		zap.String("app_id", req.AppID),
		zap.String("department", req.Department))

	return &Result{
		Request: req,
		Notice: models.Notice{
			Title:       "Request Submitted!",
			Description: fmt.Sprintf("Your access request for %s has been submitted for review.", app.Name),
			Variant:     models.NoticeDefault,
		},
	}, nil
}

// Approve 批准申请
func (s *Service) Approve(ctx context.Context, id string) (*Result, error) {
	return s.Decide(ctx, id, models.RequestApproved)
}

// Reject 拒绝申请
func (s *Service) Reject(ctx context.Context, id string) (*Result, error) {
	return s.Decide(ctx, id, models.RequestRejected)
}

// Decide applies an admin decision. The pending check and the write happen atomically in the store.
func (s *Service) Decide(ctx context.Context, id string, target models.RequestStatus) (*Result, error) {
	action := actionFor(target)
	now := s.now()

	updated, err := s.store.UpdateRequest(ctx, id, func(req *models.AccessRequest) error {
		return Transition(req, target, now)
	})
	if err != nil {
		metrics.RecordTransition(action, errorCode(err))
		if models.IsCode(err, models.CodeInvalidTransition) {
			logger.Warn("request transition refused", zap.String("request_id", id), zap.String("target", string(target)))
		}
		return nil, err
	}

	metrics.RecordTransition(action, "")
	logger.Info("access request decided",
		zap.String("request_id", updated.ID),
		zap.String("status", string(updated.Status)))

	return &Result{Request: updated, Notice: decisionNotice(updated)}, nil
}

// Get 获取单个申请
func (s *Service) Get(ctx context.Context, id string) (*models.AccessRequest, error) {
	return s.store.GetRequest(ctx, id)
}

// List returns all requests, optionally narrowed to one status.
func (s *Service) List(ctx context.Context, status models.RequestStatus) ([]models.AccessRequest, error) {
	if status != "" && !status.Valid() {
		return nil, models.NewValidationError("invalid status filter", models.FieldErrors{
			"status": "status must be pending, approved or rejected",
		})
	}
	all, err := s.store.ListRequests(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.FilterRequests(all, status), nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.submitDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.submitDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func decisionNotice(req *models.AccessRequest) models.Notice {
	if req.IsApproved() {
		return models.Notice{
			Title:       "Request Approved",
			Description: fmt.Sprintf("Access to %s has been approved.", req.AppName),
			Variant:     models.NoticeDefault,
		}
	}
	return models.Notice{
		Title:       "Request Rejected",
		Description: fmt.Sprintf("Access to %s has been rejected.", req.AppName),
		Variant:     models.NoticeDestructive,
	}
}

func actionFor(target models.RequestStatus) string {
	switch target {
	case models.RequestApproved:
		return "approve"
	case models.RequestRejected:
		return "reject"
	}
	return "update"
}

func errorCode(err error) string {
	for _, code := range []string{models.CodeValidation, models.CodeNotFound, models.CodeInvalidTransition} {
		if models.IsCode(err, code) {
			return code
		}
	}
	return models.CodeInternal
}
