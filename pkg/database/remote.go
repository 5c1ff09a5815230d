package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"app-catalog-backend/pkg/models"
)

// RemoteStore 通过HTTP访问另一个目录服务的存储实现
type RemoteStore struct {
	baseURL    string
	httpClient *http.Client
}

var _ Store = (*RemoteStore)(nil)

// remoteEnvelope mirrors the {success, data, error} wrapper written by the handlers.
type remoteEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string             `json:"code"`
		Message string             `json:"message"`
		Details string             `json:"details"`
		Fields  models.FieldErrors `json:"fields"`
	} `json:"error"`
}

// NewRemoteStore 创建远程存储实例
func NewRemoteStore(baseURL string) *RemoteStore {
	return NewRemoteStoreWithClient(baseURL, &http.Client{
		Timeout: 30 * time.Second,
	})
}

// NewRemoteStoreWithClient 使用指定的HTTP客户端创建远程存储
func NewRemoteStoreWithClient(baseURL string, client *http.Client) *RemoteStore {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	// 确保URL格式正确
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = "https://" + baseURL
	}
	return &RemoteStore{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// makeRequest 发送HTTP请求并把data字段解码到out
func (s *RemoteStore) makeRequest(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+"/api"+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var envelope remoteEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !envelope.Success {
		return remoteError(resp.StatusCode, &envelope)
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// remoteError 把远程错误还原为本地错误码
func remoteError(status int, envelope *remoteEnvelope) error {
	if envelope.Error == nil {
		return fmt.Errorf("API request failed with status %d", status)
	}
	switch envelope.Error.Code {
	case models.CodeValidation, models.CodeNotFound, models.CodeInvalidTransition:
		return &models.AppError{
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
			Fields:  envelope.Error.Fields,
		}
	}
	return fmt.Errorf("API request failed with status %d: %s", status, envelope.Error.Message)
}

// ListApps 列出所有应用
func (s *RemoteStore) ListApps(ctx context.Context) ([]models.App, error) {
	var data struct {
		Apps []models.App `json:"apps"`
	}
	if err := s.makeRequest(ctx, http.MethodGet, "/apps", nil, &data); err != nil {
		return nil, err
	}
	if data.Apps == nil {
		data.Apps = []models.App{}
	}
	return data.Apps, nil
}

// GetApp 根据ID获取应用
func (s *RemoteStore) GetApp(ctx context.Context, id string) (*models.App, error) {
	var data struct {
		App *models.App `json:"app"`
	}
	if err := s.makeRequest(ctx, http.MethodGet, "/apps/"+url.PathEscape(id), nil, &data); err != nil {
		return nil, err
	}
	if data.App == nil {
		return nil, models.NewNotFoundError("app", id)
	}
	return data.App, nil
}

// ListRequests 列出所有访问申请
func (s *RemoteStore) ListRequests(ctx context.Context) ([]models.AccessRequest, error) {
	var data struct {
		Requests []models.AccessRequest `json:"requests"`
	}
	if err := s.makeRequest(ctx, http.MethodGet, "/requests", nil, &data); err != nil {
		return nil, err
	}
	if data.Requests == nil {
		data.Requests = []models.AccessRequest{}
	}
	return data.Requests, nil
}

// GetRequest 根据ID获取访问申请
func (s *RemoteStore) GetRequest(ctx context.Context, id string) (*models.AccessRequest, error) {
	var data struct {
		Request *models.AccessRequest `json:"request"`
	}
	if err := s.makeRequest(ctx, http.MethodGet, "/requests/"+url.PathEscape(id), nil, &data); err != nil {
		return nil, err
	}
	if data.Request == nil {
		return nil, models.NewNotFoundError("request", id)
	}
	return data.Request, nil
}

// CreateRequest 提交访问申请，远程服务负责分配ID和日期
func (s *RemoteStore) CreateRequest(ctx context.Context, req *models.AccessRequest) error {
	body := map[string]string{
		"appId":      req.AppID,
		"department": req.Department,
		"reason":     req.Reason,
	}
	var data struct {
		Request *models.AccessRequest `json:"request"`
	}
	if err := s.makeRequest(ctx, http.MethodPost, "/requests", body, &data); err != nil {
		return err
	}
	if data.Request == nil {
		return fmt.Errorf("remote store returned no request")
	}
	*req = *data.Request
	return nil
}

// UpdateRequest 读取远程申请，在本地应用修改后把新状态写回
// 远程服务同样会校验状态转换，所以并发修改最终只会有一个成功
func (s *RemoteStore) UpdateRequest(ctx context.Context, id string, mutate func(*models.AccessRequest) error) (*models.AccessRequest, error) {
	current, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	if updated.Status == current.Status {
		return &updated, nil
	}

	var data struct {
		Request *models.AccessRequest `json:"request"`
	}
	body := map[string]string{"status": string(updated.Status)}
	if err := s.makeRequest(ctx, http.MethodPatch, "/requests/"+url.PathEscape(id), body, &data); err != nil {
		return nil, err
	}
	if data.Request == nil {
		return nil, fmt.Errorf("remote store returned no request")
	}
	return data.Request, nil
}

// HealthCheck 健康检查
func (s *RemoteStore) HealthCheck(ctx context.Context) error {
	return s.makeRequest(ctx, http.MethodGet, "/health", nil, nil)
}

// Close 关闭空闲连接
func (s *RemoteStore) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}
