package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"app-catalog-backend/pkg/catalog"
	"app-catalog-backend/pkg/config"
	"app-catalog-backend/pkg/database"
	"app-catalog-backend/pkg/logger"
	"app-catalog-backend/pkg/models"
	"app-catalog-backend/pkg/onboarding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

type requestResult struct {
	Request models.AccessRequest `json:"request"`
	Notice  models.Notice        `json:"notice"`
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:       "test",
		Port:              "3000",
		ViewerTokenSecret: "test-secret",
		DefaultDepartment: "Engineering",
		AllowedOrigins:    []string{"*"},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *database.MemoryStore) {
	t.Helper()
	store := database.NewMemoryStore()
	return NewRouter(testConfig(), store, onboarding.NewMemoryFlagStore()), store
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func validSubmission(appID string) map[string]string {
	return map[string]string{
		"appId":      appID,
		"department": "Sales",
		"reason":     "Need access to track the quarterly pipeline",
	}
}

func TestRouter_HealthCheck(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, path := range []string{"/", "/api/health"} {
		rec, env := do(t, h, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		var data map[string]interface{}
		decodeData(t, env, &data)
		assert.Equal(t, "memory", data["store"])
		assert.Equal(t, "healthy", data["store_status"])
	}
}

func TestRouter_ListAppsFiltersByQuery(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := do(t, h, http.MethodGet, "/api/apps?q=git", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Apps  []models.App `json:"apps"`
		Shown int          `json:"shown"`
		Total int          `json:"total"`
	}
	decodeData(t, env, &data)
	require.Len(t, data.Apps, 1)
	assert.Equal(t, "GitHub", data.Apps[0].Name)
	assert.Equal(t, 1, data.Shown)
	assert.Equal(t, len(catalog.SeedApps()), data.Total)
}

func TestRouter_GetAppNoticeWhenAvailable(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := do(t, h, http.MethodGet, "/api/apps/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		CanRequest bool           `json:"canRequest"`
		Notice     *models.Notice `json:"notice"`
	}
	decodeData(t, env, &data)
	assert.False(t, data.CanRequest)
	require.NotNil(t, data.Notice)
	assert.Equal(t, "Already Available", data.Notice.Title)

	rec, env = do(t, h, http.MethodGet, "/api/apps/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data.Notice = nil
	decodeData(t, env, &data)
	assert.True(t, data.CanRequest)
	assert.Nil(t, data.Notice)
}

func TestRouter_UnknownAppIs404(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := do(t, h, http.MethodGet, "/api/apps/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, models.CodeNotFound, env.Error.Code)
}

func TestRouter_SubmitValidation(t *testing.T) {
	h, store := newTestRouter(t)
	before, _ := store.ListRequests(context.Background())

	body := map[string]string{"appId": "4", "department": "", "reason": "too short"}
	rec, env := do(t, h, http.MethodPost, "/api/requests", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, models.CodeValidation, env.Error.Code)
	assert.Contains(t, env.Error.Fields, "reason")
	assert.Contains(t, env.Error.Fields, "department")

	after, _ := store.ListRequests(context.Background())
	assert.Len(t, after, len(before))
}

func TestRouter_SubmitRequiresJSON(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/requests", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SubmitApproveLifecycle(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := do(t, h, http.MethodPost, "/api/requests", validSubmission("4"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created requestResult
	decodeData(t, env, &created)
	assert.Equal(t, models.RequestPending, created.Request.Status)
	assert.Equal(t, "Salesforce", created.Request.AppName)
	assert.Equal(t, "Request Submitted!", created.Notice.Title)
	require.NotEmpty(t, created.Request.ID)

	path := "/api/requests/" + created.Request.ID
	rec, env = do(t, h, http.MethodPatch, path, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	var approved requestResult
	decodeData(t, env, &approved)
	assert.Equal(t, models.RequestApproved, approved.Request.Status)
	assert.NotNil(t, approved.Request.ApprovedDate)
	assert.Equal(t, "Request Approved", approved.Notice.Title)

	// 终态不能再改
	rec, env = do(t, h, http.MethodPatch, path, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, models.CodeInvalidTransition, env.Error.Code)

	rec, env = do(t, h, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched struct {
		Request models.AccessRequest `json:"request"`
	}
	decodeData(t, env, &fetched)
	assert.Equal(t, models.RequestApproved, fetched.Request.Status)
}

func TestRouter_RejectShortcut(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := do(t, h, http.MethodPost, "/api/requests/1/reject", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result requestResult
	decodeData(t, env, &result)
	assert.Equal(t, models.RequestRejected, result.Request.Status)
	assert.Nil(t, result.Request.ApprovedDate)
	assert.Equal(t, models.NoticeDestructive, result.Notice.Variant)
}

func TestRouter_PatchRejectsNonTerminalTarget(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := do(t, h, http.MethodPatch, "/api/requests/1", map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "status")
}

func TestRouter_ListRequestsByStatus(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := do(t, h, http.MethodGet, "/api/requests?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Requests []models.AccessRequest `json:"requests"`
		Count    int                    `json:"count"`
	}
	decodeData(t, env, &data)
	assert.Equal(t, 1, data.Count)
	assert.Equal(t, "1", data.Requests[0].ID)

	rec, _ = do(t, h, http.MethodGet, "/api/requests?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_DashboardUsesViewerDepartment(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := do(t, h, http.MethodPost, "/api/viewer", map[string]string{"name": "Ada", "department": "Marketing"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var issued struct {
		Token  string        `json:"token"`
		Viewer models.Viewer `json:"viewer"`
	}
	decodeData(t, env, &issued)
	require.NotEmpty(t, issued.Token)

	rec, env = do(t, h, http.MethodGet, "/api/screens/dashboard", nil, "Authorization", "Bearer "+issued.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Viewer      models.Viewer          `json:"viewer"`
		Recommended []models.App           `json:"recommended"`
		Stats       catalog.DashboardStats `json:"stats"`
	}
	decodeData(t, env, &data)
	assert.Equal(t, "Marketing", data.Viewer.Department)
	assert.Equal(t, catalog.Recommended(catalog.SeedApps(), "Marketing"), data.Recommended)
	assert.Equal(t, catalog.ComputeDashboardStats(catalog.SeedApps(), catalog.SeedRequests()), data.Stats)
}

func TestRouter_AdminStats(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := do(t, h, http.MethodGet, "/api/screens/admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Stats catalog.AdminStats `json:"stats"`
	}
	decodeData(t, env, &data)
	assert.Equal(t, 1, data.Stats.PendingRequests)
	assert.Equal(t, len(catalog.SeedApps()), data.Stats.TotalApps)
}

func TestRouter_OnboardingFirstVisitOnly(t *testing.T) {
	h, _ := newTestRouter(t)

	var visit onboarding.VisitResult
	_, env := do(t, h, http.MethodPost, "/api/onboarding/visit", nil)
	decodeData(t, env, &visit)
	assert.True(t, visit.ShowWalkthrough)
	assert.Len(t, visit.Steps, len(onboarding.Steps()))

	visit = onboarding.VisitResult{}
	_, env = do(t, h, http.MethodPost, "/api/onboarding/visit", nil)
	decodeData(t, env, &visit)
	assert.False(t, visit.ShowWalkthrough)

	_, env = do(t, h, http.MethodGet, "/api/screens/catalog", nil)
	var screen struct {
		HasVisited bool `json:"hasVisited"`
	}
	decodeData(t, env, &screen)
	assert.True(t, screen.HasVisited)

	rec, _ := do(t, h, http.MethodDelete, "/api/onboarding", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, env = do(t, h, http.MethodPost, "/api/onboarding/visit", nil)
	decodeData(t, env, &visit)
	assert.True(t, visit.ShowWalkthrough)
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := do(t, h, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)

	rec, env = do(t, h, http.MethodPut, "/api/apps", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "METHOD_NOT_ALLOWED", env.Error.Code)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)
	do(t, h, http.MethodGet, "/api/apps", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app_catalog_http_requests_total")
}

// A router backed by RemoteStore must behave like the upstream it proxies.
func TestRouter_RemoteStoreAgainstUpstream(t *testing.T) {
	upstreamStore := database.NewMemoryStore()
	upstream := httptest.NewServer(NewRouter(testConfig(), upstreamStore, onboarding.NewMemoryFlagStore()))
	defer upstream.Close()

	remote := database.NewRemoteStore(upstream.URL)
	h := NewRouter(testConfig(), remote, onboarding.NewMemoryFlagStore())

	rec, env := do(t, h, http.MethodPost, "/api/requests", validSubmission("8"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created requestResult
	decodeData(t, env, &created)

	stored, err := upstreamStore.GetRequest(context.Background(), created.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, stored.Status)

	rec, _ = do(t, h, http.MethodPatch, "/api/requests/"+created.Request.ID, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, h, http.MethodPatch, "/api/requests/"+created.Request.ID, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, models.CodeInvalidTransition, env.Error.Code)

	rec, _ = do(t, h, http.MethodGet, "/api/apps/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = do(t, h, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]interface{}
	decodeData(t, env, &health)
	assert.Equal(t, "remote", health["store"])
}

func TestRouter_WalkthroughCursor(t *testing.T) {
	h, _ := newTestRouter(t)

	type walkthroughData struct {
		Steps []onboarding.Step `json:"steps"`
		State onboarding.State  `json:"state"`
	}

	_, env := do(t, h, http.MethodGet, "/api/walkthrough", nil)
	var data walkthroughData
	decodeData(t, env, &data)
	assert.Len(t, data.Steps, 8)
	assert.Equal(t, 0, data.State.Index)
	assert.Equal(t, "welcome", data.State.Current.ID)
	assert.False(t, data.State.Done)

	data = walkthroughData{}
	_, env = do(t, h, http.MethodGet, "/api/walkthrough?step=2&action=previous", nil)
	decodeData(t, env, &data)
	assert.Equal(t, 1, data.State.Index)
	assert.Equal(t, "search", data.State.Current.ID)
	assert.Nil(t, data.State.Notice)

	data = walkthroughData{}
	_, env = do(t, h, http.MethodGet, "/api/walkthrough?step=7&action=next", nil)
	decodeData(t, env, &data)
	assert.True(t, data.State.Done)
	require.NotNil(t, data.State.Notice)
	assert.Equal(t, "Welcome to Zluri!", data.State.Notice.Title)

	data = walkthroughData{}
	_, env = do(t, h, http.MethodGet, "/api/walkthrough?step=3&action=skip&replay=true", nil)
	decodeData(t, env, &data)
	assert.True(t, data.State.Done)
	require.NotNil(t, data.State.Notice)
	assert.Equal(t, "Walkthrough Complete!", data.State.Notice.Title)

	rec, env := do(t, h, http.MethodGet, "/api/walkthrough?action=jump", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "action")

	rec, _ = do(t, h, http.MethodGet, "/api/walkthrough?step=two", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RequestLogCarriesViewer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	h, _ := newTestRouter(t)
	rec, env := do(t, h, http.MethodPost, "/api/viewer", map[string]string{"name": "Lin", "department": "Design"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var issued struct {
		Token  string        `json:"token"`
		Viewer models.Viewer `json:"viewer"`
	}
	decodeData(t, env, &issued)

	do(t, h, http.MethodGet, "/api/screens/profile", nil, "Authorization", "Bearer "+issued.Token)

	entries := logs.FilterMessage("request").FilterField(zap.String("path", "/api/screens/profile")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, issued.Viewer.ID, entries[0].ContextMap()["viewer"])
}

func TestRouter_AppDetailScreenMatchesAppEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, id := range []string{"1", "4"} {
		_, api := do(t, h, http.MethodGet, "/api/apps/"+id, nil)
		_, screen := do(t, h, http.MethodGet, "/api/screens/app/"+id, nil)
		assert.JSONEq(t, string(api.Data), string(screen.Data), id)
	}

	rec, _ := do(t, h, http.MethodGet, "/api/screens/app/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
