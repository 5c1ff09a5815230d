package database

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"app-catalog-backend/pkg/catalog"
	"app-catalog-backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func writeEnvelopeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   map[string]interface{}{"code": code, "message": message, "fields": map[string]string{"reason": "too short"}},
	})
}

func TestRemoteStore_ListAndGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/apps":
			writeEnvelope(w, http.StatusOK, map[string]interface{}{"apps": catalog.SeedApps(), "shown": 8, "total": 8})
		case "/api/apps/2":
			writeEnvelope(w, http.StatusOK, map[string]interface{}{"app": catalog.SeedApps()[1], "canRequest": false})
		case "/api/requests":
			writeEnvelope(w, http.StatusOK, map[string]interface{}{"requests": catalog.SeedRequests(), "count": 3})
		default:
			writeEnvelopeError(w, http.StatusNotFound, models.CodeNotFound, "not found")
		}
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.URL + "/")
	ctx := context.Background()

	apps, err := store.ListApps(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.SeedApps(), apps)

	app, err := store.GetApp(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "GitHub", app.Name)

	requests, err := store.ListRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.SeedRequests(), requests)

	_, err = store.GetRequest(ctx, "missing")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestRemoteStore_CreateCopiesServerResult(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/requests", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeEnvelope(w, http.StatusCreated, map[string]interface{}{
			"request": models.AccessRequest{
				ID: "abc", AppID: body["appId"], AppName: "Figma", Reason: body["reason"],
				Department: body["department"], Status: models.RequestPending,
				RequestDate: models.MustParseDate("2024-02-01"),
			},
		})
	}))
	defer srv.Close()

	req := &models.AccessRequest{AppID: "6", Department: "Design", Reason: "Prototyping the onboarding redesign"}
	require.NoError(t, NewRemoteStore(srv.URL).CreateRequest(context.Background(), req))
	assert.Equal(t, "abc", req.ID)
	assert.Equal(t, "Figma", req.AppName)
	assert.Equal(t, map[string]string{"appId": "6", "department": "Design", "reason": "Prototyping the onboarding redesign"}, body)
}

func TestRemoteStore_ValidationErrorKeepsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelopeError(w, http.StatusBadRequest, models.CodeValidation, "invalid request")
	}))
	defer srv.Close()

	err := NewRemoteStore(srv.URL).CreateRequest(context.Background(), &models.AccessRequest{AppID: "6"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Equal(t, "too short", appErr.Fields["reason"])
}

func TestRemoteStore_UpdatePatchesStatus(t *testing.T) {
	var patched string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := catalog.SeedRequests()[0]
		switch r.Method {
		case http.MethodGet:
			writeEnvelope(w, http.StatusOK, map[string]interface{}{"request": req})
		case http.MethodPatch:
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			patched = body["status"]
			req.Status = models.RequestStatus(patched)
			writeEnvelope(w, http.StatusOK, map[string]interface{}{"request": req})
		}
	}))
	defer srv.Close()

	updated, err := NewRemoteStore(srv.URL).UpdateRequest(context.Background(), "1", func(r *models.AccessRequest) error {
		r.Status = models.RequestRejected
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected", patched)
	assert.Equal(t, models.RequestRejected, updated.Status)
}

func TestRemoteStore_HealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			writeEnvelope(w, http.StatusOK, map[string]string{"status": "healthy"})
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	assert.NoError(t, NewRemoteStore(srv.URL).HealthCheck(context.Background()))
}
