package database

import (
	"context"
	"testing"

	"app-catalog-backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStore_ReusesMemoryStore(t *testing.T) {
	ResetStore()
	t.Cleanup(ResetStore)

	first, err := GetStore(StoreConfig{})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, first)

	req := &models.AccessRequest{AppID: "6", Status: models.RequestPending}
	require.NoError(t, first.CreateRequest(context.Background(), req))

	second, err := GetStore(StoreConfig{})
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = second.GetRequest(context.Background(), req.ID)
	assert.NoError(t, err)
	assert.Equal(t, "connected", GetConnectionStats()["status"])
}

func TestGetStore_RecreatesOnConfigChange(t *testing.T) {
	ResetStore()
	t.Cleanup(ResetStore)

	first, err := GetStore(StoreConfig{})
	require.NoError(t, err)
	second, err := GetStore(StoreConfig{Debug: true})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestOpen_SelectsRemote(t *testing.T) {
	store, err := Open(StoreConfig{RemoteURL: "catalog.internal"})
	require.NoError(t, err)
	remote, ok := store.(*RemoteStore)
	require.True(t, ok)
	assert.Equal(t, "https://catalog.internal", remote.baseURL)
}
