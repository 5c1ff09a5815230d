package database

import (
	"context"
	"errors"
	"sync"
	"testing"

	"app-catalog-backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SeededOnCreate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	apps, err := store.ListApps(ctx)
	require.NoError(t, err)
	assert.Len(t, apps, 8)
	assert.Equal(t, "1", apps[0].ID)

	requests, err := store.ListRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, requests, 3)
}

func TestMemoryStore_ReadsAreCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	app, err := store.GetApp(ctx, "1")
	require.NoError(t, err)
	app.Department[0] = "Changed"

	again, err := store.GetApp(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Engineering", again.Department[0])
}

func TestMemoryStore_NotFound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetApp(ctx, "99")
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	_, err = store.GetRequest(ctx, "99")
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	_, err = store.UpdateRequest(ctx, "99", func(*models.AccessRequest) error { return nil })
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestMemoryStore_CreateAssignsID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	req := &models.AccessRequest{AppID: "3", AppName: "Figma", Status: models.RequestPending}
	require.NoError(t, store.CreateRequest(ctx, req))
	assert.NotEmpty(t, req.ID)

	got, err := store.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Figma", got.AppName)

	requests, err := store.ListRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, requests, 4)
	assert.Equal(t, req.ID, requests[3].ID)
}

func TestMemoryStore_CreateRejectsDuplicateID(t *testing.T) {
	store := NewMemoryStore()
	err := store.CreateRequest(context.Background(), &models.AccessRequest{ID: "1"})
	assert.Error(t, err)
}

func TestMemoryStore_UpdateAbortsOnMutateError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := store.UpdateRequest(ctx, "1", func(r *models.AccessRequest) error {
		r.Status = models.RequestApproved
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.GetRequest(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, got.Status)
}

func TestMemoryStore_ConcurrentUpdatesSerialize(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.UpdateRequest(ctx, "1", func(r *models.AccessRequest) error {
				if !r.IsPending() {
					return models.NewInvalidTransitionError(r.ID, r.Status, models.RequestApproved)
				}
				r.Status = models.RequestApproved
				return nil
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}
