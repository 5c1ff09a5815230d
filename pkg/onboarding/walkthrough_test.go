package onboarding

import (
	"context"
	"testing"

	"app-catalog-backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkthrough_Navigation(t *testing.T) {
	w := NewWalkthrough()
	assert.Equal(t, "welcome", w.Current().ID)
	assert.InDelta(t, 12.5, w.Progress(), 0.001)

	w.Previous()
	assert.Equal(t, 0, w.Index())

	for i := 0; i < len(Steps())-1; i++ {
		w.Next()
	}
	assert.Equal(t, "admin-tools", w.Current().ID)
	assert.InDelta(t, 100, w.Progress(), 0.001)
	assert.False(t, w.Done())

	w.Next()
	assert.True(t, w.Done())
	assert.Equal(t, 7, w.Index())
}

func TestWalkthrough_Skip(t *testing.T) {
	w := NewWalkthrough()
	w.Next()
	w.Skip()
	assert.True(t, w.Done())
}

func TestAt_ClampsIndex(t *testing.T) {
	assert.Equal(t, 0, At(-3).Index())
	assert.Equal(t, 7, At(42).Index())
	assert.Equal(t, "filters", At(2).Current().ID)
}

func TestApply_Actions(t *testing.T) {
	w := At(3)
	require.NoError(t, w.Apply(ActionPrevious))
	assert.Equal(t, 2, w.Index())
	require.NoError(t, w.Apply(""))
	assert.Equal(t, 2, w.Index())

	var appErr *models.AppError
	require.ErrorAs(t, w.Apply("jump"), &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "action")
}

func TestState_NoticeOnlyWhenDone(t *testing.T) {
	w := At(7)
	assert.Nil(t, w.State(false).Notice)

	w.Next()
	state := w.State(false)
	assert.True(t, state.Done)
	require.NotNil(t, state.Notice)
	assert.Equal(t, "Welcome to Zluri!", state.Notice.Title)

	w = At(1)
	w.Skip()
	state = w.State(true)
	require.NotNil(t, state.Notice)
	assert.Equal(t, "Walkthrough Complete!", state.Notice.Title)
	assert.Equal(t, 8, state.Total)
}

func TestSteps_AreCopies(t *testing.T) {
	s := Steps()
	require.Len(t, s, 8)
	s[0].Features[0] = "Changed"
	assert.Equal(t, "App Discovery", Steps()[0].Features[0])
}

func TestService_VisitOnlyFirstTime(t *testing.T) {
	svc := NewService(NewMemoryFlagStore())
	ctx := context.Background()

	res, err := svc.Visit(ctx, "alex")
	require.NoError(t, err)
	assert.True(t, res.ShowWalkthrough)
	assert.Len(t, res.Steps, 8)

	res, err = svc.Visit(ctx, "alex")
	require.NoError(t, err)
	assert.False(t, res.ShowWalkthrough)
	assert.Empty(t, res.Steps)

	require.NoError(t, svc.Reset(ctx, "alex"))
	res, err = svc.Visit(ctx, "alex")
	require.NoError(t, err)
	assert.True(t, res.ShowWalkthrough)
}

func TestService_BlankViewerSharesAnonymousFlag(t *testing.T) {
	svc := NewService(NewMemoryFlagStore())
	ctx := context.Background()

	_, err := svc.Visit(ctx, "  ")
	require.NoError(t, err)
	seen, err := svc.Seen(ctx, "")
	require.NoError(t, err)
	assert.True(t, seen)
}
