package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/stagecall/internal/apperror"
)

func TestApplauseInitialize_OncePerUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplauseService(db, testLogger())

	_, err := svc.Initialize(context.Background(), "user-1")
	require.NoError(t, err)

	_, err = svc.Initialize(context.Background(), "user-1")
	assert.ErrorIs(t, err, apperror.ErrConflict)

	value, err := svc.Value(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, value)
}

func TestApplauseUpdate_AccumulatesFractionalDeltas(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplauseService(db, testLogger())

	_, err := svc.Initialize(context.Background(), "user-1")
	require.NoError(t, err)

	value, err := svc.Update(context.Background(), "user-1", ApplausePostCreated)
	require.NoError(t, err)
	assert.Equal(t, 3.0, value)

	value, err = svc.Update(context.Background(), "user-1", ApplauseVote)
	require.NoError(t, err)
	assert.Equal(t, 3.5, value)

	value, err = svc.Update(context.Background(), "user-1", -ApplauseVote)
	require.NoError(t, err)
	assert.Equal(t, 3.0, value)
}

func TestApplauseUpdate_MissingCounter(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplauseService(db, testLogger())

	_, err := svc.Update(context.Background(), "ghost", 1.0)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestApplauseRank_DescendingByValue(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplauseService(db, testLogger())
	ctx := context.Background()

	for id, delta := range map[string]float64{"low": 1, "high": 10, "mid": 5} {
		_, err := svc.Initialize(ctx, id)
		require.NoError(t, err)
		_, err = svc.Update(ctx, id, delta)
		require.NoError(t, err)
	}

	ranked, err := svc.Rank(ctx, []string{"low", "high", "mid"})
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].UserID)
	assert.Equal(t, "mid", ranked[1].UserID)
	assert.Equal(t, "low", ranked[2].UserID)
}

func TestApplauseRank_FailsOnMissingUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplauseService(db, testLogger())

	_, err := svc.Initialize(context.Background(), "known")
	require.NoError(t, err)

	_, err = svc.Rank(context.Background(), []string{"known", "unknown"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestApplauseDelete_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplauseService(db, testLogger())

	_, err := svc.Initialize(context.Background(), "user-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "user-1"))
	require.NoError(t, svc.Delete(context.Background(), "user-1"))
}
