package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/stagecall/internal/apperror"
)

func newPortfolioFixture(t *testing.T) (*PortfolioService, *MediaService, string) {
	t.Helper()
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	return NewPortfolioService(db, db, testLogger()), NewMediaService(db, testLogger()), owner.ID
}

func TestPortfolioCreate_OnePerUser(t *testing.T) {
	svc, _, ownerID := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)

	_, err = svc.Create(ctx, ownerID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestPortfolioAddMedia(t *testing.T) {
	svc, media, ownerID := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)

	m, err := media.Create(ctx, ownerID, "https://vimeo.com/42")
	require.NoError(t, err)

	p, err := svc.AddMedia(ctx, ownerID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{m.ID}, p.MediaIDs)

	// Duplicate references are rejected.
	_, err = svc.AddMedia(ctx, ownerID, m.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// Unverifiable media never enters the showcase.
	_, err = svc.AddMedia(ctx, ownerID, "no-such-media")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPortfolioRemoveMedia(t *testing.T) {
	svc, media, ownerID := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)

	m, err := media.Create(ctx, ownerID, "https://youtu.be/abc")
	require.NoError(t, err)
	_, err = svc.AddMedia(ctx, ownerID, m.ID)
	require.NoError(t, err)

	p, err := svc.RemoveMedia(ctx, ownerID, m.ID)
	require.NoError(t, err)
	assert.Empty(t, p.MediaIDs)

	_, err = svc.RemoveMedia(ctx, ownerID, m.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPortfolioUpdate_HeadshotMustExist(t *testing.T) {
	svc, media, ownerID := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)

	ghost := "no-such-media"
	_, err = svc.Update(ctx, ownerID, PortfolioUpdate{HeadshotID: &ghost})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	m, err := media.Create(ctx, ownerID, "https://example.com/headshot.jpg")
	require.NoError(t, err)

	p, err := svc.Update(ctx, ownerID, PortfolioUpdate{HeadshotID: &m.ID})
	require.NoError(t, err)
	assert.Equal(t, m.ID, p.HeadshotID)

	// Clearing the headshot skips the existence check.
	empty := ""
	p, err = svc.Update(ctx, ownerID, PortfolioUpdate{HeadshotID: &empty})
	require.NoError(t, err)
	assert.Empty(t, p.HeadshotID)
}

func TestPortfolioUpdate_PartialFields(t *testing.T) {
	svc, _, ownerID := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)

	intro := "Classically trained, improv background."
	p, err := svc.Update(ctx, ownerID, PortfolioUpdate{Intro: &intro})
	require.NoError(t, err)
	assert.Equal(t, intro, p.Intro)
}
