package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/stagecall/internal/apperror"
)

func newOpportunityFixture(t *testing.T) (*OpportunityService, string) {
	t.Helper()
	db := newTestDB(t)
	owner := seedUser(t, db, "director@example.com")
	return NewOpportunityService(db, testLogger()), owner.ID
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestOpportunityCreate_SetsExpiry(t *testing.T) {
	svc, ownerID := newOpportunityFixture(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(fixedClock(created))

	start := created.AddDate(0, 1, 0)
	o, err := svc.Create(context.Background(), ownerID, "Spring Audition", "lead role", "prepared monologue", start, start.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.True(t, o.IsActive)
	assert.Equal(t, created.Add(opportunityTTL), o.ExpiresOn)
}

func TestOpportunityCreate_Validation(t *testing.T) {
	svc, ownerID := newOpportunityFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, ownerID, "  ", "d", "r", start, start.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(ctx, ownerID, "Title", "d", "r", start, start)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(ctx, ownerID, "Title", "d", "r", start.AddDate(0, 0, 2), start)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestOpportunityUpdate_RevalidatesAgainstStoredDates(t *testing.T) {
	svc, ownerID := newOpportunityFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)

	o, err := svc.Create(ctx, ownerID, "Audition", "d", "r", start, end)
	require.NoError(t, err)

	// New start past the stored end fails even with no end supplied.
	badStart := end.AddDate(0, 0, 1)
	_, err = svc.Update(ctx, ownerID, o.ID, OpportunityUpdate{StartOn: &badStart})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// Moving the start within the stored window is fine.
	goodStart := start.AddDate(0, 0, 2)
	updated, err := svc.Update(ctx, ownerID, o.ID, OpportunityUpdate{StartOn: &goodStart})
	require.NoError(t, err)
	assert.Equal(t, goodStart, updated.StartOn.UTC())
	assert.Equal(t, end, updated.EndsOn.UTC())
}

func TestOpportunityUpdate_OwnerOnly(t *testing.T) {
	svc, ownerID := newOpportunityFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	o, err := svc.Create(ctx, ownerID, "Audition", "d", "r", start, start.AddDate(0, 0, 5))
	require.NoError(t, err)

	title := "Hijacked"
	_, err = svc.Update(ctx, "someone-else", o.ID, OpportunityUpdate{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestOpportunityDeactivateExpired(t *testing.T) {
	svc, ownerID := newOpportunityFixture(t)
	ctx := context.Background()
	created := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.SetClock(fixedClock(created))

	start := created.AddDate(0, 1, 0)
	o, err := svc.Create(ctx, ownerID, "Audition", "d", "r", start, start.AddDate(0, 0, 2))
	require.NoError(t, err)

	// Before expiry the system pass leaves it active.
	svc.SetClock(fixedClock(created.Add(opportunityTTL - time.Hour)))
	same, err := svc.DeactivateExpired(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, same.IsActive)

	// Past expiry it flips.
	svc.SetClock(fixedClock(created.Add(opportunityTTL + time.Hour)))
	expired, err := svc.DeactivateExpired(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, expired.IsActive)
}

func TestOpportunityExpireSweep(t *testing.T) {
	svc, ownerID := newOpportunityFixture(t)
	ctx := context.Background()
	created := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.SetClock(fixedClock(created))

	start := created.AddDate(0, 1, 0)
	stale, err := svc.Create(ctx, ownerID, "Stale", "d", "r", start, start.AddDate(0, 0, 2))
	require.NoError(t, err)

	// The second listing is created a week later, so it outlives the sweep.
	svc.SetClock(fixedClock(created.AddDate(0, 0, 7)))
	fresh, err := svc.Create(ctx, ownerID, "Fresh", "d", "r", start, start.AddDate(0, 0, 2))
	require.NoError(t, err)

	svc.SetClock(fixedClock(created.Add(opportunityTTL + time.Hour)))
	swept, err := svc.ExpireSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	got, err := svc.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = svc.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestOpportunityReactivate_RestartsExpiryClock(t *testing.T) {
	svc, ownerID := newOpportunityFixture(t)
	ctx := context.Background()
	created := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.SetClock(fixedClock(created))

	start := created.AddDate(0, 1, 0)
	o, err := svc.Create(ctx, ownerID, "Audition", "d", "r", start, start.AddDate(0, 0, 2))
	require.NoError(t, err)

	_, err = svc.Deactivate(ctx, ownerID, o.ID)
	require.NoError(t, err)

	later := created.AddDate(0, 0, 30)
	svc.SetClock(fixedClock(later))
	reactivated, err := svc.Reactivate(ctx, ownerID, o.ID)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)
	assert.Equal(t, later.Add(opportunityTTL), reactivated.ExpiresOn)
}

func TestOpportunityDatesInRange(t *testing.T) {
	svc, ownerID := newOpportunityFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)
	o, err := svc.Create(ctx, ownerID, "Audition", "d", "r", start, end)
	require.NoError(t, err)

	in, err := svc.DatesInRange(ctx, o.ID, start.AddDate(0, 0, -1), end.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, in)

	// Exact bounds still count as contained.
	in, err = svc.DatesInRange(ctx, o.ID, start, end)
	require.NoError(t, err)
	assert.True(t, in)

	in, err = svc.DatesInRange(ctx, o.ID, start.AddDate(0, 0, 1), end.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, in)

	_, err = svc.DatesInRange(ctx, o.ID, end, start)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestOpportunityDeactivateAllForOwner(t *testing.T) {
	svc, ownerID := newOpportunityFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for _, title := range []string{"One", "Two"} {
		_, err := svc.Create(ctx, ownerID, title, "d", "r", start, start.AddDate(0, 0, 2))
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeactivateAllForOwner(ctx, ownerID))

	ops, err := svc.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	for _, o := range ops {
		assert.False(t, o.IsActive)
	}
}
