package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
)

func newApplicationFixture(t *testing.T) (*ApplicationService, string, string, string) {
	t.Helper()
	db := newTestDB(t)
	owner := seedUser(t, db, "director@example.com")
	actor := seedUser(t, db, "actor@example.com")

	opportunities := NewOpportunityService(db, testLogger())
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	o, err := opportunities.Create(context.Background(), owner.ID, "Audition", "d", "r", start, start.AddDate(0, 0, 3))
	require.NoError(t, err)

	return NewApplicationService(db, db, testLogger()), owner.ID, actor.ID, o.ID
}

func TestApplicationCreate(t *testing.T) {
	svc, ownerID, actorID, oppID := newApplicationFixture(t)

	a, err := svc.Create(context.Background(), actorID, oppID, "pick me", []string{"media-1"})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, a.Status)
	assert.Equal(t, ownerID, a.OwnerID)
	assert.Equal(t, []string{"media-1"}, a.MediaIDs)
}

func TestApplicationCreate_OwnerCannotSelfApply(t *testing.T) {
	svc, ownerID, _, oppID := newApplicationFixture(t)

	_, err := svc.Create(context.Background(), ownerID, oppID, "me", nil)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestApplicationCreate_UnknownOpportunity(t *testing.T) {
	svc, _, actorID, _ := newApplicationFixture(t)

	_, err := svc.Create(context.Background(), actorID, "no-such-opp", "me", nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestApplicationChangeStatus_Authorization(t *testing.T) {
	svc, ownerID, actorID, oppID := newApplicationFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, actorID, oppID, "pick me", nil)
	require.NoError(t, err)

	// The owner cannot withdraw on the applicant's behalf.
	_, err = svc.ChangeStatus(ctx, ownerID, a.ID, model.ApplicationWithdrawn)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// The applicant cannot approve themselves.
	_, err = svc.ChangeStatus(ctx, actorID, a.ID, model.ApplicationApproved)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	approved, err := svc.ChangeStatus(ctx, ownerID, a.ID, model.ApplicationApproved)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, approved.Status)

	withdrawn, err := svc.ChangeStatus(ctx, actorID, a.ID, model.ApplicationWithdrawn)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationWithdrawn, withdrawn.Status)
}

func TestApplicationChangeStatus_UnknownStatus(t *testing.T) {
	svc, _, actorID, oppID := newApplicationFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, actorID, oppID, "pick me", nil)
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, actorID, a.ID, "ghosted")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestApplicationForOpportunity_HidesWithdrawn(t *testing.T) {
	svc, ownerID, actorID, oppID := newApplicationFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, actorID, oppID, "pick me", nil)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, actorID, a.ID, model.ApplicationWithdrawn)
	require.NoError(t, err)

	forOwner, err := svc.ForOpportunity(ctx, ownerID, oppID)
	require.NoError(t, err)
	assert.Empty(t, forOwner)

	// The applicant still sees their own withdrawn application.
	mine, err := svc.ForApplicant(ctx, actorID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, model.ApplicationWithdrawn, mine[0].Status)
}

func TestApplicationForOpportunity_OwnerOnly(t *testing.T) {
	svc, _, actorID, oppID := newApplicationFixture(t)

	_, err := svc.ForOpportunity(context.Background(), actorID, oppID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestApplicationWithdrawAll(t *testing.T) {
	svc, _, actorID, oppID := newApplicationFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, actorID, oppID, "pick me", nil)
	require.NoError(t, err)

	require.NoError(t, svc.WithdrawAll(ctx, actorID))

	mine, err := svc.ForApplicant(ctx, actorID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, model.ApplicationWithdrawn, mine[0].Status)
}
