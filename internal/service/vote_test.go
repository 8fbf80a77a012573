package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/stagecall/internal/apperror"
)

func newVoteFixture(t *testing.T) (*VoteService, string) {
	t.Helper()
	db := newTestDB(t)
	author := seedUser(t, db, "author@example.com")
	category := seedCategory(t, db, "monologues")
	post := seedPost(t, db, author.ID, category.ID)
	return NewVoteService(db, db, testLogger()), post.ID
}

func TestVote_CreateThenRetract(t *testing.T) {
	svc, postID := newVoteFixture(t)
	ctx := context.Background()

	first, err := svc.Vote(ctx, "voter", postID, true)
	require.NoError(t, err)
	assert.Equal(t, VoteCreated, first.Action)
	assert.Equal(t, 0.5, first.Delta)

	// Same polarity again retracts and inverts the delta.
	second, err := svc.Vote(ctx, "voter", postID, true)
	require.NoError(t, err)
	assert.Equal(t, VoteRetracted, second.Action)
	assert.Equal(t, -0.5, second.Delta)

	// The pair of deltas cancels exactly.
	assert.Equal(t, 0.0, first.Delta+second.Delta)
}

func TestVote_FlipDoublesDelta(t *testing.T) {
	svc, postID := newVoteFixture(t)
	ctx := context.Background()

	up, err := svc.Vote(ctx, "voter", postID, true)
	require.NoError(t, err)
	assert.Equal(t, 0.5, up.Delta)

	down, err := svc.Vote(ctx, "voter", postID, false)
	require.NoError(t, err)
	assert.Equal(t, VoteFlipped, down.Action)
	assert.Equal(t, -1.0, down.Delta)

	backUp, err := svc.Vote(ctx, "voter", postID, true)
	require.NoError(t, err)
	assert.Equal(t, VoteFlipped, backUp.Action)
	assert.Equal(t, 1.0, backUp.Delta)

	// up, flip down, flip up nets out to the original single upvote.
	assert.Equal(t, 0.5, up.Delta+down.Delta+backUp.Delta)
}

func TestVote_DifferentVotersIndependent(t *testing.T) {
	svc, postID := newVoteFixture(t)
	ctx := context.Background()

	a, err := svc.Vote(ctx, "voter-a", postID, true)
	require.NoError(t, err)
	assert.Equal(t, VoteCreated, a.Action)

	b, err := svc.Vote(ctx, "voter-b", postID, true)
	require.NoError(t, err)
	assert.Equal(t, VoteCreated, b.Action)
}

func TestVote_MissingPost(t *testing.T) {
	svc, _ := newVoteFixture(t)

	_, err := svc.Vote(context.Background(), "voter", "no-such-post", true)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
