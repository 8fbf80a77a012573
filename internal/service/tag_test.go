package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/stagecall/internal/apperror"
)

func newTagFixture(t *testing.T) (*TagService, string, string, string) {
	t.Helper()
	db := newTestDB(t)
	author := seedUser(t, db, "author@example.com")
	tagged := seedUser(t, db, "tagged@example.com")
	category := seedCategory(t, db, "scenes")
	post := seedPost(t, db, author.ID, category.ID)
	return NewTagService(db, db, db, testLogger()), author.ID, tagged.ID, post.ID
}

func TestTagCreate(t *testing.T) {
	svc, taggerID, taggedID, postID := newTagFixture(t)

	tag, err := svc.Create(context.Background(), taggerID, taggedID, postID)
	require.NoError(t, err)
	assert.NotEmpty(t, tag.ID)
	assert.Equal(t, taggerID, tag.TaggerID)
	assert.Equal(t, taggedID, tag.TaggedID)
}

func TestTagCreate_UnknownTaggedUser(t *testing.T) {
	svc, taggerID, _, postID := newTagFixture(t)

	_, err := svc.Create(context.Background(), taggerID, "ghost", postID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTagCreate_UnknownPost(t *testing.T) {
	svc, taggerID, taggedID, _ := newTagFixture(t)

	_, err := svc.Create(context.Background(), taggerID, taggedID, "no-such-post")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTagDelete_OnlyTagger(t *testing.T) {
	svc, taggerID, taggedID, postID := newTagFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, taggerID, taggedID, postID)
	require.NoError(t, err)

	_, err = svc.Delete(ctx, taggedID, taggedID, postID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	deleted, err := svc.Delete(ctx, taggerID, taggedID, postID)
	require.NoError(t, err)
	assert.Equal(t, taggedID, deleted.TaggedID)
}

func TestTagDelete_MissingTagIsValidation(t *testing.T) {
	svc, taggerID, taggedID, postID := newTagFixture(t)

	// Deleting a tag that never existed reads as bad input, not 404.
	_, err := svc.Delete(context.Background(), taggerID, taggedID, postID)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
