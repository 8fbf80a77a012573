package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/stagecall/internal/apperror"
)

func newPostFixture(t *testing.T) (*PostService, string, string) {
	t.Helper()
	db := newTestDB(t)
	author := seedUser(t, db, "author@example.com")
	category := seedCategory(t, db, "monologues")
	return NewPostService(db, db, testLogger()), author.ID, category.ID
}

func TestPostCreate(t *testing.T) {
	svc, authorID, categoryID := newPostFixture(t)

	p, err := svc.Create(context.Background(), authorID, "  my audition piece  ", categoryID, []string{"media-1"})
	require.NoError(t, err)
	assert.Equal(t, "my audition piece", p.Content)
	assert.Equal(t, categoryID, p.CategoryID)
}

func TestPostCreate_Validation(t *testing.T) {
	svc, authorID, categoryID := newPostFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, authorID, "   ", categoryID, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(ctx, authorID, strings.Repeat("x", MaxPostContentLength+1), categoryID, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(ctx, authorID, "fine", "no-such-category", nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPostUpdate_AuthorOnly(t *testing.T) {
	svc, authorID, categoryID := newPostFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, authorID, "original", categoryID, nil)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "stranger", p.ID, "hijacked", "")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Empty fields leave the stored values alone.
	updated, err := svc.Update(ctx, authorID, p.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "original", updated.Content)

	updated, err = svc.Update(ctx, authorID, p.ID, "revised", "")
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Content)
	assert.Equal(t, categoryID, updated.CategoryID)
}

func TestPostUpdate_CategoryMustExist(t *testing.T) {
	svc, authorID, categoryID := newPostFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, authorID, "original", categoryID, nil)
	require.NoError(t, err)

	_, err = svc.Update(ctx, authorID, p.ID, "", "no-such-category")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPostDelete_AuthorOnly(t *testing.T) {
	svc, authorID, categoryID := newPostFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, authorID, "doomed", categoryID, nil)
	require.NoError(t, err)

	_, err = svc.Delete(ctx, "stranger", p.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	deleted, err := svc.Delete(ctx, authorID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)

	_, err = svc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCategoryCreate_Duplicate(t *testing.T) {
	svc, _, _ := newPostFixture(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "scenes", "scene work")
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, "scenes", "again")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestPostsInCategory(t *testing.T) {
	svc, authorID, categoryID := newPostFixture(t)
	ctx := context.Background()

	for _, content := range []string{"one", "two"} {
		_, err := svc.Create(ctx, authorID, content, categoryID, nil)
		require.NoError(t, err)
	}

	posts, err := svc.PostsInCategory(ctx, categoryID)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	_, err = svc.PostsInCategory(ctx, "no-such-category")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
