package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedUser(t *testing.T, db *sqlite.DB, email string) *model.User {
	t.Helper()
	u := &model.User{Email: email, PasswordHash: "hash", Name: "Seed User"}
	require.NoError(t, db.CreateUser(context.Background(), u))
	return u
}

func seedApplause(t *testing.T, db *sqlite.DB, userID string) {
	t.Helper()
	require.NoError(t, db.CreateApplause(context.Background(), &model.Applause{UserID: userID}))
}

func seedCategory(t *testing.T, db *sqlite.DB, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name}
	require.NoError(t, db.CreateCategory(context.Background(), c))
	return c
}

func seedPost(t *testing.T, db *sqlite.DB, authorID, categoryID string) *model.FocusedPost {
	t.Helper()
	p := &model.FocusedPost{AuthorID: authorID, Content: "seed content", CategoryID: categoryID}
	require.NoError(t, db.CreatePost(context.Background(), p))
	return p
}
