package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/stagecall/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$fakehashforrepositorytests",
		Name:         "Test User",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestCategory(t *testing.T, db *DB, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name}
	if err := db.CreateCategory(context.Background(), c); err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return c
}

func createTestPost(t *testing.T, db *DB, authorID, categoryID string) *model.FocusedPost {
	t.Helper()
	p := &model.FocusedPost{
		AuthorID:   authorID,
		Content:    "an audition reel",
		CategoryID: categoryID,
		MediaIDs:   []string{},
	}
	if err := db.CreatePost(context.Background(), p); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return p
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	// A second migration run over the same schema must not error.
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
}

func TestEncodeDecodeIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{name: "nil slice", ids: nil},
		{name: "empty slice", ids: []string{}},
		{name: "several ids", ids: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := encodeIDs(tt.ids)
			if err != nil {
				t.Fatalf("encodeIDs() error = %v", err)
			}
			got, err := decodeIDs(raw)
			if err != nil {
				t.Fatalf("decodeIDs() error = %v", err)
			}
			if len(got) != len(tt.ids) {
				t.Fatalf("round trip length = %d, want %d", len(got), len(tt.ids))
			}
			for i := range got {
				if got[i] != tt.ids[i] {
					t.Errorf("round trip[%d] = %q, want %q", i, got[i], tt.ids[i])
				}
			}
		})
	}
}
