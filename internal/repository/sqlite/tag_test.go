package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
)

func TestTagCreate_DuplicateTarget(t *testing.T) {
	db := newTestDB(t)

	first := &model.Tag{TaggerID: "alice", TaggedID: "bob", PostID: "post-1"}
	if err := db.CreateTag(context.Background(), first); err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}

	// Same (tagged, post) pair from a different tagger still collides.
	second := &model.Tag{TaggerID: "carol", TaggedID: "bob", PostID: "post-1"}
	err := db.CreateTag(context.Background(), second)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateTag() duplicate error = %v, want ErrConflict", err)
	}
}

func TestTagGetByTarget(t *testing.T) {
	db := newTestDB(t)

	created := &model.Tag{TaggerID: "alice", TaggedID: "bob", PostID: "post-2"}
	if err := db.CreateTag(context.Background(), created); err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}

	found, err := db.GetTagByTarget(context.Background(), "bob", "post-2")
	if err != nil {
		t.Fatalf("GetTagByTarget() error = %v", err)
	}
	if found.TaggerID != "alice" {
		t.Errorf("TaggerID = %q, want %q", found.TaggerID, "alice")
	}
}

func TestTagDeleteByUser_MatchesBothSides(t *testing.T) {
	db := newTestDB(t)

	asTagger := &model.Tag{TaggerID: "alice", TaggedID: "bob", PostID: "p1"}
	asTagged := &model.Tag{TaggerID: "carol", TaggedID: "alice", PostID: "p2"}
	unrelated := &model.Tag{TaggerID: "carol", TaggedID: "bob", PostID: "p3"}
	for _, tag := range []*model.Tag{asTagger, asTagged, unrelated} {
		if err := db.CreateTag(context.Background(), tag); err != nil {
			t.Fatalf("CreateTag() error = %v", err)
		}
	}

	if err := db.DeleteTagsByUser(context.Background(), "alice"); err != nil {
		t.Fatalf("DeleteTagsByUser() error = %v", err)
	}

	if _, err := db.GetTagByTarget(context.Background(), "bob", "p1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Error("tag with alice as tagger should be gone")
	}
	if _, err := db.GetTagByTarget(context.Background(), "alice", "p2"); !errors.Is(err, apperror.ErrNotFound) {
		t.Error("tag with alice as tagged should be gone")
	}
	if _, err := db.GetTagByTarget(context.Background(), "bob", "p3"); err != nil {
		t.Errorf("unrelated tag should survive, got %v", err)
	}
}
