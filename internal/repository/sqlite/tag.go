package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

var _ repository.TagRepository = (*DB)(nil)

func (db *DB) CreateTag(ctx context.Context, t *model.Tag) error {
	t.ID = xid.New().String()
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tags (id, tagger_id, tagged_id, post_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.TaggerID, t.TaggedID, t.PostID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("tag",
				fmt.Sprintf("user %s is already tagged on post %s", t.TaggedID, t.PostID))
		}
		return fmt.Errorf("sqlite: creating tag: %w", err)
	}
	return nil
}

func (db *DB) GetTagByTarget(ctx context.Context, taggedID, postID string) (*model.Tag, error) {
	var t model.Tag
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, tagger_id, tagged_id, post_id, created_at, updated_at
		 FROM tags WHERE tagged_id = ? AND post_id = ?`,
		taggedID, postID,
	).Scan(&t.ID, &t.TaggerID, &t.TaggedID, &t.PostID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("tag", taggedID+"/"+postID)
		}
		return nil, fmt.Errorf("sqlite: getting tag for (%s, %s): %w", taggedID, postID, err)
	}
	return &t, nil
}

func (db *DB) ListTagsByPost(ctx context.Context, postID string) ([]model.Tag, error) {
	return db.listTags(ctx, `WHERE post_id = ?`, postID)
}

func (db *DB) ListTagsByTagged(ctx context.Context, taggedID string) ([]model.Tag, error) {
	return db.listTags(ctx, `WHERE tagged_id = ?`, taggedID)
}

func (db *DB) listTags(ctx context.Context, where string, arg any) ([]model.Tag, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, tagger_id, tagged_id, post_id, created_at, updated_at
		 FROM tags `+where+` ORDER BY created_at`, arg)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.TaggerID, &t.TaggedID, &t.PostID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (db *DB) DeleteTag(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting tag %s: %w", id, err)
	}
	return requireRow(res, "tag", id)
}

func (db *DB) DeleteTagsByPost(ctx context.Context, postID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM tags WHERE post_id = ?`, postID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting tags for post %s: %w", postID, err)
	}
	return nil
}

func (db *DB) DeleteTagsByUser(ctx context.Context, userID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM tags WHERE tagger_id = ? OR tagged_id = ?`, userID, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting tags for user %s: %w", userID, err)
	}
	return nil
}
