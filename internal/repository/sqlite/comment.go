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

var _ repository.CommentRepository = (*DB)(nil)

func (db *DB) CreateComment(ctx context.Context, c *model.Comment) error {
	c.ID = xid.New().String()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, author_id, content, parent_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.AuthorID, c.Content, c.ParentID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment: %w", err)
	}
	return nil
}

func (db *DB) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, author_id, content, parent_id, created_at, updated_at
		 FROM comments WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.AuthorID, &c.Content, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}
	return &c, nil
}

func (db *DB) ListCommentsByParent(ctx context.Context, parentID string) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, author_id, content, parent_id, created_at, updated_at
		 FROM comments WHERE parent_id = ? ORDER BY created_at`,
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for %s: %w", parentID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.Content, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (db *DB) UpdateComment(ctx context.Context, c *model.Comment) error {
	c.UpdatedAt = time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`,
		c.Content, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating comment %s: %w", c.ID, err)
	}
	return requireRow(res, "comment", c.ID)
}

func (db *DB) DeleteComment(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %s: %w", id, err)
	}
	return requireRow(res, "comment", id)
}

func (db *DB) DeleteCommentsByAuthor(ctx context.Context, authorID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM comments WHERE author_id = ?`, authorID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comments by author %s: %w", authorID, err)
	}
	return nil
}

func (db *DB) DeleteCommentsByParent(ctx context.Context, parentID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM comments WHERE parent_id = ?`, parentID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comments under %s: %w", parentID, err)
	}
	return nil
}
