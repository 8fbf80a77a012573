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

var _ repository.VoteRepository = (*DB)(nil)

func (db *DB) CreateVote(ctx context.Context, v *model.Vote) error {
	v.ID = xid.New().String()
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO votes (id, user_id, parent_id, upvote, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.UserID, v.ParentID, v.Upvote, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("vote",
				fmt.Sprintf("user %s already voted on %s", v.UserID, v.ParentID))
		}
		return fmt.Errorf("sqlite: creating vote: %w", err)
	}
	return nil
}

func (db *DB) GetVote(ctx context.Context, userID, parentID string) (*model.Vote, error) {
	var v model.Vote
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, parent_id, upvote, created_at, updated_at
		 FROM votes WHERE user_id = ? AND parent_id = ?`,
		userID, parentID,
	).Scan(&v.ID, &v.UserID, &v.ParentID, &v.Upvote, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("vote", userID+"/"+parentID)
		}
		return nil, fmt.Errorf("sqlite: getting vote (%s, %s): %w", userID, parentID, err)
	}
	return &v, nil
}

func (db *DB) UpdateVote(ctx context.Context, v *model.Vote) error {
	v.UpdatedAt = time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE votes SET upvote = ?, updated_at = ? WHERE id = ?`,
		v.Upvote, v.UpdatedAt, v.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating vote %s: %w", v.ID, err)
	}
	return requireRow(res, "vote", v.ID)
}

func (db *DB) DeleteVote(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM votes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting vote %s: %w", id, err)
	}
	return requireRow(res, "vote", id)
}

func (db *DB) DeleteVotesByUser(ctx context.Context, userID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM votes WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting votes by user %s: %w", userID, err)
	}
	return nil
}

func (db *DB) DeleteVotesByParent(ctx context.Context, parentID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM votes WHERE parent_id = ?`, parentID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting votes on %s: %w", parentID, err)
	}
	return nil
}
