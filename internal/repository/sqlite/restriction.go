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

var _ repository.RestrictionRepository = (*DB)(nil)

func (db *DB) CreateRestriction(ctx context.Context, r *model.Restriction) error {
	r.ID = xid.New().String()
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO restrictions (id, user_id, actor, casting_director, admin, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Actor, r.CastingDirector, r.Admin, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("restriction", fmt.Sprintf("already exists for user %s", r.UserID))
		}
		return fmt.Errorf("sqlite: creating restriction: %w", err)
	}
	return nil
}

func (db *DB) GetRestrictionByUser(ctx context.Context, userID string) (*model.Restriction, error) {
	var r model.Restriction
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, actor, casting_director, admin, created_at, updated_at
		 FROM restrictions WHERE user_id = ?`,
		userID,
	).Scan(&r.ID, &r.UserID, &r.Actor, &r.CastingDirector, &r.Admin, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("restriction", userID)
		}
		return nil, fmt.Errorf("sqlite: getting restriction for user %s: %w", userID, err)
	}
	return &r, nil
}

func (db *DB) UpdateRestriction(ctx context.Context, r *model.Restriction) error {
	r.UpdatedAt = time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE restrictions SET actor = ?, casting_director = ?, admin = ?, updated_at = ?
		 WHERE user_id = ?`,
		r.Actor, r.CastingDirector, r.Admin, r.UpdatedAt, r.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating restriction for user %s: %w", r.UserID, err)
	}
	return requireRow(res, "restriction", r.UserID)
}

func (db *DB) DeleteRestrictionByUser(ctx context.Context, userID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM restrictions WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting restriction for user %s: %w", userID, err)
	}
	return nil
}
