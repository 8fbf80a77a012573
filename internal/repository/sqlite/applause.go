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

var _ repository.ApplauseRepository = (*DB)(nil)

func (db *DB) CreateApplause(ctx context.Context, a *model.Applause) error {
	a.ID = xid.New().String()
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO applause (id, user_id, value, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Value, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("applause", fmt.Sprintf("already initialized for user %s", a.UserID))
		}
		return fmt.Errorf("sqlite: creating applause: %w", err)
	}
	return nil
}

func (db *DB) GetApplauseByUser(ctx context.Context, userID string) (*model.Applause, error) {
	var a model.Applause
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, value, created_at, updated_at FROM applause WHERE user_id = ?`,
		userID,
	).Scan(&a.ID, &a.UserID, &a.Value, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("applause", userID)
		}
		return nil, fmt.Errorf("sqlite: getting applause for user %s: %w", userID, err)
	}
	return &a, nil
}

func (db *DB) UpdateApplauseValue(ctx context.Context, userID string, value float64) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE applause SET value = ?, updated_at = ? WHERE user_id = ?`,
		value, time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating applause for user %s: %w", userID, err)
	}
	return requireRow(res, "applause", userID)
}

func (db *DB) DeleteApplauseByUser(ctx context.Context, userID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM applause WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting applause for user %s: %w", userID, err)
	}
	return nil
}
