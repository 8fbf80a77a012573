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

var _ repository.ConnectionRepository = (*DB)(nil)

func (db *DB) CreateRequest(ctx context.Context, r *model.ConnectionRequest) error {
	r.ID = xid.New().String()
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO connection_requests (id, from_id, to_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.FromID, r.ToID, r.Status, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating connection request: %w", err)
	}
	return nil
}

func (db *DB) GetPendingRequest(ctx context.Context, fromID, toID string) (*model.ConnectionRequest, error) {
	var r model.ConnectionRequest
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, from_id, to_id, status, created_at, updated_at
		 FROM connection_requests WHERE from_id = ? AND to_id = ? AND status = ?`,
		fromID, toID, model.RequestPending,
	).Scan(&r.ID, &r.FromID, &r.ToID, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("connection request", fromID+"/"+toID)
		}
		return nil, fmt.Errorf("sqlite: getting pending request (%s, %s): %w", fromID, toID, err)
	}
	return &r, nil
}

func (db *DB) HasPendingBetween(ctx context.Context, user1ID, user2ID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM connection_requests
		 WHERE status = ?
		   AND ((from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?))`,
		model.RequestPending, user1ID, user2ID, user2ID, user1ID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking pending between (%s, %s): %w", user1ID, user2ID, err)
	}
	return count > 0, nil
}

func (db *DB) ListRequestsForUser(ctx context.Context, userID string) ([]model.ConnectionRequest, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, from_id, to_id, status, created_at, updated_at
		 FROM connection_requests WHERE from_id = ? OR to_id = ? ORDER BY created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing requests for %s: %w", userID, err)
	}
	defer rows.Close()

	reqs := []model.ConnectionRequest{}
	for rows.Next() {
		var r model.ConnectionRequest
		if err := rows.Scan(&r.ID, &r.FromID, &r.ToID, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning request: %w", err)
		}
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}

func (db *DB) UpdateRequestStatus(ctx context.Context, id, status string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE connection_requests SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating request %s: %w", id, err)
	}
	return requireRow(res, "connection request", id)
}

func (db *DB) DeleteRequest(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM connection_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting request %s: %w", id, err)
	}
	return requireRow(res, "connection request", id)
}

// AcceptRequest marks the request accepted and inserts the symmetric
// connection row in one transaction, so a crash cannot leave the pair
// half-connected.
func (db *DB) AcceptRequest(ctx context.Context, requestID string, conn *model.Connection) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning accept tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx,
		`UPDATE connection_requests SET status = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		model.RequestAccepted, now, requestID, model.RequestPending,
	)
	if err != nil {
		return fmt.Errorf("sqlite: accepting request %s: %w", requestID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("sqlite: accepting request %s: %w", requestID, err)
	} else if n == 0 {
		return apperror.NotFound("connection request", requestID)
	}

	conn.ID = xid.New().String()
	conn.CreatedAt = now
	conn.UpdatedAt = now
	_, err = tx.ExecContext(ctx,
		`INSERT INTO connections (id, user1_id, user2_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		conn.ID, conn.User1ID, conn.User2ID, conn.CreatedAt, conn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting connection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing accept tx: %w", err)
	}
	return nil
}

func (db *DB) GetConnection(ctx context.Context, user1ID, user2ID string) (*model.Connection, error) {
	var c model.Connection
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user1_id, user2_id, created_at, updated_at
		 FROM connections
		 WHERE (user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)`,
		user1ID, user2ID, user2ID, user1ID,
	).Scan(&c.ID, &c.User1ID, &c.User2ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("connection", user1ID+"/"+user2ID)
		}
		return nil, fmt.Errorf("sqlite: getting connection (%s, %s): %w", user1ID, user2ID, err)
	}
	return &c, nil
}

func (db *DB) ListConnectionsForUser(ctx context.Context, userID string) ([]model.Connection, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user1_id, user2_id, created_at, updated_at
		 FROM connections WHERE user1_id = ? OR user2_id = ? ORDER BY created_at`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing connections for %s: %w", userID, err)
	}
	defer rows.Close()

	conns := []model.Connection{}
	for rows.Next() {
		var c model.Connection
		if err := rows.Scan(&c.ID, &c.User1ID, &c.User2ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning connection: %w", err)
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

func (db *DB) DeleteConnection(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM connections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting connection %s: %w", id, err)
	}
	return requireRow(res, "connection", id)
}

func (db *DB) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM connection_requests WHERE from_id = ? OR to_id = ?`, userID, userID); err != nil {
		return fmt.Errorf("sqlite: deleting requests for %s: %w", userID, err)
	}
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM connections WHERE user1_id = ? OR user2_id = ?`, userID, userID); err != nil {
		return fmt.Errorf("sqlite: deleting connections for %s: %w", userID, err)
	}
	return nil
}
