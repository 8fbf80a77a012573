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

var _ repository.QueueRepository = (*DB)(nil)

func (db *DB) CreateQueue(ctx context.Context, q *model.Queue) error {
	q.ID = xid.New().String()
	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now

	applicants, err := encodeIDs(q.Applicants)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO queues (id, manager_id, opportunity_id, applicants, start_time,
		                     minutes_per, current_position, total_queued, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.ManagerID, q.OpportunityID, applicants, q.StartTime,
		q.MinutesPer, q.CurrentPosition, q.TotalQueued, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("queue",
				fmt.Sprintf("a queue already exists for opportunity %s", q.OpportunityID))
		}
		return fmt.Errorf("sqlite: creating queue: %w", err)
	}
	return nil
}

func (db *DB) GetQueueByOpportunity(ctx context.Context, opportunityID string) (*model.Queue, error) {
	var (
		q             model.Queue
		applicantsRaw string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, manager_id, opportunity_id, applicants, start_time,
		        minutes_per, current_position, total_queued, created_at, updated_at
		 FROM queues WHERE opportunity_id = ?`,
		opportunityID,
	).Scan(&q.ID, &q.ManagerID, &q.OpportunityID, &applicantsRaw, &q.StartTime,
		&q.MinutesPer, &q.CurrentPosition, &q.TotalQueued, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("queue", opportunityID)
		}
		return nil, fmt.Errorf("sqlite: getting queue for %s: %w", opportunityID, err)
	}
	if q.Applicants, err = decodeIDs(applicantsRaw); err != nil {
		return nil, err
	}
	return &q, nil
}

func (db *DB) UpdateQueuePosition(ctx context.Context, id string, position int) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE queues SET current_position = ?, updated_at = ? WHERE id = ?`,
		position, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating queue %s: %w", id, err)
	}
	return requireRow(res, "queue", id)
}

func (db *DB) DeleteQueueByOpportunity(ctx context.Context, opportunityID string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM queues WHERE opportunity_id = ?`, opportunityID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting queue for %s: %w", opportunityID, err)
	}
	return requireRow(res, "queue", opportunityID)
}

func (db *DB) DeleteQueuesByManager(ctx context.Context, managerID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM queues WHERE manager_id = ?`, managerID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting queues for manager %s: %w", managerID, err)
	}
	return nil
}
