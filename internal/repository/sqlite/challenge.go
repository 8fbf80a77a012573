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

var _ repository.ChallengeRepository = (*DB)(nil)

func (db *DB) CreateChallenge(ctx context.Context, c *model.Challenge) error {
	c.ID = xid.New().String()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO challenges (id, challenger_id, prompt, posted, num_accepted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ChallengerID, c.Prompt, c.Posted, c.NumAccepted, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating challenge: %w", err)
	}
	return nil
}

func (db *DB) GetChallengeByID(ctx context.Context, id string) (*model.Challenge, error) {
	var c model.Challenge
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, challenger_id, prompt, posted, num_accepted, created_at, updated_at
		 FROM challenges WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.ChallengerID, &c.Prompt, &c.Posted, &c.NumAccepted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("challenge", id)
		}
		return nil, fmt.Errorf("sqlite: getting challenge %s: %w", id, err)
	}
	return &c, nil
}

func (db *DB) ListChallenges(ctx context.Context, posted bool) ([]model.Challenge, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, challenger_id, prompt, posted, num_accepted, created_at, updated_at
		 FROM challenges WHERE posted = ? ORDER BY created_at`,
		posted,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing challenges: %w", err)
	}
	defer rows.Close()

	challenges := []model.Challenge{}
	for rows.Next() {
		var c model.Challenge
		if err := rows.Scan(&c.ID, &c.ChallengerID, &c.Prompt, &c.Posted, &c.NumAccepted,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning challenge: %w", err)
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

func (db *DB) MarkChallengePosted(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE challenges SET posted = 1, updated_at = ? WHERE id = ? AND posted = 0`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: posting challenge %s: %w", id, err)
	}
	return requireRow(res, "challenge", id)
}

func (db *DB) UpdateChallengeAccepted(ctx context.Context, id string, numAccepted int) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE challenges SET num_accepted = ?, updated_at = ? WHERE id = ?`,
		numAccepted, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating challenge %s: %w", id, err)
	}
	return requireRow(res, "challenge", id)
}

func (db *DB) DeleteChallengesByChallenger(ctx context.Context, challengerID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM challenges WHERE challenger_id = ?`, challengerID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting challenges by %s: %w", challengerID, err)
	}
	return nil
}
