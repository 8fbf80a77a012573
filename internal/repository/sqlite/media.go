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

var _ repository.MediaRepository = (*DB)(nil)

func (db *DB) CreateMedia(ctx context.Context, m *model.Media) error {
	m.ID = xid.New().String()
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO media (id, owner_id, url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.OwnerID, m.URL, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating media: %w", err)
	}
	return nil
}

func (db *DB) GetMediaByID(ctx context.Context, id string) (*model.Media, error) {
	var m model.Media
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, owner_id, url, created_at, updated_at FROM media WHERE id = ?`,
		id,
	).Scan(&m.ID, &m.OwnerID, &m.URL, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("media", id)
		}
		return nil, fmt.Errorf("sqlite: getting media %s: %w", id, err)
	}
	return &m, nil
}

func (db *DB) DeleteMedia(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting media %s: %w", id, err)
	}
	return requireRow(res, "media", id)
}

func (db *DB) DeleteMediaByOwner(ctx context.Context, ownerID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM media WHERE owner_id = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting media for %s: %w", ownerID, err)
	}
	return nil
}
