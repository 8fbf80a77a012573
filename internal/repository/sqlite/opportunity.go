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

var _ repository.OpportunityRepository = (*DB)(nil)

const opportunityColumns = `id, owner_id, title, description, start_on, ends_on,
	expires_on, requirements, is_active, created_at, updated_at`

func (db *DB) CreateOpportunity(ctx context.Context, o *model.Opportunity) error {
	o.ID = xid.New().String()
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO opportunities (`+opportunityColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.OwnerID, o.Title, o.Description, o.StartOn, o.EndsOn,
		o.ExpiresOn, o.Requirements, o.IsActive, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating opportunity: %w", err)
	}
	return nil
}

func scanOpportunity(row interface{ Scan(...any) error }) (*model.Opportunity, error) {
	var o model.Opportunity
	err := row.Scan(&o.ID, &o.OwnerID, &o.Title, &o.Description, &o.StartOn, &o.EndsOn,
		&o.ExpiresOn, &o.Requirements, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (db *DB) GetOpportunityByID(ctx context.Context, id string) (*model.Opportunity, error) {
	o, err := scanOpportunity(db.conn.QueryRowContext(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("opportunity", id)
		}
		return nil, fmt.Errorf("sqlite: getting opportunity %s: %w", id, err)
	}
	return o, nil
}

func (db *DB) ListOpportunities(ctx context.Context, activeOnly bool) ([]model.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY created_at DESC`
	return db.listOpportunities(ctx, query)
}

func (db *DB) ListOpportunitiesByOwner(ctx context.Context, ownerID string) ([]model.Opportunity, error) {
	return db.listOpportunities(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE owner_id = ? ORDER BY created_at DESC`,
		ownerID)
}

func (db *DB) ListExpiredActive(ctx context.Context, now time.Time) ([]model.Opportunity, error) {
	return db.listOpportunities(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE is_active = 1 AND expires_on < ?`,
		now)
}

func (db *DB) listOpportunities(ctx context.Context, query string, args ...any) ([]model.Opportunity, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing opportunities: %w", err)
	}
	defer rows.Close()

	ops := []model.Opportunity{}
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning opportunity: %w", err)
		}
		ops = append(ops, *o)
	}
	return ops, rows.Err()
}

func (db *DB) UpdateOpportunity(ctx context.Context, o *model.Opportunity) error {
	o.UpdatedAt = time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE opportunities SET title = ?, description = ?, start_on = ?, ends_on = ?,
		        expires_on = ?, requirements = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		o.Title, o.Description, o.StartOn, o.EndsOn,
		o.ExpiresOn, o.Requirements, o.IsActive, o.UpdatedAt,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating opportunity %s: %w", o.ID, err)
	}
	return requireRow(res, "opportunity", o.ID)
}

func (db *DB) DeleteOpportunity(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM opportunities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting opportunity %s: %w", id, err)
	}
	return requireRow(res, "opportunity", id)
}
