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

var _ repository.ApplicationRepository = (*DB)(nil)

func (db *DB) CreateApplication(ctx context.Context, a *model.Application) error {
	a.ID = xid.New().String()
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	mediaIDs, err := encodeIDs(a.MediaIDs)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO applications (id, owner_id, applicant_id, opportunity_id, status, text, media_ids, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OwnerID, a.ApplicantID, a.OpportunityID, a.Status, a.Text, mediaIDs,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating application: %w", err)
	}
	return nil
}

func (db *DB) GetApplicationByID(ctx context.Context, id string) (*model.Application, error) {
	var (
		a        model.Application
		mediaRaw string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, owner_id, applicant_id, opportunity_id, status, text, media_ids, created_at, updated_at
		 FROM applications WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.OwnerID, &a.ApplicantID, &a.OpportunityID, &a.Status, &a.Text, &mediaRaw,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("application", id)
		}
		return nil, fmt.Errorf("sqlite: getting application %s: %w", id, err)
	}
	if a.MediaIDs, err = decodeIDs(mediaRaw); err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) ListApplicationsByOpportunity(ctx context.Context, opportunityID string) ([]model.Application, error) {
	return db.listApplications(ctx,
		`SELECT id, owner_id, applicant_id, opportunity_id, status, text, media_ids, created_at, updated_at
		 FROM applications WHERE opportunity_id = ? ORDER BY created_at`,
		opportunityID)
}

func (db *DB) ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]model.Application, error) {
	return db.listApplications(ctx,
		`SELECT id, owner_id, applicant_id, opportunity_id, status, text, media_ids, created_at, updated_at
		 FROM applications WHERE applicant_id = ? ORDER BY created_at DESC`,
		applicantID)
}

func (db *DB) listApplications(ctx context.Context, query string, args ...any) ([]model.Application, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications: %w", err)
	}
	defer rows.Close()

	apps := []model.Application{}
	for rows.Next() {
		var (
			a        model.Application
			mediaRaw string
		)
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.ApplicantID, &a.OpportunityID, &a.Status,
			&a.Text, &mediaRaw, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning application: %w", err)
		}
		if a.MediaIDs, err = decodeIDs(mediaRaw); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (db *DB) UpdateApplicationStatus(ctx context.Context, id, status string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating application %s: %w", id, err)
	}
	return requireRow(res, "application", id)
}

func (db *DB) WithdrawApplicationsByApplicant(ctx context.Context, applicantID string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE applications SET status = ?, updated_at = ? WHERE applicant_id = ?`,
		model.ApplicationWithdrawn, time.Now(), applicantID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: withdrawing applications for %s: %w", applicantID, err)
	}
	return nil
}

func (db *DB) DeleteApplicationsByOpportunity(ctx context.Context, opportunityID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM applications WHERE opportunity_id = ?`, opportunityID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting applications for %s: %w", opportunityID, err)
	}
	return nil
}
