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

var (
	_ repository.PortfolioRepository = (*DB)(nil)
	_ repository.FolderRepository    = (*DB)(nil)
)

func (db *DB) CreatePortfolio(ctx context.Context, p *model.Portfolio) error {
	p.ID = xid.New().String()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	style, err := encodeJSON(p.Style)
	if err != nil {
		return err
	}
	info, err := encodeJSON(p.Info)
	if err != nil {
		return err
	}
	mediaIDs, err := encodeIDs(p.MediaIDs)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO portfolios (id, owner_id, style, intro, info, media_ids, headshot_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, style, p.Intro, info, mediaIDs, p.HeadshotID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("portfolio", fmt.Sprintf("already exists for user %s", p.OwnerID))
		}
		return fmt.Errorf("sqlite: creating portfolio: %w", err)
	}
	return nil
}

func (db *DB) GetPortfolioByOwner(ctx context.Context, ownerID string) (*model.Portfolio, error) {
	var (
		p                        model.Portfolio
		styleRaw, infoRaw, media string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, owner_id, style, intro, info, media_ids, headshot_id, created_at, updated_at
		 FROM portfolios WHERE owner_id = ?`,
		ownerID,
	).Scan(&p.ID, &p.OwnerID, &styleRaw, &p.Intro, &infoRaw, &media, &p.HeadshotID,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("portfolio", ownerID)
		}
		return nil, fmt.Errorf("sqlite: getting portfolio for %s: %w", ownerID, err)
	}
	if err := decodeJSON(styleRaw, &p.Style); err != nil {
		return nil, err
	}
	if err := decodeJSON(infoRaw, &p.Info); err != nil {
		return nil, err
	}
	if p.MediaIDs, err = decodeIDs(media); err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) UpdatePortfolio(ctx context.Context, p *model.Portfolio) error {
	p.UpdatedAt = time.Now()

	style, err := encodeJSON(p.Style)
	if err != nil {
		return err
	}
	info, err := encodeJSON(p.Info)
	if err != nil {
		return err
	}
	mediaIDs, err := encodeIDs(p.MediaIDs)
	if err != nil {
		return err
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE portfolios SET style = ?, intro = ?, info = ?, media_ids = ?, headshot_id = ?, updated_at = ?
		 WHERE owner_id = ?`,
		style, p.Intro, info, mediaIDs, p.HeadshotID, p.UpdatedAt, p.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating portfolio for %s: %w", p.OwnerID, err)
	}
	return requireRow(res, "portfolio", p.OwnerID)
}

func (db *DB) DeletePortfolioByOwner(ctx context.Context, ownerID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM portfolios WHERE owner_id = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting portfolio for %s: %w", ownerID, err)
	}
	return nil
}

func (db *DB) CreatePracticeFolder(ctx context.Context, f *model.PracticeFolder) error {
	f.ID = xid.New().String()
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now

	contentIDs, err := encodeIDs(f.ContentIDs)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO practice_folders (id, owner_id, content_ids, num_contents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.OwnerID, contentIDs, f.NumContents, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("practice folder", fmt.Sprintf("already exists for user %s", f.OwnerID))
		}
		return fmt.Errorf("sqlite: creating practice folder: %w", err)
	}
	return nil
}

func (db *DB) GetPracticeFolderByOwner(ctx context.Context, ownerID string) (*model.PracticeFolder, error) {
	var (
		f       model.PracticeFolder
		content string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, owner_id, content_ids, num_contents, created_at, updated_at
		 FROM practice_folders WHERE owner_id = ?`,
		ownerID,
	).Scan(&f.ID, &f.OwnerID, &content, &f.NumContents, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("practice folder", ownerID)
		}
		return nil, fmt.Errorf("sqlite: getting practice folder for %s: %w", ownerID, err)
	}
	if f.ContentIDs, err = decodeIDs(content); err != nil {
		return nil, err
	}
	return &f, nil
}

func (db *DB) UpdatePracticeFolder(ctx context.Context, f *model.PracticeFolder) error {
	f.UpdatedAt = time.Now()
	contentIDs, err := encodeIDs(f.ContentIDs)
	if err != nil {
		return err
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE practice_folders SET content_ids = ?, num_contents = ?, updated_at = ? WHERE owner_id = ?`,
		contentIDs, f.NumContents, f.UpdatedAt, f.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating practice folder for %s: %w", f.OwnerID, err)
	}
	return requireRow(res, "practice folder", f.OwnerID)
}

func (db *DB) DeletePracticeFolderByOwner(ctx context.Context, ownerID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM practice_folders WHERE owner_id = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting practice folder for %s: %w", ownerID, err)
	}
	return nil
}

func (db *DB) CreateRepertoireFolder(ctx context.Context, f *model.RepertoireFolder) error {
	f.ID = xid.New().String()
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now

	contentIDs, err := encodeIDs(f.ContentIDs)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO repertoire_folders (id, owner_id, name, content_ids, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.OwnerID, f.Name, contentIDs, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating repertoire folder: %w", err)
	}
	return nil
}

func (db *DB) GetRepertoireFolderByID(ctx context.Context, id string) (*model.RepertoireFolder, error) {
	var (
		f       model.RepertoireFolder
		content string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, owner_id, name, content_ids, created_at, updated_at
		 FROM repertoire_folders WHERE id = ?`,
		id,
	).Scan(&f.ID, &f.OwnerID, &f.Name, &content, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("repertoire folder", id)
		}
		return nil, fmt.Errorf("sqlite: getting repertoire folder %s: %w", id, err)
	}
	if f.ContentIDs, err = decodeIDs(content); err != nil {
		return nil, err
	}
	return &f, nil
}

func (db *DB) ListRepertoireFoldersByOwner(ctx context.Context, ownerID string) ([]model.RepertoireFolder, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, owner_id, name, content_ids, created_at, updated_at
		 FROM repertoire_folders WHERE owner_id = ? ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing repertoire folders for %s: %w", ownerID, err)
	}
	defer rows.Close()

	folders := []model.RepertoireFolder{}
	for rows.Next() {
		var (
			f       model.RepertoireFolder
			content string
		)
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Name, &content, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning repertoire folder: %w", err)
		}
		if f.ContentIDs, err = decodeIDs(content); err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (db *DB) UpdateRepertoireFolder(ctx context.Context, f *model.RepertoireFolder) error {
	f.UpdatedAt = time.Now()
	contentIDs, err := encodeIDs(f.ContentIDs)
	if err != nil {
		return err
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE repertoire_folders SET name = ?, content_ids = ?, updated_at = ? WHERE id = ?`,
		f.Name, contentIDs, f.UpdatedAt, f.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating repertoire folder %s: %w", f.ID, err)
	}
	return requireRow(res, "repertoire folder", f.ID)
}

func (db *DB) DeleteRepertoireFolder(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM repertoire_folders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting repertoire folder %s: %w", id, err)
	}
	return requireRow(res, "repertoire folder", id)
}

func (db *DB) DeleteRepertoireFoldersByOwner(ctx context.Context, ownerID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM repertoire_folders WHERE owner_id = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting repertoire folders for %s: %w", ownerID, err)
	}
	return nil
}
