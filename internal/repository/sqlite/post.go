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
	_ repository.CategoryRepository = (*DB)(nil)
	_ repository.PostRepository    = (*DB)(nil)
)

func (db *DB) CreateCategory(ctx context.Context, c *model.Category) error {
	c.ID = xid.New().String()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("category", fmt.Sprintf("name %q already exists", c.Name))
		}
		return fmt.Errorf("sqlite: creating category: %w", err)
	}
	return nil
}

func (db *DB) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM categories WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("category", id)
		}
		return nil, fmt.Errorf("sqlite: getting category %s: %w", id, err)
	}
	return &c, nil
}

func (db *DB) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM categories WHERE name = ?`,
		name,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("category", name)
		}
		return nil, fmt.Errorf("sqlite: getting category %q: %w", name, err)
	}
	return &c, nil
}

func (db *DB) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	cats := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (db *DB) DeleteCategory(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting category %s: %w", id, err)
	}
	return requireRow(res, "category", id)
}

func (db *DB) CreatePost(ctx context.Context, p *model.FocusedPost) error {
	p.ID = xid.New().String()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	mediaIDs, err := encodeIDs(p.MediaIDs)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO focused_posts (id, author_id, content, media_ids, category_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.AuthorID, p.Content, mediaIDs, p.CategoryID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}
	return nil
}

func (db *DB) GetPostByID(ctx context.Context, id string) (*model.FocusedPost, error) {
	var (
		p        model.FocusedPost
		mediaRaw string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, author_id, content, media_ids, category_id, created_at, updated_at
		 FROM focused_posts WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.AuthorID, &p.Content, &mediaRaw, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}
	if p.MediaIDs, err = decodeIDs(mediaRaw); err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) ListPosts(ctx context.Context, opts repository.ListOptions) ([]model.FocusedPost, error) {
	return db.listPosts(ctx,
		`SELECT id, author_id, content, media_ids, category_id, created_at, updated_at
		 FROM focused_posts ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset)
}

func (db *DB) ListPostsByAuthor(ctx context.Context, authorID string) ([]model.FocusedPost, error) {
	return db.listPosts(ctx,
		`SELECT id, author_id, content, media_ids, category_id, created_at, updated_at
		 FROM focused_posts WHERE author_id = ? ORDER BY created_at DESC`,
		authorID)
}

func (db *DB) ListPostsByCategory(ctx context.Context, categoryID string) ([]model.FocusedPost, error) {
	return db.listPosts(ctx,
		`SELECT id, author_id, content, media_ids, category_id, created_at, updated_at
		 FROM focused_posts WHERE category_id = ? ORDER BY created_at DESC`,
		categoryID)
}

func (db *DB) listPosts(ctx context.Context, query string, args ...any) ([]model.FocusedPost, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.FocusedPost{}
	for rows.Next() {
		var (
			p        model.FocusedPost
			mediaRaw string
		)
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Content, &mediaRaw, &p.CategoryID,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post: %w", err)
		}
		if p.MediaIDs, err = decodeIDs(mediaRaw); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (db *DB) UpdatePost(ctx context.Context, p *model.FocusedPost) error {
	p.UpdatedAt = time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE focused_posts SET content = ?, category_id = ?, updated_at = ? WHERE id = ?`,
		p.Content, p.CategoryID, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", p.ID, err)
	}
	return requireRow(res, "post", p.ID)
}

func (db *DB) DeletePost(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM focused_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}
	return requireRow(res, "post", id)
}
