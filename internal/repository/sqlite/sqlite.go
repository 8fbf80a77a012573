// Package sqlite implements the repository interfaces on SQLite through
// database/sql. modernc.org/sqlite is a pure-Go driver, so the binary
// builds without CGo. Each entity gets one table; ids are xid strings
// and every row carries created_at/updated_at.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB pool and implements every repository interface.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads during writes; a web server needs that.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates all tables. CREATE TABLE IF NOT EXISTS keeps it
// idempotent; list-valued fields are stored as JSON text.
func (db *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL DEFAULT '',
			profile_media TEXT NOT NULL DEFAULT '',
			birth_date    TEXT NOT NULL DEFAULT '',
			city          TEXT NOT NULL DEFAULT '',
			state         TEXT NOT NULL DEFAULT '',
			country       TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS applause (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL UNIQUE,
			value      REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS restrictions (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL UNIQUE,
			actor            INTEGER NOT NULL DEFAULT 0,
			casting_director INTEGER NOT NULL DEFAULT 0,
			admin            INTEGER NOT NULL DEFAULT 0,
			created_at       DATETIME NOT NULL,
			updated_at       DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS focused_posts (
			id          TEXT PRIMARY KEY,
			author_id   TEXT NOT NULL,
			content     TEXT NOT NULL DEFAULT '',
			media_ids   TEXT NOT NULL DEFAULT '[]',
			category_id TEXT NOT NULL,
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_author ON focused_posts(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_category ON focused_posts(category_id)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			author_id  TEXT NOT NULL,
			content    TEXT NOT NULL DEFAULT '',
			parent_id  TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id         TEXT PRIMARY KEY,
			tagger_id  TEXT NOT NULL,
			tagged_id  TEXT NOT NULL,
			post_id    TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE (tagged_id, post_id)
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			parent_id  TEXT NOT NULL,
			upvote     INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE (user_id, parent_id)
		)`,
		`CREATE TABLE IF NOT EXISTS connection_requests (
			id         TEXT PRIMARY KEY,
			from_id    TEXT NOT NULL,
			to_id      TEXT NOT NULL,
			status     TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_from ON connection_requests(from_id)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_to ON connection_requests(to_id)`,
		`CREATE TABLE IF NOT EXISTS connections (
			id         TEXT PRIMARY KEY,
			user1_id   TEXT NOT NULL,
			user2_id   TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS challenges (
			id            TEXT PRIMARY KEY,
			challenger_id TEXT NOT NULL,
			prompt        TEXT NOT NULL,
			posted        INTEGER NOT NULL DEFAULT 0,
			num_accepted  INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS opportunities (
			id           TEXT PRIMARY KEY,
			owner_id     TEXT NOT NULL,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			start_on     DATETIME NOT NULL,
			ends_on      DATETIME NOT NULL,
			expires_on   DATETIME NOT NULL,
			requirements TEXT NOT NULL DEFAULT '',
			is_active    INTEGER NOT NULL DEFAULT 1,
			created_at   DATETIME NOT NULL,
			updated_at   DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_opportunities_owner ON opportunities(owner_id)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id             TEXT PRIMARY KEY,
			owner_id       TEXT NOT NULL,
			applicant_id   TEXT NOT NULL,
			opportunity_id TEXT NOT NULL,
			status         TEXT NOT NULL,
			text           TEXT NOT NULL DEFAULT '',
			media_ids      TEXT NOT NULL DEFAULT '[]',
			created_at     DATETIME NOT NULL,
			updated_at     DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_opportunity ON applications(opportunity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_applicant ON applications(applicant_id)`,
		`CREATE TABLE IF NOT EXISTS queues (
			id               TEXT PRIMARY KEY,
			manager_id       TEXT NOT NULL,
			opportunity_id   TEXT NOT NULL UNIQUE,
			applicants       TEXT NOT NULL DEFAULT '[]',
			start_time       DATETIME NOT NULL,
			minutes_per      INTEGER NOT NULL,
			current_position INTEGER NOT NULL DEFAULT 0,
			total_queued     INTEGER NOT NULL DEFAULT 0,
			created_at       DATETIME NOT NULL,
			updated_at       DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS portfolios (
			id          TEXT PRIMARY KEY,
			owner_id    TEXT NOT NULL UNIQUE,
			style       TEXT NOT NULL DEFAULT '{}',
			intro       TEXT NOT NULL DEFAULT '',
			info        TEXT NOT NULL DEFAULT '{}',
			media_ids   TEXT NOT NULL DEFAULT '[]',
			headshot_id TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS practice_folders (
			id           TEXT PRIMARY KEY,
			owner_id     TEXT NOT NULL UNIQUE,
			content_ids  TEXT NOT NULL DEFAULT '[]',
			num_contents INTEGER NOT NULL DEFAULT 0,
			created_at   DATETIME NOT NULL,
			updated_at   DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS repertoire_folders (
			id          TEXT PRIMARY KEY,
			owner_id    TEXT NOT NULL,
			name        TEXT NOT NULL,
			content_ids TEXT NOT NULL DEFAULT '[]',
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_repertoire_owner ON repertoire_folders(owner_id)`,
		`CREATE TABLE IF NOT EXISTS media (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL,
			url        TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_media_owner ON media(owner_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// encodeIDs serializes a string list into its JSON column form.
// A nil slice is stored as an empty list so decode always round-trips.
func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encoding id list: %w", err)
	}
	return string(raw), nil
}

func decodeIDs(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decoding id list: %w", err)
	}
	return ids, nil
}

func encodeJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding json column: %w", err)
	}
	return string(raw), nil
}

func decodeJSON(raw string, v any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decoding json column: %w", err)
	}
	return nil
}
