// Package records implements the genealogy record store.
//
// It persists person records, their attribute journals (events, professions,
// addresses), archival sources, the crawl dedup ledger, comments, attachment
// fetch state and the relationship graph in SQLite. Every operation is a
// single short transaction against the database; referential rules (cascade
// on person delete, nullify on source delete) are enforced by foreign keys.
package records

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Config holds record store configuration.
type Config struct {
	DataDir              string
	MaxSearchResults     int
	MaxUnprocessedCrawls int
}

// DefaultConfig returns the default configuration for the record store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:              filepath.Join(home, ".genealogy-memory"),
		MaxSearchResults:     100,
		MaxUnprocessedCrawls: 200,
	}
}

// Store is the genealogy record engine backed by SQLite.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates a new Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode
// and foreign keys enabled, and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("records: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "genealogy.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("records: open database: %w", err)
	}

	// SQLite pragmas. foreign_keys is load-bearing: cascade and
	// nullify rules live in the schema, not in Go code.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("records: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("records: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS persons (
			person_id             TEXT PRIMARY KEY,
			given_name            TEXT,
			prefix                TEXT,
			surname               TEXT,
			gender                TEXT,
			birth_year_estimate   INTEGER,
			death_year_estimate   INTEGER,
			notes                 TEXT,
			full_name_normalized  TEXT,
			confidence_score      REAL    NOT NULL DEFAULT 1.0,
			verified              INTEGER NOT NULL DEFAULT 0,
			research_status       TEXT    NOT NULL DEFAULT 'unreviewed',
			research_notes        TEXT,
			possible_duplicate_of TEXT REFERENCES persons(person_id) ON DELETE SET NULL,
			created_at            TEXT    NOT NULL DEFAULT (datetime('now')),
			updated_at            TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_persons_name    ON persons(surname, given_name);
		CREATE INDEX IF NOT EXISTS idx_persons_normal  ON persons(full_name_normalized);

		CREATE TABLE IF NOT EXISTS crawl_log (
			crawl_id     INTEGER PRIMARY KEY AUTOINCREMENT,
			url          TEXT    NOT NULL UNIQUE,
			http_status  INTEGER,
			content_hash TEXT,
			notes        TEXT,
			processed    INTEGER NOT NULL DEFAULT 0,
			first_seen   TEXT    NOT NULL DEFAULT (datetime('now')),
			last_seen    TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_crawl_processed ON crawl_log(processed, first_seen);

		CREATE TABLE IF NOT EXISTS sources (
			source_id        TEXT PRIMARY KEY,
			source_type      TEXT,
			archive_code     TEXT,
			archive_name     TEXT,
			identifier       TEXT,
			url              TEXT,
			collection       TEXT,
			document_number  TEXT,
			registry_number  TEXT,
			institution_name TEXT,
			raw_json         TEXT,
			notes            TEXT,
			image_url        TEXT,
			crawl_id         INTEGER REFERENCES crawl_log(crawl_id) ON DELETE SET NULL,
			created_at       TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_sources_url ON sources(url);

		CREATE TABLE IF NOT EXISTS events (
			event_id     TEXT PRIMARY KEY,
			person_id    TEXT NOT NULL REFERENCES persons(person_id) ON DELETE CASCADE,
			event_type   TEXT NOT NULL,
			date_literal TEXT,
			year         INTEGER,
			month        INTEGER,
			day          INTEGER,
			place        TEXT,
			country      TEXT,
			source_id    TEXT REFERENCES sources(source_id) ON DELETE SET NULL,
			notes        TEXT,
			created_at   TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_events_person ON events(person_id, year);

		CREATE TABLE IF NOT EXISTS professions (
			profession_id TEXT PRIMARY KEY,
			person_id     TEXT NOT NULL REFERENCES persons(person_id) ON DELETE CASCADE,
			title         TEXT NOT NULL,
			start_year    INTEGER,
			end_year      INTEGER,
			location      TEXT,
			source_id     TEXT REFERENCES sources(source_id) ON DELETE SET NULL,
			notes         TEXT,
			created_at    TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_professions_person ON professions(person_id, start_year);

		CREATE TABLE IF NOT EXISTS addresses (
			address_id   TEXT PRIMARY KEY,
			person_id    TEXT NOT NULL REFERENCES persons(person_id) ON DELETE CASCADE,
			street       TEXT,
			house_number TEXT,
			city         TEXT,
			province     TEXT,
			country      TEXT,
			start_year   INTEGER,
			end_year     INTEGER,
			source_id    TEXT REFERENCES sources(source_id) ON DELETE SET NULL,
			notes        TEXT,
			created_at   TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_addresses_person ON addresses(person_id, start_year);

		CREATE TABLE IF NOT EXISTS comments (
			comment_id TEXT PRIMARY KEY,
			person_id  TEXT REFERENCES persons(person_id) ON DELETE SET NULL,
			source_id  TEXT REFERENCES sources(source_id) ON DELETE SET NULL,
			author     TEXT,
			text       TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_comments_person ON comments(person_id, created_at);

		CREATE TABLE IF NOT EXISTS attachments (
			attachment_id TEXT PRIMARY KEY,
			person_id     TEXT REFERENCES persons(person_id) ON DELETE SET NULL,
			source_id     TEXT REFERENCES sources(source_id) ON DELETE SET NULL,
			file_name     TEXT,
			file_type     TEXT,
			file_path     TEXT,
			description   TEXT,
			download_url  TEXT,
			should_fetch  INTEGER NOT NULL DEFAULT 0,
			fetched       INTEGER NOT NULL DEFAULT 0,
			claimed_at    TEXT,
			created_at    TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_attachments_queue ON attachments(person_id, should_fetch, fetched);

		CREATE TABLE IF NOT EXISTS relationships (
			relationship_id  TEXT PRIMARY KEY,
			person_id_a      TEXT NOT NULL REFERENCES persons(person_id) ON DELETE CASCADE,
			person_id_b      TEXT NOT NULL REFERENCES persons(person_id) ON DELETE CASCADE,
			relation_type    TEXT NOT NULL,
			confidence_score REAL NOT NULL DEFAULT 1.0,
			notes            TEXT,
			created_at       TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_rel_a ON relationships(person_id_a);
		CREATE INDEX IF NOT EXISTS idx_rel_b ON relationships(person_id_b);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// ─── Shared helpers ──────────────────────────────────────────────────────────

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableInt(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}
