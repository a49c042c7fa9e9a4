// Package index provides SQLite-backed persistence for parsed prompt
// pages with optional FTS5 full-text search.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/promptdeck/internal/models"
)

// PageIndex defines the persistence operations for prompt pages.
// Consumers should depend on this interface rather than the concrete
// *DB type to facilitate testing with mocks.
type PageIndex interface {
	ReplacePage(p models.Page) error
	UpsertMasterPrompt(mp models.MasterPrompt) error
	DeleteFile(path string) error
	GetPage(path string) (*models.Page, error)
	ListPages() ([]models.Page, error)
	ListMasterPrompts() ([]models.MasterPrompt, error)
	AllChecksums() (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies PageIndex at compile time.
var _ PageIndex = (*DB)(nil)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS pages (
	file_path   TEXT PRIMARY KEY,
	target_file TEXT NOT NULL DEFAULT '',
	checksum    TEXT NOT NULL DEFAULT '',
	search_text TEXT NOT NULL DEFAULT '',
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sections (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	page_path  TEXT NOT NULL,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	start_line INTEGER NOT NULL,
	end_line   INTEGER NOT NULL,
	purpose    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS prompts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	section_id  INTEGER NOT NULL,
	position    INTEGER NOT NULL,
	template    TEXT NOT NULL,
	example     TEXT NOT NULL DEFAULT '',
	line_number INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS master_prompts (
	page_file_path   TEXT PRIMARY KEY,
	file_path        TEXT NOT NULL DEFAULT '',
	checksum         TEXT NOT NULL DEFAULT '',
	nlp_instruction  TEXT NOT NULL DEFAULT '',
	sections_summary TEXT NOT NULL DEFAULT '',
	query_examples   TEXT NOT NULL DEFAULT '',
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sections_page ON sections(page_path);
CREATE INDEX IF NOT EXISTS idx_prompts_section ON prompts(section_id);
CREATE INDEX IF NOT EXISTS idx_master_prompts_file ON master_prompts(file_path);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
