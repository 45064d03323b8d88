package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Table names.
const (
	tableKV      = "kv"
	tableResults = "results"
)

// Store owns the SQLite database behind the key-value store and the local
// result history.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// KV returns the key-value table of this store.
func (s *Store) KV() *SQLiteKV {
	return &SQLiteKV{db: s.db}
}

// Results returns the result history of this store.
func (s *Store) Results() *ResultRepo {
	return &ResultRepo{db: s.db}
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func migrate(ctx context.Context, db *sql.DB) error {
	b := builder()
	tables := []*entsql.TableBuilder{
		b.CreateTable(tableKV).IfNotExists().
			Columns(
				b.Column("key").Type("TEXT").Attr("NOT NULL"),
				b.Column("value").Type("TEXT").Attr("NOT NULL"),
				b.Column("updated_at").Type("INTEGER").Attr("NOT NULL"),
			).
			PrimaryKey("key"),
		b.CreateTable(tableResults).IfNotExists().
			Columns(
				b.Column("id").Type("TEXT").Attr("NOT NULL"),
				b.Column("name").Type("TEXT").Attr("NOT NULL"),
				b.Column("email").Type("TEXT").Attr("NOT NULL"),
				b.Column("phone").Type("TEXT").Attr("NOT NULL"),
				b.Column("scores").Type("TEXT").Attr("NOT NULL"),
				b.Column("sent").Type("INTEGER").Attr("NOT NULL DEFAULT 0"),
				b.Column("created_at").Type("INTEGER").Attr("NOT NULL"),
			).
			PrimaryKey("id"),
	}
	for _, t := range tables {
		query, args := t.Query()
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: %w", query, err)
		}
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. ARCHETYPE_DB environment variable
// 2. $XDG_DATA_HOME/archetype/archetype.db
// 3. ~/.local/share/archetype/archetype.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("ARCHETYPE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "archetype.db")
	return p, EnsureDir(p)
}

// DataDir returns the application data directory.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "archetype"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
