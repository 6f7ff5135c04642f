package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"lending-library/internal/logger"
)

// Database is the SQLite backend: one row per collection holding the encoded
// payload.
type Database struct {
	db *sql.DB

	readStmt  *sql.Stmt
	writeStmt *sql.Stmt
}

var _ Backend = (*Database)(nil)

// NewDatabase opens (or creates) the SQLite database at dbPath, applies schema
// migrations, and prepares common statements.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db}
	if err := database.prepareStatements(); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// OpenDatabase opens dbPath like NewDatabase. When an existing file cannot be
// opened as a library database it is moved aside to
// <dbPath>.corrupt-<timestamp> and a fresh database is created in its place.
func OpenDatabase(dbPath string, log *logger.Logger) (*Database, error) {
	if log == nil {
		log = logger.NewNop()
	}
	_, statErr := os.Stat(dbPath)
	existed := statErr == nil

	db, err := NewDatabase(dbPath)
	if err != nil {
		if !existed {
			return nil, err
		}
		aside, qerr := quarantine(dbPath, time.Now())
		if qerr != nil {
			return nil, fmt.Errorf("%w (moving damaged database aside: %v)", err, qerr)
		}
		log.Warn("database unusable, starting empty", "path", dbPath, "moved_to", aside, "error", err)
		if db, err = NewDatabase(dbPath); err != nil {
			return nil, err
		}
	}

	if names, err := db.Collections(); err == nil {
		log.Debug("database opened", "path", dbPath, "collections", names)
	}
	return db, nil
}

// quarantine renames dbPath and any WAL sidecars out of the way.
func quarantine(dbPath string, now time.Time) (string, error) {
	aside := fmt.Sprintf("%s.corrupt-%s", dbPath, now.UTC().Format("20060102T150405.000000000"))
	if err := os.Rename(dbPath, aside); err != nil {
		return "", err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if _, err := os.Stat(dbPath + suffix); err == nil {
			if err := os.Rename(dbPath+suffix, aside+suffix); err != nil {
				return "", err
			}
		}
	}
	return aside, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.readStmt != nil {
		d.readStmt.Close()
	}
	if d.writeStmt != nil {
		d.writeStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS collections (
            name TEXT PRIMARY KEY,
            payload BLOB NOT NULL,
            saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.readStmt, err = d.db.Prepare(`SELECT payload FROM collections WHERE name=?`); err != nil {
		return err
	}
	if d.writeStmt, err = d.db.Prepare(`INSERT INTO collections(name,payload,saved_at) VALUES(?,?,?)
        ON CONFLICT(name) DO UPDATE SET payload=excluded.payload, saved_at=excluded.saved_at`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Backend
// ---------------------------------------------------------------------------

func (d *Database) Read(collection string) ([]byte, error) {
	var payload []byte
	err := d.readStmt.QueryRow(collection).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCollection
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	return payload, nil
}

// Write upserts the collection row in a single statement, so other
// collections are never touched.
func (d *Database) Write(collection string, payload []byte) error {
	if _, err := d.writeStmt.Exec(collection, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	return nil
}

// Collections lists the stored collection names in name order.
func (d *Database) Collections() ([]string, error) {
	rows, err := d.db.Query(`SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
