package cache

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/bookdiff/internal/model"
)

// FileName is the database file name inside the cache directory.
const FileName = "bookdiff.db"

// Cache provides SQLite-based storage for fingerprints and comparison
// history.
type Cache struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Cache behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the cache database in dir.
// If CreateIfNotExists is false and the database doesn't exist, an error
// wrapping ErrNotFound is returned.
func Open(dir string, opts Options) (*Cache, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("cache database %s: %w", dbPath, ErrNotFound)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check cache path: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	c := &Cache{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := c.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

func (c *Cache) createTables() error {
	schema := `
	-- Page fingerprints keyed by image content and hasher
	CREATE TABLE IF NOT EXISTS fingerprints (
		digest TEXT NOT NULL,
		hasher TEXT NOT NULL,
		bits TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (digest, hasher)
	);

	-- Finished comparisons
	CREATE TABLE IF NOT EXISTS comparisons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		old_source TEXT NOT NULL,
		new_source TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		threshold INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		summary_json TEXT NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_comparisons_timestamp ON comparisons(timestamp);
	`

	_, err := c.db.ExecContext(context.Background(), schema)
	return err
}

// Digest returns the hex SHA3-256 digest of encoded image bytes.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached fingerprint for a content digest and hasher name.
// ok is false when nothing is cached.
func (c *Cache) Get(ctx context.Context, digest, hasher string) (bits model.Bits, ok bool, err error) {
	query := `SELECT bits FROM fingerprints WHERE digest = ? AND hasher = ?`

	var encoded string
	err = c.db.QueryRowContext(ctx, query, digest, hasher).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get fingerprint: %w", err)
	}

	bits, err = model.ParseBits(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt fingerprint for %s: %w", digest, err)
	}
	return bits, true, nil
}

// Put stores a fingerprint, replacing any previous value.
func (c *Cache) Put(ctx context.Context, digest, hasher string, bits model.Bits) error {
	query := `
	INSERT INTO fingerprints (digest, hasher, bits)
	VALUES (?, ?, ?)
	ON CONFLICT(digest, hasher) DO UPDATE SET
		bits = excluded.bits,
		created_at = CURRENT_TIMESTAMP
	`

	if _, err := c.db.ExecContext(ctx, query, digest, hasher, bits.String()); err != nil {
		return fmt.Errorf("failed to put fingerprint: %w", err)
	}
	return nil
}

// Count returns the number of cached fingerprints.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fingerprints`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count fingerprints: %w", err)
	}
	return n, nil
}

// Purge deletes fingerprints stored before the given time and returns how
// many were removed.
func (c *Cache) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM fingerprints WHERE created_at < ?`,
		before.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge fingerprints: %w", err)
	}
	return res.RowsAffected()
}
