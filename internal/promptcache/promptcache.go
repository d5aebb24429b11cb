// Package promptcache memoizes per-file extraction results across CLI/MCP
// invocations, keyed on (file path, content hash). It is a batch-facing
// concern layered on top of internal/promptengine, not part of the per-file
// engine itself — ExtractBatch consults it before re-parsing an unchanged
// file.
package promptcache

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/zeebo/xxh3"

	"github.com/sourceprompt/promptscan/internal/prompttype"
)

// Now returns the current time in ISO 8601 format.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Cache wraps a SQLite connection holding cached extraction results.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// HashContent returns the xxh3 content hash of source, hex-encoded,
// operating on an in-memory buffer rather than re-reading the file.
func HashContent(source []byte) string {
	h := xxh3.New()
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

// defaultDir returns the default cache directory.
func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	dir := filepath.Join(home, ".cache", "promptscan")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir cache: %w", err)
	}
	return dir, nil
}

// Open opens (or creates) the default on-disk extraction cache.
func Open() (*Cache, error) {
	dir, err := defaultDir()
	if err != nil {
		return nil, err
	}
	return OpenPath(filepath.Join(dir, "extract-cache.db"))
}

// OpenPath opens (or creates) a SQLite-backed extraction cache at dbPath.
func OpenPath(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	c := &Cache{db: db, dbPath: dbPath}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return c, nil
}

// OpenMemory opens an in-memory cache, for tests.
func OpenMemory() (*Cache, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open memory cache db: %w", err)
	}
	c := &Cache{db: db, dbPath: ":memory:"}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return c, nil
}

func (c *Cache) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS extractions (
		file_path    TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		result       TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		PRIMARY KEY (file_path, content_hash)
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached Result for filePath at the given content hash. The
// second return value is false on a cache miss (including "row found but
// unmarshal failed", treated as a miss rather than an error — a stale or
// corrupt cache entry should never fail an extraction).
func (c *Cache) Get(filePath, contentHash string) (*prompttype.Result, bool) {
	var raw string
	err := c.db.QueryRow(
		`SELECT result FROM extractions WHERE file_path = ? AND content_hash = ?`,
		filePath, contentHash,
	).Scan(&raw)
	if err != nil {
		return nil, false
	}
	var res prompttype.Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, false
	}
	return &res, true
}

// Put stores result under (filePath, contentHash), replacing any prior entry
// for that path regardless of hash (an old hash for the same path is dead
// weight once the file has changed).
func (c *Cache) Put(filePath, contentHash string, result *prompttype.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if _, err := c.db.Exec(`DELETE FROM extractions WHERE file_path = ? AND content_hash != ?`, filePath, contentHash); err != nil {
		return fmt.Errorf("evict stale entry: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO extractions (file_path, content_hash, result, updated_at) VALUES (?, ?, ?, ?)`,
		filePath, contentHash, string(raw), Now(),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}
