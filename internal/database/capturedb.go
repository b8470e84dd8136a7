package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/framecap/internal/model"
)

// dbFileName is the SQLite file created under the database directory.
const dbFileName = "framecap.db"

// ErrCaptureNotFound is returned when a capture ID does not exist.
var ErrCaptureNotFound = errors.New("database: capture not found")

// CaptureDB provides SQLite-based storage for capture documents.
// It manages connection pooling and provides methods for CRUD operations.
type CaptureDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CaptureDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CaptureDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CaptureDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CaptureDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CaptureDB) Close() error {
	return cdb.db.Close()
}

// Path returns the SQLite file path backing this store.
func (cdb *CaptureDB) Path() string {
	return cdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CaptureDB) createTables() error {
	schema := `
	-- Captures store complete composed documents as JSON plus queryable
	-- metadata so listings never deserialize full trees.
	CREATE TABLE IF NOT EXISTS captures (
		id TEXT PRIMARY KEY,
		source_url TEXT NOT NULL,
		title TEXT,
		captured_at DATETIME NOT NULL,
		partial INTEGER NOT NULL DEFAULT 0,
		viewport_count INTEGER NOT NULL DEFAULT 0,
		node_count INTEGER NOT NULL DEFAULT 0,
		warning_count INTEGER NOT NULL DEFAULT 0,
		document TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_captures_source ON captures(source_url);
	CREATE INDEX IF NOT EXISTS idx_captures_created ON captures(created_at);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// CaptureMetadata contains summary information about a stored capture.
// This is used for displaying capture listings without loading full documents.
type CaptureMetadata struct {
	// ID is the unique identifier of the capture in the database.
	ID string

	// SourceURL is the captured page's URL.
	SourceURL string

	// Title is the page title at capture time.
	Title string

	// CapturedAt is when the capture run finished.
	CapturedAt time.Time

	// CreatedAt is when the capture was stored.
	CreatedAt time.Time

	// Partial is true when the stored document is incomplete.
	Partial bool

	// ViewportCount is the number of captured breakpoints.
	ViewportCount int

	// NodeCount is the total node count across viewports.
	NodeCount int

	// WarningCount is the number of absorbed failures across viewports.
	WarningCount int
}

// SaveDocument stores a capture document and returns its generated ID.
func (cdb *CaptureDB) SaveDocument(ctx context.Context, doc *model.CaptureDocument) (string, error) {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}

	warningCount := 0
	for _, v := range doc.Viewports {
		warningCount += len(v.Warnings)
	}

	id := uuid.NewString()
	query := `
	INSERT INTO captures (id, source_url, title, captured_at, partial, viewport_count, node_count, warning_count, document)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = cdb.db.ExecContext(ctx, query,
		id,
		doc.SourceURL,
		doc.Title,
		doc.CapturedAt.UTC().Format(time.RFC3339),
		doc.Partial,
		len(doc.Viewports),
		doc.NodeCount(),
		warningCount,
		string(docJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save capture: %w", err)
	}

	return id, nil
}

// GetDocument retrieves a capture document by its ID.
// Returns nil without error when the ID does not exist.
func (cdb *CaptureDB) GetDocument(ctx context.Context, id string) (*model.CaptureDocument, error) {
	query := `
	SELECT document FROM captures
	WHERE id = ?
	`

	var docJSON string
	err := cdb.db.QueryRowContext(ctx, query, id).Scan(&docJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get capture: %w", err)
	}

	var doc model.CaptureDocument
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse stored document: %w", err)
	}

	return &doc, nil
}

// LatestDocument retrieves the most recently stored capture document.
// A non-empty sourceURL restricts the lookup to that page.
// Returns nil without error when nothing matches.
func (cdb *CaptureDB) LatestDocument(ctx context.Context, sourceURL string) (*model.CaptureDocument, error) {
	query := `
	SELECT document FROM captures
	`
	args := make([]interface{}, 0)

	if sourceURL != "" {
		query += " WHERE source_url = ?"
		args = append(args, sourceURL)
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT 1"

	var docJSON string
	err := cdb.db.QueryRowContext(ctx, query, args...).Scan(&docJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest capture: %w", err)
	}

	var doc model.CaptureDocument
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse stored document: %w", err)
	}

	return &doc, nil
}

// ListCaptures returns stored capture metadata, newest first.
// A non-empty sourceURL restricts the listing to that page.
// This is more efficient than loading documents when only metadata is needed.
func (cdb *CaptureDB) ListCaptures(ctx context.Context, sourceURL string) ([]CaptureMetadata, error) {
	query := `
	SELECT id, source_url, title, captured_at, created_at, partial, viewport_count, node_count, warning_count
	FROM captures
	`
	args := make([]interface{}, 0)

	if sourceURL != "" {
		query += " WHERE source_url = ?"
		args = append(args, sourceURL)
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list captures: %w", err)
	}
	defer rows.Close()

	var results []CaptureMetadata
	for rows.Next() {
		var meta CaptureMetadata
		var title sql.NullString
		var capturedAt, createdAt string

		if err := rows.Scan(
			&meta.ID,
			&meta.SourceURL,
			&title,
			&capturedAt,
			&createdAt,
			&meta.Partial,
			&meta.ViewportCount,
			&meta.NodeCount,
			&meta.WarningCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan capture metadata: %w", err)
		}

		meta.Title = title.String
		meta.CapturedAt = parseTimestamp(capturedAt)
		meta.CreatedAt = parseTimestamp(createdAt)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// DeleteCapture removes a stored capture by its ID.
// Returns ErrCaptureNotFound when the ID does not exist.
func (cdb *CaptureDB) DeleteCapture(ctx context.Context, id string) error {
	result, err := cdb.db.ExecContext(ctx, `DELETE FROM captures WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete capture: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrCaptureNotFound, id)
	}
	return nil
}

// CountCaptures returns the number of stored captures.
func (cdb *CaptureDB) CountCaptures(ctx context.Context) (int, error) {
	var count int
	if err := cdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM captures`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count captures: %w", err)
	}
	return count, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
