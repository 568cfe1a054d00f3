package database

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/slashannots/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "slashannots.db"

// timestampLayout stores UTC timestamps with a fixed width so that text
// comparison orders them chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// HistoryDB stores redaction reports.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
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

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

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

	// mode=rw refuses to create a missing file, mode=rwc allows it.
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

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input_path TEXT NOT NULL,
		output_path TEXT,
		input_digest TEXT,
		output_digest TEXT,
		timestamp DATETIME NOT NULL,
		pages INTEGER DEFAULT 0,
		annotations_seen INTEGER DEFAULT 0,
		names_redacted INTEGER DEFAULT 0,
		dates_redacted INTEGER DEFAULT 0,
		error TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input_path);
	CREATE INDEX IF NOT EXISTS idx_runs_input_digest ON runs(input_digest);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport stores a redaction report and returns its row ID.
// Author names are replaced by salted digests before the report is stored;
// see Pseudonymize.
func (hdb *HistoryDB) SaveReport(ctx context.Context, report *model.RedactionReport) (int64, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return 0, fmt.Errorf("failed to generate salt: %w", err)
	}
	report = Pseudonymize(report, salt)

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	totals := report.Totals()
	query := `
	INSERT INTO runs (input_path, output_path, input_digest, output_digest, timestamp,
		pages, annotations_seen, names_redacted, dates_redacted, error, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		report.InputPath,
		report.OutputPath,
		report.InputDigest,
		report.OutputDigest,
		report.DateRedacted.UTC().Format(timestampLayout),
		report.Pages,
		totals.Seen,
		totals.NamesRedacted,
		totals.DatesRedacted(),
		report.Error,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save report: %w", err)
	}

	return result.LastInsertId()
}

// RunMetadata contains summary information about a stored run.
// It is used for listing history without loading the full report.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// InputPath is the document that was read.
	InputPath string

	// OutputPath is the written document, empty for failed runs.
	OutputPath string

	// InputDigest is the hex SHA3-256 digest of the input.
	InputDigest string

	// Timestamp is when the run was performed.
	Timestamp time.Time

	// Seen is the number of annotations that were examined.
	Seen int

	// NamesRedacted is the number of replaced author names.
	NamesRedacted int

	// DatesRedacted is the number of truncated dates.
	DatesRedacted int

	// Error is the failure message, empty for successful runs.
	Error string
}

// Succeeded reports whether the run produced an output document.
func (m RunMetadata) Succeeded() bool {
	return m.Error == "" && m.OutputPath != ""
}

// ListRuns returns run metadata, newest first. A non-empty inputPath
// restricts the list to runs of that file; limit <= 0 means no limit.
func (hdb *HistoryDB) ListRuns(ctx context.Context, inputPath string, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, input_path, output_path, input_digest, timestamp,
		annotations_seen, names_redacted, dates_redacted, error
	FROM runs
	WHERE (? = '' OR input_path = ?)
	ORDER BY timestamp DESC, id DESC
	`
	args := []any{inputPath, inputPath}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return hdb.queryMetadata(ctx, query, args...)
}

// ListRunsByDigest returns the runs whose input or output had the given
// digest, newest first. It finds the history of a file that was moved or renamed.
func (hdb *HistoryDB) ListRunsByDigest(ctx context.Context, digest string) ([]RunMetadata, error) {
	query := `
	SELECT id, input_path, output_path, input_digest, timestamp,
		annotations_seen, names_redacted, dates_redacted, error
	FROM runs
	WHERE input_digest = ? OR output_digest = ?
	ORDER BY timestamp DESC, id DESC
	`
	return hdb.queryMetadata(ctx, query, digest, digest)
}

// queryMetadata runs a metadata query and scans its rows.
func (hdb *HistoryDB) queryMetadata(ctx context.Context, query string, args ...any) ([]RunMetadata, error) {
	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var outputPath, inputDigest, errMsg sql.NullString

		if err := rows.Scan(&meta.ID, &meta.InputPath, &outputPath, &inputDigest, &timestamp,
			&meta.Seen, &meta.NamesRedacted, &meta.DatesRedacted, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		meta.OutputPath = outputPath.String
		meta.InputDigest = inputDigest.String
		meta.Error = errMsg.String
		meta.Timestamp = parseTimestamp(timestamp)

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetReportByID retrieves a stored report by its database ID.
// It returns nil and no error when the ID does not exist.
func (hdb *HistoryDB) GetReportByID(ctx context.Context, id int64) (*model.RedactionReport, error) {
	query := `
	SELECT report_json FROM runs
	WHERE id = ?
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.RedactionReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// DeleteBefore removes runs older than cutoff and returns how many were deleted.
func (hdb *HistoryDB) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := hdb.db.ExecContext(ctx,
		"DELETE FROM runs WHERE timestamp < ?",
		cutoff.UTC().Format(timestampLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return result.RowsAffected()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, it returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
