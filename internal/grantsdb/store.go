// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package grantsdb builds and queries the SQLite grants database
// derived from an OpenAlex grants CSV dump. Each source row carries a
// JSON value holding the funder and award id; rows whose value cannot
// be parsed are kept with NULL funder and award columns so totals stay
// honest.
package grantsdb

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

var (
	// ErrExists means the target database file already exists and the
	// build was not forced.
	ErrExists = errors.New("database already exists")

	// ErrNotFound means the database file does not exist.
	ErrNotFound = errors.New("database not found")
)

// defaultChunkSize is the number of rows inserted per transaction.
const defaultChunkSize = 100000

// grantColumns are the source CSV columns a grants dump must carry.
var grantColumns = []string{
	"work_id", "doi", "field_name", "subfield_path",
	"value", "source_id", "doi_prefix", "source_file_path",
}

// Store manages a grants SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens an existing grants database for querying.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("checking database %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Create creates a new grants database at path. An existing file is an
// error unless force is set, in which case it is removed first.
func Create(path string, force bool) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		if !force {
			return nil, fmt.Errorf("%w: %s", ErrExists, path)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("removing existing database %s: %w", path, err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("creating database %s: %w", path, err)
	}
	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS grants (
			work_id TEXT,
			doi TEXT,
			field_name TEXT,
			subfield_path TEXT,
			funder TEXT,
			award_id TEXT,
			source_id TEXT,
			doi_prefix TEXT,
			source_file_path TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS db_metadata (
			key TEXT PRIMARY KEY,
			value TEXT,
			created_at TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// createIndexes builds the query indexes after bulk loading, which is
// much faster than maintaining them during inserts.
func (s *Store) createIndexes(ctx context.Context) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_grants_doi ON grants(doi)`,
		`CREATE INDEX IF NOT EXISTS idx_grants_funder ON grants(funder)`,
		`CREATE INDEX IF NOT EXISTS idx_grants_award ON grants(award_id)`,
		`CREATE INDEX IF NOT EXISTS idx_grants_funder_doi ON grants(funder, doi)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// Build loads the grants CSV named in cfg into the database: streams
// rows, extracts funder and award id from each row's JSON value,
// inserts in chunked transactions, then creates indexes and saves build
// metadata. Progress and summary lines are written to w.
func (s *Store) Build(ctx context.Context, cfg types.BuildConfig, w io.Writer) error {
	f, err := os.Open(cfg.GrantsCSV)
	if err != nil {
		return fmt.Errorf("opening grants CSV %s: %w", cfg.GrantsCSV, err)
	}
	defer f.Close()

	fmt.Fprintf(w, "Building database from %s\n", cfg.GrantsCSV)
	fmt.Fprintf(w, "Output database: %s\n", s.path)

	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("reading grants CSV header: %w", err)
	}
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}
	for _, name := range grantColumns {
		if _, ok := colIdx[name]; !ok {
			return fmt.Errorf("grants CSV missing column %q", name)
		}
	}

	totalRows, parsedRows, err := s.insertRows(ctx, cr, colIdx, chunkSize, w)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Loaded %d total rows\n", totalRows)
	fmt.Fprintf(w, "Parsed %d rows with valid funder information\n", parsedRows)

	fmt.Fprintln(w, "Creating indexes...")
	if err := s.createIndexes(ctx); err != nil {
		return err
	}

	if err := s.saveMetadata(ctx, cfg.GrantsCSV, totalRows, parsedRows); err != nil {
		return err
	}

	stats, err := s.DatabaseStatistics(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(w, stats.Format())
	return nil
}

func (s *Store) insertRows(ctx context.Context, cr *csv.Reader, colIdx map[string]int, chunkSize int, w io.Writer) (total, parsed int, err error) {
	const insertSQL = `INSERT INTO grants
		(work_id, doi, field_name, subfield_path, funder, award_id, source_id, doi_prefix, source_file_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var tx *sql.Tx
	var stmt *sql.Stmt
	begin := func() error {
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		stmt, err = tx.PrepareContext(ctx, insertSQL)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("preparing insert: %w", err)
		}
		return nil
	}
	if err := begin(); err != nil {
		return 0, 0, err
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	cell := func(row []string, name string) string {
		i := colIdx[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	for {
		row, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return 0, 0, fmt.Errorf("reading grants CSV row %d: %w", total+2, readErr)
		}

		funder, awardID := parseGrantValue(cell(row, "value"))
		if funder.Valid {
			parsed++
		}

		doi := sql.NullString{}
		if d := strings.ToLower(strings.TrimSpace(cell(row, "doi"))); d != "" {
			doi = sql.NullString{String: d, Valid: true}
		}

		_, execErr := stmt.ExecContext(ctx,
			cell(row, "work_id"), doi,
			cell(row, "field_name"), cell(row, "subfield_path"),
			funder, awardID,
			cell(row, "source_id"), cell(row, "doi_prefix"), cell(row, "source_file_path"),
		)
		if execErr != nil {
			return 0, 0, fmt.Errorf("inserting row %d: %w", total+2, execErr)
		}

		total++
		if total%chunkSize == 0 {
			stmt.Close()
			if err := tx.Commit(); err != nil {
				tx = nil
				return 0, 0, fmt.Errorf("committing chunk: %w", err)
			}
			fmt.Fprintf(w, "  loaded %d rows...\n", total)
			if err := begin(); err != nil {
				tx = nil
				return 0, 0, err
			}
		}
	}

	stmt.Close()
	if err := tx.Commit(); err != nil {
		tx = nil
		return 0, 0, fmt.Errorf("committing final chunk: %w", err)
	}
	tx = nil
	return total, parsed, nil
}

// parseGrantValue extracts funder and award_id from a grants-row JSON
// value. Unparseable values and missing keys yield NULLs rather than
// errors; the row itself is preserved.
func parseGrantValue(value string) (funder, awardID sql.NullString) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		return sql.NullString{}, sql.NullString{}
	}
	return jsonText(fields["funder"]), jsonText(fields["award_id"])
}

// jsonText renders a scalar JSON value as text the way a VARCHAR cast
// would; non-scalar and missing values come back NULL.
func jsonText(v any) sql.NullString {
	switch t := v.(type) {
	case string:
		return sql.NullString{String: t, Valid: true}
	case float64:
		return sql.NullString{String: strconv.FormatFloat(t, 'f', -1, 64), Valid: true}
	case bool:
		return sql.NullString{String: strconv.FormatBool(t), Valid: true}
	default:
		return sql.NullString{}
	}
}

func (s *Store) saveMetadata(ctx context.Context, sourceFile string, totalRows, parsedRows int) error {
	now := time.Now().Format(time.RFC3339)
	entries := [][2]string{
		{"source_file", sourceFile},
		{"total_rows", strconv.Itoa(totalRows)},
		{"parsed_rows", strconv.Itoa(parsedRows)},
		{"build_date", now},
	}
	for _, e := range entries {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO db_metadata (key, value, created_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value=excluded.value, created_at=excluded.created_at`,
			e[0], e[1], now,
		)
		if err != nil {
			return fmt.Errorf("saving metadata %s: %w", e[0], err)
		}
	}
	return nil
}

// Metadata returns the db_metadata table as a key/value map.
func (s *Store) Metadata(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM db_metadata`)
	if err != nil {
		return nil, fmt.Errorf("querying metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning metadata: %w", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

// Verify checks that the database has the expected tables and at least
// one grants row.
func (s *Store) Verify(ctx context.Context) error {
	for _, table := range []string{"grants", "db_metadata"} {
		var n int
		err := s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&n)
		if err != nil {
			return fmt.Errorf("checking table %s: %w", table, err)
		}
		if n == 0 {
			return fmt.Errorf("required table %q not found", table)
		}
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grants`).Scan(&count); err != nil {
		return fmt.Errorf("counting grants: %w", err)
	}
	if count == 0 {
		return errors.New("grants table is empty")
	}
	return nil
}
