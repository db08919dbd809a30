package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one recorded filter run
type Entry struct {
	ID          int
	Source      string // data source, e.g. "csv:issues.csv"
	Query       string // the command line or resolver query that produced the filters
	Filters     string // filter summary
	MatchType   string
	VisibleRows int
	TotalRows   int
	Duration    time.Duration
	ExecutedAt  time.Time
}

// Store manages filter run history persistence
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the history database at path
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add records a filter run
func (s *Store) Add(ctx context.Context, entry Entry) error {
	executedAt := entry.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO filter_history
		(source, query, filters, match_type, visible_rows, total_rows, duration_ms, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Source,
		entry.Query,
		entry.Filters,
		entry.MatchType,
		entry.VisibleRows,
		entry.TotalRows,
		entry.Duration.Milliseconds(),
		executedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to add history entry: %w", err)
	}
	return nil
}

const selectColumns = `
		SELECT id, source, query, filters, match_type, visible_rows, total_rows,
		       duration_ms, executed_at
		FROM filter_history`

// GetRecent retrieves the most recent history entries
func (s *Store) GetRecent(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx, selectColumns+`
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, limit)
}

// Search finds entries whose source, query or filter summary contains text
func (s *Store) Search(ctx context.Context, text string, limit int) ([]Entry, error) {
	pattern := "%" + text + "%"
	return s.query(ctx, selectColumns+`
		WHERE query LIKE ? OR filters LIKE ? OR source LIKE ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, pattern, pattern, pattern, limit)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64

		err := rows.Scan(
			&e.ID,
			&e.Source,
			&e.Query,
			&e.Filters,
			&e.MatchType,
			&e.VisibleRows,
			&e.TotalRows,
			&durationMs,
			&e.ExecutedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
