package source

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// LoadSQLite reads rows from a table of a SQLite database file
func LoadSQLite(path, table, delimiter string, maxRows int) Loader {
	return func(ctx context.Context) (*Table, error) {
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		defer func() { _ = db.Close() }()

		query := "SELECT * FROM " + quoteIdent(table)
		var args []any
		if maxRows > 0 {
			query += " LIMIT ?"
			args = append(args, maxRows)
		}

		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", table, err)
		}
		defer func() { _ = rows.Close() }()

		columns, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read columns: %w", err)
		}

		t := &Table{Source: filepath.Base(path) + "/" + table, Columns: columns}
		for rows.Next() {
			cells := make([]any, len(columns))
			ptrs := make([]any, len(columns))
			for i := range cells {
				ptrs[i] = &cells[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return nil, fmt.Errorf("failed to scan row: %w", err)
			}
			t.Records = append(t.Records, newRecord(columns, cells, len(t.Records)+1, delimiter))
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read rows: %w", err)
		}
		return t, nil
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
