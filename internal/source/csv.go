package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadCSV reads a CSV file with a header row. Cells are split on delimiter
// into list values; maxRows <= 0 reads everything.
func LoadCSV(path, delimiter string, maxRows int) Loader {
	return func(ctx context.Context) (*Table, error) {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer func() { _ = file.Close() }()

		t, err := ReadCSV(ctx, file, delimiter, maxRows)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		t.Source = filepath.Base(path)
		return t, nil
	}
}

// ReadCSV parses CSV data into a table
func ReadCSV(ctx context.Context, r io.Reader, delimiter string, maxRows int) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Columns: header}
	for maxRows <= 0 || len(t.Records) < maxRows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(t.Records)+1, err)
		}

		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		t.Records = append(t.Records, newRecord(header, cells, len(t.Records)+1, delimiter))
	}
	return t, nil
}
