package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/goccy/go-json"
	"github.com/rebeliceyang/lazyfilter/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// RecordsToCSV writes records as CSV with a header row. The "id" column
// holds the record id; list values are joined with delimiter.
func RecordsToCSV(w io.Writer, columns []string, records []models.Record, delimiter string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(columns))
	for _, r := range records {
		for i, col := range columns {
			if col == "id" {
				row[i] = r.ID
				continue
			}
			row[i] = strings.Join(r.Fields[col], delimiter)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportRecordsToCSV exports records to a CSV file
func ExportRecordsToCSV(path string, columns []string, records []models.Record, delimiter string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return RecordsToCSV(file, columns, records, delimiter)
}

// ExportRecordsToJSON exports records to a JSON file, one object per record
// keyed by column name
func ExportRecordsToJSON(path string, columns []string, records []models.Record) error {
	rows := make([]map[string]any, 0, len(records))
	for _, r := range records {
		row := make(map[string]any, len(columns))
		for _, col := range columns {
			if col == "id" {
				row[col] = r.ID
				continue
			}
			switch vals := r.Fields[col]; len(vals) {
			case 0:
				row[col] = nil
			case 1:
				row[col] = vals[0]
			default:
				row[col] = vals
			}
		}
		rows = append(rows, row)
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// CopyCSV copies records as CSV to the system clipboard
func CopyCSV(columns []string, records []models.Record, delimiter string) error {
	var buf bytes.Buffer
	if err := RecordsToCSV(&buf, columns, records, delimiter); err != nil {
		return err
	}
	if err := clipboard.WriteAll(buf.String()); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// ExportPresetsToCSV exports presets to a CSV file, one row per preset
func ExportPresetsToCSV(presets []models.Preset, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Name", "Description", "Filters", "Match", "Tags", "Created", "Updated", "Last Used", "Usage Count"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range presets {
		filters := make([]string, len(p.Filters))
		for i, f := range p.Filters {
			filters[i] = f.Describe()
		}

		lastUsed := ""
		if !p.LastUsed.IsZero() {
			lastUsed = p.LastUsed.Format(timeLayout)
		}

		row := []string{
			p.Name,
			p.Description,
			strings.Join(filters, "; "),
			string(p.MatchType),
			strings.Join(p.Tags, ", "),
			p.CreatedAt.Format(timeLayout),
			p.UpdatedAt.Format(timeLayout),
			lastUsed,
			fmt.Sprintf("%d", p.UsageCount),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// ExportPresetsToJSON exports presets to a JSON file
func ExportPresetsToJSON(presets []models.Preset, path string) error {
	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal presets to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}
