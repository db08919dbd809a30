// Package source loads grid rows from CSV files, SQLite and PostgreSQL and
// derives filter categories from them.
package source

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rebeliceyang/lazyfilter/internal/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
)

// IDColumn is the column used as row identity when present
const IDColumn = "id"

// Table is a loaded row set with its column order
type Table struct {
	Source  string // short source name, e.g. "issues.csv"
	Columns []string
	Records []models.Record
}

// Loader produces a table
type Loader func(ctx context.Context) (*Table, error)

// LoadAll runs loaders concurrently and concatenates their records in loader
// order. Columns are the union in first-seen order. A record whose id was
// already taken by an earlier record is renamed "{source}#{id}" so ids stay
// unique across sources.
func LoadAll(ctx context.Context, loaders ...Loader) (*Table, error) {
	tables := make([]*Table, len(loaders))

	g, ctx := errgroup.WithContext(ctx)
	for i, load := range loaders {
		g.Go(func() error {
			t, err := load(ctx)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Table{}
	seen := make(map[string]struct{})
	for i, t := range tables {
		for _, col := range t.Columns {
			if !slices.Contains(out.Columns, col) {
				out.Columns = append(out.Columns, col)
			}
		}

		prefix := t.Source
		if prefix == "" {
			prefix = strconv.Itoa(i + 1)
		}
		for _, r := range t.Records {
			if _, taken := seen[r.ID]; taken {
				r.ID = uniqueID(seen, prefix, r.ID)
			}
			seen[r.ID] = struct{}{}
			out.Records = append(out.Records, r)
		}
	}
	if len(tables) == 1 {
		out.Source = tables[0].Source
	}
	return out, nil
}

func uniqueID(seen map[string]struct{}, prefix, id string) string {
	candidate := prefix + "#" + id
	for n := 2; ; n++ {
		if _, taken := seen[candidate]; !taken {
			return candidate
		}
		candidate = prefix + "#" + id + "#" + strconv.Itoa(n)
	}
}

// RecordID returns a record's identity
func RecordID(r models.Record) string {
	return r.ID
}

// RecordPredicate reports whether the record's column holds the option value (case-insensitive)
func RecordPredicate(r models.Record, f models.AppliedFilter, v models.ComboboxOption) bool {
	return slices.ContainsFunc(r.Fields[f.CategoryID], func(s string) bool {
		return strings.EqualFold(s, v.Value)
	})
}

// RecordText returns the column text searched by TEXT filters
func RecordText(r models.Record, f models.AppliedFilter) string {
	return strings.Join(r.Fields[f.CategoryID], " ")
}

// OptionID builds the option id for a column value
func OptionID(column, value string) string {
	return column + ":" + value
}

// DeriveCategories builds a filter category per column. Columns listed in
// textColumns become TEXT; a column that ever holds several values in one row
// becomes CHECKBOXES; every other column is RADIO. The id column is skipped.
// Values that differ only in case share one option, labeled with the first
// spelling seen, since RecordPredicate compares case-insensitively.
func DeriveCategories(t *Table, textColumns []string) []models.FilterOption {
	var categories []models.FilterOption
	fold := cases.Fold()

	for _, col := range t.Columns {
		if col == IDColumn {
			continue
		}

		cat := models.FilterOption{
			ID:                   col,
			SelectionType:        models.SelectionRadio,
			PropertyNameSingular: col,
			PropertyNamePlural:   pluralize(col),
		}
		if slices.Contains(textColumns, col) {
			cat.SelectionType = models.SelectionText
			categories = append(categories, cat)
			continue
		}

		seen := make(map[string]struct{})
		var values []string
		for _, r := range t.Records {
			vals := r.Fields[col]
			if len(vals) > 1 {
				cat.SelectionType = models.SelectionCheckboxes
			}
			for _, v := range vals {
				key := fold.String(v)
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				values = append(values, v)
			}
		}
		sort.Strings(values)
		for _, v := range values {
			cat.Options = append(cat.Options, models.ComboboxOption{ID: OptionID(col, v), Label: v, Value: v})
		}
		categories = append(categories, cat)
	}
	return categories
}

func pluralize(s string) string {
	switch {
	case strings.HasSuffix(s, "s"):
		return s
	case strings.HasSuffix(s, "y") && len(s) > 1 && !strings.ContainsRune("aeiou", rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}

// newRecord builds a record from a row of cell values; id falls back to the 1-based ordinal
func newRecord(columns []string, cells []any, ordinal int, delimiter string) models.Record {
	r := models.Record{Fields: make(map[string][]string, len(columns))}
	for i, col := range columns {
		if i >= len(cells) {
			break
		}
		vals := cellValues(cells[i], delimiter)
		if col == IDColumn {
			if len(vals) > 0 {
				r.ID = vals[0]
			}
			continue
		}
		r.Fields[col] = vals
	}
	if r.ID == "" {
		r.ID = strconv.Itoa(ordinal)
	}
	return r
}

// cellValues converts a database or CSV cell to the record's string list
func cellValues(v any, delimiter string) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return splitCell(val, delimiter)
	case []byte:
		return splitCell(string(val), delimiter)
	case []string:
		return slices.Clone(val)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, formatScalar(item))
		}
		return out
	default:
		return []string{formatScalar(val)}
	}
}

func splitCell(s, delimiter string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if delimiter == "" || !strings.Contains(s, delimiter) {
		return []string{s}
	}
	var out []string
	for _, part := range strings.Split(s, delimiter) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatScalar(v any) string {
	switch val := v.(type) {
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
