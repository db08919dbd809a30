package models

// Record is a grid row loaded from a data source.
// Scalar columns hold a single value; list columns (tags, labels) hold several.
type Record struct {
	ID     string              `json:"id"`
	Fields map[string][]string `json:"fields"`
}

// Get returns the values of a column
func (r Record) Get(column string) []string {
	return r.Fields[column]
}

// First returns the first value of a column or "" when the column is empty
func (r Record) First(column string) string {
	if vals := r.Fields[column]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}
