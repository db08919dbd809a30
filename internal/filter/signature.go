package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rebeliceyang/lazyfilter/internal/models"
)

// Delimiters used in signatures. Every occurrence inside a value is escaped
// with a backslash so a signature decodes unambiguously.
var signatureEscaper = strings.NewReplacer(
	`\`, `\\`,
	`:`, `\:`,
	`|`, `\|`,
	`,`, `\,`,
	`=`, `\=`,
	`[`, `\[`,
	`]`, `\]`,
)

func escapeSignature(s string) string {
	return signatureEscaper.Replace(s)
}

// FilterSignature encodes the parts of a filter that decide matching:
// "{id}:{relationship}:{sorted values}". CacheVersion is not part of it.
func FilterSignature(f models.AppliedFilter) string {
	var values []string
	if f.IsText() {
		values = []string{escapeSignature(f.SearchText())}
	} else {
		values = make([]string, len(f.Values))
		for i, v := range f.Values {
			values[i] = escapeSignature(v.Value)
		}
		sort.Strings(values)
	}

	return filterSignaturePrefix(f.ID) + escapeSignature(string(f.Relationship)) + ":" + strings.Join(values, ",")
}

func filterSignaturePrefix(filterID string) string {
	return escapeSignature(filterID) + ":"
}

// ContentSignature serializes a row's fields deterministically. Keys are
// sorted and list values are sorted, so field or element order never matters.
func ContentSignature(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = escapeSignature(k) + "=" + signatureValue(fields[k])
	}
	return strings.Join(parts, "|")
}

// RecordSignature is ContentSignature for a Record's fields
func RecordSignature(r models.Record) string {
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return ContentSignature(fields)
}

func signatureValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return escapeSignature(val)
	case []string:
		items := make([]string, len(val))
		for i, s := range val {
			items[i] = escapeSignature(s)
		}
		sort.Strings(items)
		return "[" + strings.Join(items, ",") + "]"
	case []any:
		items := make([]string, len(val))
		for i, s := range val {
			items[i] = signatureValue(s)
		}
		sort.Strings(items)
		return "[" + strings.Join(items, ",") + "]"
	default:
		return escapeSignature(fmt.Sprint(val))
	}
}
