package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rebeliceyang/lazyfilter/internal/filter"
	"github.com/rebeliceyang/lazyfilter/internal/logging"
	"github.com/rebeliceyang/lazyfilter/internal/models"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config key (e.g., "filter.default_match_type")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateFilter()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateData()...)
	errors = append(errors, c.validatePostgres()...)

	return errors
}

func (c *Config) validateFilter() []ValidationError {
	var errors []ValidationError

	mt := models.MatchType(c.Filter.DefaultMatchType)
	if mt != models.MatchAll && mt != models.MatchAny {
		errors = append(errors, ValidationError{
			Field:   "filter.default_match_type",
			Value:   c.Filter.DefaultMatchType,
			Message: "must be one of: all, any",
		})
	}

	if _, err := filter.ParseMultiValuePolicy(c.Filter.MultiValueDefault); err != nil {
		errors = append(errors, ValidationError{
			Field:   "filter.multi_value_default",
			Value:   c.Filter.MultiValueDefault,
			Message: "must be one of: any_of, all_of",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	level := c.Logging.Level
	if level != "" && !slices.ContainsFunc(logging.ValidLevels(), func(v string) bool { return strings.EqualFold(v, level) }) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(logging.ValidLevels(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateData() []ValidationError {
	var errors []ValidationError

	if c.Data.MaxRows <= 0 {
		errors = append(errors, ValidationError{
			Field:   "data.max_rows",
			Value:   c.Data.MaxRows,
			Message: "must be positive",
		})
	}

	if strings.ContainsAny(c.Data.ListDelimiter, "\"\n\r") {
		errors = append(errors, ValidationError{
			Field:   "data.list_delimiter",
			Value:   c.Data.ListDelimiter,
			Message: "must not contain quotes or newlines",
		})
	}

	return errors
}

func (c *Config) validatePostgres() []ValidationError {
	var errors []ValidationError

	// 0 defers to PGPORT
	if c.Postgres.Port < 0 || c.Postgres.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "postgres.port",
			Value:   c.Postgres.Port,
			Message: "must be between 0 and 65535",
		})
	}

	switch c.Postgres.SSLMode {
	case "", "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		errors = append(errors, ValidationError{
			Field:   "postgres.ssl_mode",
			Value:   c.Postgres.SSLMode,
			Message: "must be a libpq sslmode",
		})
	}

	return errors
}
