package source

import (
	"os"
	"strconv"

	"github.com/rebeliceyang/lazyfilter/internal/models"
)

// ApplyEnvironment fills connection settings left unset in config from the
// libpq environment (PGHOST, PGPORT, PGDATABASE, PGUSER, PGPASSWORD,
// PGSSLMODE), then from the usual libpq defaults.
func ApplyEnvironment(config models.PostgresConfig) models.PostgresConfig {
	if config.Host == "" {
		config.Host = os.Getenv("PGHOST")
	}
	if config.Port == 0 {
		if p, err := strconv.Atoi(os.Getenv("PGPORT")); err == nil && p > 0 && p <= 65535 {
			config.Port = p
		}
	}
	if config.Database == "" {
		config.Database = os.Getenv("PGDATABASE")
	}
	if config.User == "" {
		config.User = os.Getenv("PGUSER")
	}
	if config.Password == "" {
		config.Password = os.Getenv("PGPASSWORD")
	}
	if config.SSLMode == "" {
		config.SSLMode = os.Getenv("PGSSLMODE")
	}

	// Set defaults
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == 0 {
		config.Port = 5432
	}
	if config.User == "" {
		config.User = os.Getenv("USER")
	}
	if config.Database == "" {
		config.Database = config.User
	}
	if config.SSLMode == "" {
		config.SSLMode = "prefer"
	}

	return config
}
