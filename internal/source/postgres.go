package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keyring service name passwords are stored under
const KeyringService = "lazyfilter"

// Pool wraps pgxpool with our configuration
type Pool struct {
	pool   *pgxpool.Pool
	config models.PostgresConfig
}

// NewPool creates a connection pool and pings the server. Unset settings
// come from the libpq environment.
func NewPool(ctx context.Context, config models.PostgresConfig) (*Pool, error) {
	config = ApplyEnvironment(config)
	password, err := ResolvePassword(config)
	if err != nil {
		return nil, err
	}
	config.Password = password

	poolConfig, err := pgxpool.ParseConfig(buildConnectionString(config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	poolConfig.MaxConns = 2
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{pool: pool, config: config}, nil
}

// Close closes the connection pool
func (p *Pool) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// QueryTable reads up to limit rows of schema.table; limit <= 0 reads everything
func (p *Pool) QueryTable(ctx context.Context, schema, table, delimiter string, limit int) (*Table, error) {
	query := "SELECT * FROM " + pgx.Identifier{schema, table}.Sanitize()
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query table data: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	t := &Table{Source: schema + "." + table, Columns: columns}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		t.Records = append(t.Records, newRecord(columns, values, len(t.Records)+1, delimiter))
	}
	return t, rows.Err()
}

// LoadPostgres reads rows from schema.table
func LoadPostgres(config models.PostgresConfig, schema, table, delimiter string, maxRows int) Loader {
	return func(ctx context.Context) (*Table, error) {
		pool, err := NewPool(ctx, config)
		if err != nil {
			return nil, err
		}
		defer pool.Close()

		return pool.QueryTable(ctx, schema, table, delimiter, maxRows)
	}
}

// ResolvePassword returns the configured password, falling back to the OS
// keyring when UseKeyring is set. A missing keyring entry is not an error.
func ResolvePassword(config models.PostgresConfig) (string, error) {
	if config.Password != "" || !config.UseKeyring {
		return config.Password, nil
	}

	password, err := keyring.Get(KeyringService, config.KeyringKey())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return password, nil
}

// StorePassword saves the connection password in the OS keyring
func StorePassword(config models.PostgresConfig, password string) error {
	if password == "" {
		return nil
	}
	if err := keyring.Set(KeyringService, config.KeyringKey(), password); err != nil {
		return fmt.Errorf("failed to save password to keyring: %w", err)
	}
	return nil
}

// buildConnectionString creates a PostgreSQL connection string
func buildConnectionString(config models.PostgresConfig) string {
	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s database=%s sslmode=%s",
		config.Host,
		config.Port,
		config.User,
		config.Database,
		sslMode,
	)

	if config.Password != "" {
		connStr += fmt.Sprintf(" password=%s", config.Password)
	}

	return connStr
}
