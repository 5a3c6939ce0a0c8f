// Package db fetches rows from PostgreSQL and materializes them into the
// converter row model.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pgconvert/config"
	"pgconvert/converters/common"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const connectAttempts = 3

// Connector wraps one PostgreSQL connection pool for the lifetime of a run.
type Connector struct {
	db *sql.DB
}

// Connect opens the pool and verifies it with a ping, retrying with a short
// backoff before giving up. Connection failures are fatal to the run.
func Connect(ctx context.Context, cfg config.PostgresConfig) (*Connector, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.SSLMode,
	)

	pool, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open connection to %s: %w", cfg.Host, err)
	}

	var pingErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pingErr = pool.PingContext(ctx)
		if pingErr == nil {
			return &Connector{db: pool}, nil
		}
		slog.Warn("Connection failed",
			"host", cfg.Host,
			"attempt", attempt,
			"max_attempts", connectAttempts,
			"error", pingErr,
		)
		if attempt < connectAttempts {
			time.Sleep(time.Second * time.Duration(attempt))
		}
	}
	pool.Close()
	return nil, fmt.Errorf("unable to connect to %s: %w", cfg.Host, pingErr)
}

func (c *Connector) Close() error {
	return c.db.Close()
}

// FetchTable reads every row of the named table.
func (c *Connector) FetchTable(ctx context.Context, table string) (*common.ResultSet, error) {
	return c.FetchQuery(ctx, fmt.Sprintf("SELECT * FROM %s", quoteTable(table)))
}

// FetchQuery runs an arbitrary query and materializes the full result.
func (c *Connector) FetchQuery(ctx context.Context, query string) (*common.ResultSet, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error running query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error identifying columns: %w", err)
	}
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("error identifying column types: %w", err)
	}
	dbTypes := make([]string, len(colTypes))
	for i, ct := range colTypes {
		dbTypes[i] = ct.DatabaseTypeName()
	}

	rs := &common.ResultSet{Columns: cols}
	for rows.Next() {
		colValues := make([]any, len(cols))
		colPointers := make([]any, len(cols))
		for i := range colValues {
			colPointers[i] = &colValues[i]
		}
		if err := rows.Scan(colPointers...); err != nil {
			return nil, fmt.Errorf("error scanning rows: %w", err)
		}

		row := make(common.Row, len(cols))
		for i := range colValues {
			row[i] = valueFor(dbTypes[i], colValues[i])
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	slog.Info("Fetched result set", "columns", len(rs.Columns), "rows", len(rs.Rows))
	return rs, nil
}

// quoteTable double-quotes a (possibly schema-qualified) table name.
func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}
