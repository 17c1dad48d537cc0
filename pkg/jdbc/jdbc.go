package jdbc

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/datazip-inc/sparkify/utils/logger"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Queryer is the subset of *sqlx.DB and *sqlx.Tx the extractors need
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

var (
	_ Queryer = (*sqlx.DB)(nil)
	_ Queryer = (*sqlx.Tx)(nil)
)

// QuoteIdentifier returns the properly quoted identifier based on database driver
func QuoteIdentifier(identifier string, driver constants.DriverType) string {
	switch driver {
	case constants.Postgres, constants.Redshift:
		return pq.QuoteIdentifier(identifier)
	default:
		return identifier
	}
}

// QuoteTable returns the properly quoted schema.table combination, schema is optional
func QuoteTable(schema, table string, driver constants.DriverType) string {
	if schema == "" {
		return QuoteIdentifier(table, driver)
	}
	return fmt.Sprintf("%s.%s",
		QuoteIdentifier(schema, driver),
		QuoteIdentifier(table, driver))
}

// QuoteColumns returns a slice of quoted column names
func QuoteColumns(columns []string, driver constants.DriverType) []string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = QuoteIdentifier(col, driver)
	}
	return quoted
}

// Placeholders returns "$1, $2, ..., $n" for postgres style drivers
func Placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

// InsertQuery builds a parameterized INSERT for table with an optional conflict clause
// e.g. InsertQuery("users", []string{"user_id", "level"}, "ON CONFLICT (user_id) DO NOTHING")
func InsertQuery(table string, columns []string, conflict string, driver constants.DriverType) string {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteTable("", table, driver),
		strings.Join(QuoteColumns(columns, driver), ", "),
		Placeholders(len(columns)),
	)
	if conflict != "" {
		query = fmt.Sprintf("%s %s", query, conflict)
	}
	return query
}

// WithTransaction runs fn inside a transaction. It commits when fn succeeds and rolls back when
// fn returns an error or panics, so every call is all-or-nothing.
func WithTransaction(ctx context.Context, client *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := client.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered in transaction: %v", r)
		}
		if err == nil {
			return
		}
		if rerr := tx.Rollback(); rerr != nil && rerr != sql.ErrTxDone {
			logger.Warnf("transaction rollback failed: %s", rerr)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
