package testutils

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage    = "postgres:16-alpine"
	PostgresUser     = "student"
	PostgresPassword = "student"
	PostgresDatabase = "sparkifydb"
)

// Statement is one call captured by RecordingQueryer
type Statement struct {
	Query string
	Args  []any
}

// RecordingQueryer is an in-memory jdbc.Queryer. Every ExecContext call is recorded and succeeds
// unless ExecFunc says otherwise; GetContext answers through GetFunc and reports sql.ErrNoRows
// when GetFunc is nil.
type RecordingQueryer struct {
	mu       sync.Mutex
	Execs    []Statement
	Gets     []Statement
	ExecFunc func(query string, args []any) error
	GetFunc  func(dest any, query string, args []any) error
}

func (r *RecordingQueryer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ExecFunc != nil {
		if err := r.ExecFunc(query, args); err != nil {
			return nil, err
		}
	}
	r.Execs = append(r.Execs, Statement{Query: query, Args: args})
	return driver.RowsAffected(1), nil
}

func (r *RecordingQueryer) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Gets = append(r.Gets, Statement{Query: query, Args: args})
	if r.GetFunc == nil {
		return sql.ErrNoRows
	}
	return r.GetFunc(dest, query, args)
}

// ExecsInto returns the recorded statements that insert into table, in call order
func (r *RecordingQueryer) ExecsInto(table string) []Statement {
	r.mu.Lock()
	defer r.mu.Unlock()
	marker := `INSERT INTO "` + table + `"`
	var matched []Statement
	for _, stmt := range r.Execs {
		if strings.HasPrefix(stmt.Query, marker) {
			matched = append(matched, stmt)
		}
	}
	return matched
}

// StartPostgres runs a disposable postgres container and returns its host and mapped port.
// The test is skipped in -short mode or when no container runtime is available.
func StartPostgres(ctx context.Context, t *testing.T) (string, int) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     PostgresUser,
			"POSTGRES_PASSWORD": PostgresPassword,
			"POSTGRES_DB":       PostgresDatabase,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "Container startup failed")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %s", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	return host, port.Int()
}
