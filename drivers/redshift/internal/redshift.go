package driver

import (
	"context"
	"fmt"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/datazip-inc/sparkify/drivers/abstract"
	"github.com/datazip-inc/sparkify/pkg/jdbc"
	"github.com/datazip-inc/sparkify/types"
	"github.com/datazip-inc/sparkify/utils"
	"github.com/datazip-inc/sparkify/utils/logger"
	"github.com/jmoiron/sqlx"

	// Redshift speaks the postgres wire protocol
	_ "github.com/lib/pq"
)

// Redshift stages the S3 datasets with COPY and builds the star schema inside the cluster
type Redshift struct {
	config *Config
	client *sqlx.DB
}

// GetConfigRef returns a reference to the configuration
func (r *Redshift) GetConfigRef() abstract.Config {
	r.config = &Config{}
	return r.config
}

// Spec returns the configuration specification
func (r *Redshift) Spec() any {
	return Config{}
}

func (r *Redshift) Type() string {
	return string(constants.Redshift)
}

func (r *Redshift) DefaultConfigPath() string {
	return constants.DefaultWarehouseFile
}

// LoadConfig reads dwh.cfg
func (r *Redshift) LoadConfig(path string) error {
	data, err := utils.ReadConfigFile(path, true)
	if err != nil {
		return err
	}
	config, err := ParseConfig(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %s", path, err)
	}
	r.config = config
	return nil
}

// Setup establishes the cluster connection
func (r *Redshift) Setup(ctx context.Context) error {
	if err := r.config.Validate(); err != nil {
		return fmt.Errorf("failed to validate config: %s", err)
	}

	client, err := sqlx.Open("postgres", r.config.Connection.String())
	if err != nil {
		return fmt.Errorf("failed to open database connection: %s", err)
	}
	client.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, constants.DefaultConnectTimeout)
	defer cancel()
	if err := client.PingContext(pingCtx); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to ping database: %s", err)
	}
	r.client = client
	return nil
}

// Check verifies the cluster connection and that every COPY source holds data
func (r *Redshift) Check(ctx context.Context) error {
	if err := r.client.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %s", err)
	}

	client, err := newS3Client(ctx, r.config)
	if err != nil {
		return err
	}
	uris := []string{r.config.S3.LogData, r.config.S3.SongData}
	if r.config.S3.LogJSONPath != autoJSONPath {
		uris = append(uris, r.config.S3.LogJSONPath)
	}
	return preflight(ctx, client, uris...)
}

func (r *Redshift) CreateTables(ctx context.Context) error {
	return r.execAll(ctx, createTableQueries)
}

func (r *Redshift) DropTables(ctx context.Context) error {
	return r.execAll(ctx, dropTableQueries())
}

// execAll commits every DDL statement on its own
func (r *Redshift) execAll(ctx context.Context, queries []string) error {
	return utils.ForEach(queries, func(query string) error {
		err := jdbc.WithTransaction(ctx, r.client, func(tx *sqlx.Tx) error {
			_, err := tx.ExecContext(ctx, query)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to execute query %q: %s", query, err)
		}
		return nil
	})
}

// Stages copies into staging before the star schema is built from it
func (r *Redshift) Stages() []abstract.Stage {
	return []abstract.Stage{
		statementStage(constants.StagingCopyStage, "s3 to staging tables", copyStatements(r.config)),
		statementStage(constants.InsertStage, "staging tables to star schema", insertStatements),
	}
}

func statementStage(name, source string, statements []statement) abstract.Stage {
	return abstract.Stage{
		Name:   name,
		Source: source,
		Noun:   "statements",
		Discover: func(_ context.Context) ([]abstract.Unit, error) {
			units := make([]abstract.Unit, 0, len(statements))
			for _, stmt := range statements {
				units = append(units, abstract.Unit{
					Name: stmt.table,
					Run: func(ctx context.Context, q jdbc.Queryer, inserts types.Inserts) error {
						logger.Debugf("Executing %s", stmt.query)
						if _, err := q.ExecContext(ctx, stmt.query); err != nil {
							return fmt.Errorf("failed to load %s: %w", stmt.table, err)
						}
						inserts.Add(stmt.table, 1)
						return nil
					},
				})
			}
			return units, nil
		},
	}
}

func (r *Redshift) Transact(ctx context.Context, fn func(q jdbc.Queryer) error) error {
	return jdbc.WithTransaction(ctx, r.client, func(tx *sqlx.Tx) error {
		return fn(tx)
	})
}

func (r *Redshift) ErrorPolicy() types.ErrorPolicy {
	return r.config.ErrorPolicy
}

// Close is safe to call more than once
func (r *Redshift) Close() error {
	if r.client != nil {
		if err := r.client.Close(); err != nil {
			logger.Errorf("failed to close connection with redshift: %s", err)
		}
		r.client = nil
	}
	return nil
}
