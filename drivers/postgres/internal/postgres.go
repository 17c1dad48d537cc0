package driver

import (
	"context"
	"fmt"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/datazip-inc/sparkify/drivers/abstract"
	"github.com/datazip-inc/sparkify/pkg/discover"
	"github.com/datazip-inc/sparkify/pkg/jdbc"
	"github.com/datazip-inc/sparkify/types"
	"github.com/datazip-inc/sparkify/utils"
	"github.com/datazip-inc/sparkify/utils/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Postgres loads the local song and log datasets into a postgres star schema
type Postgres struct {
	config    *Config
	client    *sqlx.DB
	tunnel    *utils.Tunnel
	extractor *extractor
}

// unitProcessor loads one source file inside an open transaction
type unitProcessor func(ctx context.Context, q jdbc.Queryer, path string, inserts types.Inserts) error

// GetConfigRef returns a reference to the configuration
func (p *Postgres) GetConfigRef() abstract.Config {
	p.config = &Config{}
	return p.config
}

// Spec returns the configuration specification
func (p *Postgres) Spec() any {
	return Config{}
}

func (p *Postgres) Type() string {
	return string(constants.Postgres)
}

func (p *Postgres) DefaultConfigPath() string {
	return constants.DefaultConfigFile
}

// Setup establishes the database connection
func (p *Postgres) Setup(ctx context.Context) error {
	err := p.config.Validate()
	if err != nil {
		return fmt.Errorf("failed to validate config: %s", err)
	}

	connConfig, err := pgx.ParseConfig(p.config.Connection.String())
	if err != nil {
		return fmt.Errorf("failed to parse connection url: %s", err)
	}

	if p.config.SSHConfig.Enabled() {
		logger.Info("Found SSH Configuration")
		p.tunnel, err = p.config.SSHConfig.OpenTunnel()
		if err != nil {
			return fmt.Errorf("failed to setup SSH connection: %s", err)
		}
		// Allows pgx to reach the database through the bastion
		connConfig.DialFunc = p.tunnel.DialContext
	}

	client := sqlx.NewDb(stdlib.OpenDB(*connConfig), "pgx")
	// statements of a unit share one transaction, a single connection is all the loader uses
	client.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, constants.DefaultConnectTimeout)
	defer cancel()
	if err := client.PingContext(pingCtx); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to ping database: %s", err)
	}

	p.client = client
	p.extractor = newExtractor()
	return nil
}

// Check verifies the connection, the target tables and the data directories
func (p *Postgres) Check(ctx context.Context) error {
	if err := p.client.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %s", err)
	}

	for _, table := range allTables {
		var exists bool
		if err := p.client.GetContext(ctx, &exists, tableExistsQuery, table); err != nil {
			return fmt.Errorf("failed to check table[%s]: %s", table, err)
		}
		if !exists {
			logger.Warnf("Table[%s] does not exist, run create-tables before syncing", table)
		}
	}

	for _, root := range []string{p.config.SongData, p.config.LogData} {
		files, err := discover.Files(root, constants.JSONFileExt)
		if err != nil {
			return err
		}
		logger.Infof("%d files found in %s", len(files), root)
	}
	return nil
}

func (p *Postgres) CreateTables(ctx context.Context) error {
	return p.execAll(ctx, createTableQueries)
}

func (p *Postgres) DropTables(ctx context.Context) error {
	return p.execAll(ctx, dropTableQueries())
}

func (p *Postgres) execAll(ctx context.Context, queries []string) error {
	return jdbc.WithTransaction(ctx, p.client, func(tx *sqlx.Tx) error {
		for _, query := range queries {
			if _, err := tx.ExecContext(ctx, query); err != nil {
				return fmt.Errorf("failed to execute query %q: %s", query, err)
			}
		}
		return nil
	})
}

// Stages loads songs before logs so that song plays can resolve against the catalog
func (p *Postgres) Stages() []abstract.Stage {
	return []abstract.Stage{
		fileStage(constants.SongDataStage, p.config.SongData, p.extractor.songFile),
		fileStage(constants.LogDataStage, p.config.LogData, p.extractor.logFile),
	}
}

func fileStage(name, root string, process unitProcessor) abstract.Stage {
	return abstract.Stage{
		Name:   name,
		Source: root,
		Noun:   "files",
		Discover: func(_ context.Context) ([]abstract.Unit, error) {
			files, err := discover.Files(root, constants.JSONFileExt)
			if err != nil {
				return nil, err
			}
			units := make([]abstract.Unit, 0, len(files))
			for _, file := range files {
				units = append(units, abstract.Unit{
					Name: file,
					Run: func(ctx context.Context, q jdbc.Queryer, inserts types.Inserts) error {
						return process(ctx, q, file, inserts)
					},
				})
			}
			return units, nil
		},
	}
}

func (p *Postgres) Transact(ctx context.Context, fn func(q jdbc.Queryer) error) error {
	return jdbc.WithTransaction(ctx, p.client, func(tx *sqlx.Tx) error {
		return fn(tx)
	})
}

func (p *Postgres) ErrorPolicy() types.ErrorPolicy {
	return p.config.ErrorPolicy
}

// Close is safe to call more than once
func (p *Postgres) Close() error {
	if p.client != nil {
		if err := p.client.Close(); err != nil {
			logger.Errorf("failed to close connection with postgres: %s", err)
		}
		p.client = nil
	}
	if p.tunnel != nil {
		if err := p.tunnel.Close(); err != nil {
			logger.Errorf("failed to close SSH tunnel: %s", err)
		}
		p.tunnel = nil
	}
	return nil
}
