package abstract

import (
	"context"
	"fmt"

	"github.com/datazip-inc/sparkify/pkg/jdbc"
	"github.com/datazip-inc/sparkify/types"
	"github.com/datazip-inc/sparkify/utils"
	"github.com/datazip-inc/sparkify/utils/logger"
)

type AbstractDriver struct { //nolint:gosec,revive
	driver DriverInterface
}

func NewAbstractDriver(driver DriverInterface) *AbstractDriver {
	return &AbstractDriver{
		driver: driver,
	}
}

func (a *AbstractDriver) GetConfigRef() Config {
	return a.driver.GetConfigRef()
}

func (a *AbstractDriver) Spec() any {
	return a.driver.Spec()
}

func (a *AbstractDriver) Type() string {
	return a.driver.Type()
}

func (a *AbstractDriver) DefaultConfigPath() string {
	return a.driver.DefaultConfigPath()
}

// LoadConfig reads the driver config from path, decrypting it when an encryption key is set
func (a *AbstractDriver) LoadConfig(path string) error {
	if loader, ok := a.driver.(ConfigLoader); ok {
		return loader.LoadConfig(path)
	}
	return utils.UnmarshalFile(path, a.driver.GetConfigRef(), true)
}

func (a *AbstractDriver) Setup(ctx context.Context) error {
	return a.driver.Setup(ctx)
}

func (a *AbstractDriver) Check(ctx context.Context) error {
	return a.driver.Check(ctx)
}

func (a *AbstractDriver) CreateTables(ctx context.Context) error {
	return a.driver.CreateTables(ctx)
}

func (a *AbstractDriver) DropTables(ctx context.Context) error {
	return a.driver.DropTables(ctx)
}

func (a *AbstractDriver) Close() error {
	return a.driver.Close()
}

// Sync runs every stage of the driver in order. Each unit runs in its own transaction; a failed
// unit aborts the run under FailPolicy, or is rolled back and recorded under SkipPolicy. Fatal
// errors abort regardless of the policy.
func (a *AbstractDriver) Sync(ctx context.Context) (*types.SyncStats, error) {
	stats := types.NewSyncStats(utils.ULID())
	policy := a.driver.ErrorPolicy()
	logger.Infof("Starting %s sync run[%s] with error policy[%s]", a.driver.Type(), stats.RunID, policy)

	for _, stage := range a.driver.Stages() {
		if err := a.runStage(ctx, stats, stage, policy); err != nil {
			return stats, err
		}
	}

	for _, table := range stats.Inserts.Tables() {
		logger.Infof("Run[%s]: %d insert statements into %s", stats.RunID, stats.Inserts[table], table)
	}
	return stats, nil
}

func (a *AbstractDriver) runStage(ctx context.Context, stats *types.SyncStats, stage Stage, policy types.ErrorPolicy) error {
	units, err := stage.Discover(ctx)
	if err != nil {
		return types.Fatal(fmt.Errorf("failed to discover %s for stage[%s]: %w", stage.Noun, stage.Name, err))
	}
	logger.Infof("%d %s found in %s", len(units), stage.Noun, stage.Source)

	stageStats := stats.NewStage(stage.Name, len(units))
	for idx, unit := range units {
		if err := ctx.Err(); err != nil {
			return types.Fatal(fmt.Errorf("stage[%s] interrupted: %w", stage.Name, err))
		}

		inserts, err := a.runUnit(ctx, unit)
		if err != nil {
			err = fmt.Errorf("stage[%s] %s: %w", stage.Name, unit.Name, err)
			if policy != types.SkipPolicy || types.IsFatal(err) {
				return err
			}
			logger.Warnf("Skipping after rollback: %s", err)
			stageStats.AddSkipped(err)
			continue
		}

		stats.Inserts.Merge(inserts)
		stageStats.Processed++
		logger.Infof("%d/%d %s processed.", idx+1, len(units), stage.Noun)
	}

	if stageStats.Skipped > 0 {
		if stageStats.Skipped == stageStats.Total {
			return fmt.Errorf("all %d %s of stage[%s] failed: %w", stageStats.Total, stage.Noun, stage.Name, stageStats.Err())
		}
		logger.Warnf("Stage[%s] skipped %d of %d %s", stage.Name, stageStats.Skipped, stageStats.Total, stage.Noun)
	}
	return nil
}

// runUnit executes one unit in a transaction. Inserts are only reported back for committed units.
func (a *AbstractDriver) runUnit(ctx context.Context, unit Unit) (inserts types.Inserts, err error) {
	inserts = types.Inserts{}
	defer func() {
		// check for panics escaping the driver's transaction handling
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered in %s: %v", unit.Name, r)
		}
	}()

	err = a.driver.Transact(ctx, func(q jdbc.Queryer) error {
		return unit.Run(ctx, q, inserts)
	})
	return inserts, err
}
