package abstract

import (
	"context"

	"github.com/datazip-inc/sparkify/pkg/jdbc"
	"github.com/datazip-inc/sparkify/types"
)

type Config interface {
	Validate() error
}

// UnitFunc does the work of one unit against an open transaction and counts its inserts
type UnitFunc func(ctx context.Context, q jdbc.Queryer, inserts types.Inserts) error

// Unit is one all-or-nothing piece of work: a source file or a warehouse statement
type Unit struct {
	Name string
	Run  UnitFunc
}

// Stage is an ordered group of units. Units are resolved lazily so a stage only discovers its
// input once the previous stage has finished.
type Stage struct {
	Name string
	// Source describes where units come from, e.g. the data directory
	Source string
	// Noun names the units in progress lines, e.g. "files"
	Noun     string
	Discover func(ctx context.Context) ([]Unit, error)
}

// ConfigLoader is implemented by drivers whose config file is not JSON
type ConfigLoader interface {
	LoadConfig(path string) error
}

type DriverInterface interface {
	GetConfigRef() Config
	Spec() any
	Type() string
	// DefaultConfigPath is used when no --config is passed
	DefaultConfigPath() string
	// Setup validates the config and opens the connection; the connection lives until Close
	Setup(ctx context.Context) error
	// Check verifies the target and the inputs are reachable without writing anything
	Check(ctx context.Context) error
	CreateTables(ctx context.Context) error
	DropTables(ctx context.Context) error
	// Stages returns the stages of a sync in the order they must run
	Stages() []Stage
	// Transact runs fn inside one transaction, committing only when fn succeeds
	Transact(ctx context.Context, fn func(q jdbc.Queryer) error) error
	ErrorPolicy() types.ErrorPolicy
	Close() error
}
