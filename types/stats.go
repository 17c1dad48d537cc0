package types

import (
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Inserts counts insert statements per table
type Inserts map[string]int64

func (i Inserts) Add(table string, count int64) {
	i[table] += count
}

func (i Inserts) Merge(other Inserts) {
	for table, count := range other {
		i[table] += count
	}
}

// Tables returns the counted tables in a stable order
func (i Inserts) Tables() []string {
	tables := make([]string, 0, len(i))
	for table := range i {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	return tables
}

// StageStats tracks the units of one pipeline stage
type StageStats struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	errors    *multierror.Error
}

func (s *StageStats) AddSkipped(err error) {
	s.Skipped++
	s.errors = multierror.Append(s.errors, err)
}

// Err returns the aggregated errors of skipped units, nil when nothing was skipped
func (s *StageStats) Err() error {
	return s.errors.ErrorOrNil()
}

// SyncStats summarises one run. Inserts only include units that were committed.
type SyncStats struct {
	RunID   string        `json:"run_id"`
	Stages  []*StageStats `json:"stages"`
	Inserts Inserts       `json:"inserts"`
}

func NewSyncStats(runID string) *SyncStats {
	return &SyncStats{
		RunID:   runID,
		Inserts: Inserts{},
	}
}

func (s *SyncStats) NewStage(name string, total int) *StageStats {
	stage := &StageStats{Name: name, Total: total}
	s.Stages = append(s.Stages, stage)
	return stage
}

// Stage returns the stats of the named stage or nil
func (s *SyncStats) Stage(name string) *StageStats {
	for _, stage := range s.Stages {
		if stage.Name == name {
			return stage
		}
	}
	return nil
}
