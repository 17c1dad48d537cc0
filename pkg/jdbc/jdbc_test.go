package jdbc

import (
	"testing"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/stretchr/testify/assert"
)

func TestQuoteTable(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		table    string
		driver   constants.DriverType
		expected string
	}{
		{name: "postgres with schema", schema: "public", table: "songs", driver: constants.Postgres, expected: `"public"."songs"`},
		{name: "postgres without schema", table: "time", driver: constants.Postgres, expected: `"time"`},
		{name: "redshift escapes quotes", table: `we"ird`, driver: constants.Redshift, expected: `"we""ird"`},
		{name: "unknown driver leaves identifiers", schema: "s", table: "t", driver: "sqlite", expected: "s.t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteTable(tt.schema, tt.table, tt.driver))
		})
	}
}

func TestInsertQuery(t *testing.T) {
	assert.Equal(t,
		`INSERT INTO "users" ("user_id", "level") VALUES ($1, $2) ON CONFLICT ("user_id") DO NOTHING`,
		InsertQuery("users", []string{"user_id", "level"}, `ON CONFLICT ("user_id") DO NOTHING`, constants.Postgres),
	)
	assert.Equal(t,
		`INSERT INTO "songplays" ("start_time") VALUES ($1)`,
		InsertQuery("songplays", []string{"start_time"}, "", constants.Postgres),
	)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", Placeholders(0))
	assert.Equal(t, "$1", Placeholders(1))
	assert.Equal(t, "$1, $2, $3", Placeholders(3))
}
