package driver

import (
	"fmt"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/datazip-inc/sparkify/pkg/jdbc"
)

var (
	songplayColumns = []string{"start_time", "user_id", "level", "song_id", "artist_id", "session_id", "location", "user_agent"}
	userColumns     = []string{"user_id", "first_name", "last_name", "gender", "level"}
	songColumns     = []string{"song_id", "title", "artist_id", "year", "duration"}
	artistColumns   = []string{"artist_id", "name", "location", "latitude", "longitude"}
	timeColumns     = []string{"start_time", "hour", "day", "week", "month", "year", "weekday"}
)

// dimension rows are written once; a repeated user keeps its latest subscription level
var (
	songplayInsert = jdbc.InsertQuery(constants.SongplayTable, songplayColumns, "", constants.Postgres)
	userInsert     = jdbc.InsertQuery(constants.UserTable, userColumns, `ON CONFLICT ("user_id") DO UPDATE SET "level" = EXCLUDED."level"`, constants.Postgres)
	songInsert     = jdbc.InsertQuery(constants.SongTable, songColumns, `ON CONFLICT ("song_id") DO NOTHING`, constants.Postgres)
	artistInsert   = jdbc.InsertQuery(constants.ArtistTable, artistColumns, `ON CONFLICT ("artist_id") DO NOTHING`, constants.Postgres)
	timeInsert     = jdbc.InsertQuery(constants.TimeTable, timeColumns, `ON CONFLICT ("start_time") DO NOTHING`, constants.Postgres)
)

// songSelect resolves a song play to catalog ids. Ties are broken by the smallest ids so the
// result does not depend on the physical row order.
const songSelect = `SELECT s.song_id, a.artist_id
FROM songs s
JOIN artists a ON s.artist_id = a.artist_id
WHERE s.title = $1 AND a.name = $2 AND s.duration = $3
ORDER BY s.song_id, a.artist_id
LIMIT 1`

const tableExistsQuery = `SELECT to_regclass($1) IS NOT NULL`

var createTableQueries = []string{
	`CREATE TABLE IF NOT EXISTS songplays (
		songplay_id SERIAL PRIMARY KEY,
		start_time TIMESTAMP NOT NULL,
		user_id INT NOT NULL,
		level VARCHAR,
		song_id VARCHAR,
		artist_id VARCHAR,
		session_id INT,
		location VARCHAR,
		user_agent VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id INT PRIMARY KEY,
		first_name VARCHAR,
		last_name VARCHAR,
		gender VARCHAR(1),
		level VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS songs (
		song_id VARCHAR PRIMARY KEY,
		title VARCHAR NOT NULL,
		artist_id VARCHAR NOT NULL,
		year INT,
		duration DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS artists (
		artist_id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		location VARCHAR,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS time (
		start_time TIMESTAMP PRIMARY KEY,
		hour INT,
		day INT,
		week INT,
		month INT,
		year INT,
		weekday INT
	)`,
}

var allTables = []string{
	constants.SongplayTable,
	constants.UserTable,
	constants.SongTable,
	constants.ArtistTable,
	constants.TimeTable,
}

func dropTableQueries() []string {
	queries := make([]string, 0, len(allTables))
	for _, table := range allTables {
		queries = append(queries, fmt.Sprintf("DROP TABLE IF EXISTS %s", jdbc.QuoteTable("", table, constants.Postgres)))
	}
	return queries
}
