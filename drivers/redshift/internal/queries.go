package driver

import (
	"fmt"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/lib/pq"
)

// statement is one warehouse unit: a COPY or an INSERT ... SELECT into table
type statement struct {
	table string
	query string
}

var createTableQueries = []string{
	`CREATE TABLE IF NOT EXISTS staging_events (
		artist VARCHAR,
		auth VARCHAR,
		firstName VARCHAR,
		gender VARCHAR(1),
		itemInSession INTEGER,
		lastName VARCHAR,
		length DOUBLE PRECISION,
		level VARCHAR,
		location VARCHAR,
		method VARCHAR,
		page VARCHAR,
		registration DOUBLE PRECISION,
		sessionId INTEGER,
		song VARCHAR,
		status INTEGER,
		ts BIGINT,
		userAgent VARCHAR(MAX),
		userId INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS staging_songs (
		num_songs INTEGER,
		artist_id VARCHAR,
		artist_latitude DOUBLE PRECISION,
		artist_longitude DOUBLE PRECISION,
		artist_location VARCHAR(MAX),
		artist_name VARCHAR(MAX),
		song_id VARCHAR,
		title VARCHAR(MAX),
		duration DOUBLE PRECISION,
		year INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS songplays (
		songplay_id BIGINT IDENTITY(0,1) PRIMARY KEY,
		start_time TIMESTAMP NOT NULL SORTKEY,
		user_id INTEGER NOT NULL,
		level VARCHAR,
		song_id VARCHAR DISTKEY,
		artist_id VARCHAR,
		session_id INTEGER,
		location VARCHAR,
		user_agent VARCHAR(MAX)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY SORTKEY,
		first_name VARCHAR,
		last_name VARCHAR,
		gender VARCHAR(1),
		level VARCHAR
	) DISTSTYLE ALL`,
	`CREATE TABLE IF NOT EXISTS songs (
		song_id VARCHAR PRIMARY KEY SORTKEY DISTKEY,
		title VARCHAR(MAX) NOT NULL,
		artist_id VARCHAR NOT NULL,
		year INTEGER,
		duration DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS artists (
		artist_id VARCHAR PRIMARY KEY SORTKEY,
		name VARCHAR(MAX) NOT NULL,
		location VARCHAR(MAX),
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION
	) DISTSTYLE ALL`,
	`CREATE TABLE IF NOT EXISTS time (
		start_time TIMESTAMP PRIMARY KEY SORTKEY,
		hour INTEGER,
		day INTEGER,
		week INTEGER,
		month INTEGER,
		year INTEGER,
		weekday INTEGER
	) DISTSTYLE ALL`,
}

var allTables = []string{
	constants.StagingEventsTable,
	constants.StagingSongsTable,
	constants.SongplayTable,
	constants.UserTable,
	constants.SongTable,
	constants.ArtistTable,
	constants.TimeTable,
}

func dropTableQueries() []string {
	queries := make([]string, 0, len(allTables))
	for _, table := range allTables {
		queries = append(queries, fmt.Sprintf("DROP TABLE IF EXISTS %s", pq.QuoteIdentifier(table)))
	}
	return queries
}

// copyStatements loads the raw datasets into the staging tables. Log events need a JSONPaths file
// since their keys do not follow the column order; songs are matched by name.
func copyStatements(c *Config) []statement {
	credentials := pq.QuoteLiteral("aws_iam_role=" + c.IAMRole.ARN)
	region := pq.QuoteLiteral(c.S3.Region)
	return []statement{
		{
			table: constants.StagingEventsTable,
			query: fmt.Sprintf("COPY staging_events FROM %s CREDENTIALS %s REGION %s FORMAT AS JSON %s",
				pq.QuoteLiteral(c.S3.LogData), credentials, region, pq.QuoteLiteral(c.S3.LogJSONPath)),
		},
		{
			table: constants.StagingSongsTable,
			query: fmt.Sprintf("COPY staging_songs FROM %s CREDENTIALS %s REGION %s FORMAT AS JSON %s",
				pq.QuoteLiteral(c.S3.SongData), credentials, region, pq.QuoteLiteral(autoJSONPath)),
		},
	}
}

// songMatches keeps one song per (title, artist, duration), picked the same way as the postgres lookup.
const songMatches = `SELECT title, artist_name, duration, song_id, artist_id,
		ROW_NUMBER() OVER (PARTITION BY title, artist_name, duration ORDER BY song_id, artist_id) AS match_rank
	FROM staging_songs`

// latestUsers holds one row per user taken from that user's latest NextSong event.
const latestUsers = `SELECT userId, firstName, lastName, gender, level
	FROM (
		SELECT userId, firstName, lastName, gender, level,
			ROW_NUMBER() OVER (PARTITION BY userId ORDER BY ts DESC, level) AS recency
		FROM staging_events
		WHERE page = 'NextSong' AND userId IS NOT NULL
	) ranked
	WHERE ranked.recency = 1`

// insertStatements fill the star schema from staging. time is derived from songplays so it runs last.
var insertStatements = []statement{
	{
		table: constants.SongplayTable,
		query: `INSERT INTO songplays (start_time, user_id, level, song_id, artist_id, session_id, location, user_agent)
SELECT TIMESTAMP 'epoch' + e.ts / 1000 * INTERVAL '1 second',
	e.userId, e.level, s.song_id, s.artist_id, e.sessionId, e.location, e.userAgent
FROM staging_events e
LEFT JOIN (
	` + songMatches + `
) s ON e.song = s.title AND e.artist = s.artist_name AND e.length = s.duration AND s.match_rank = 1
WHERE e.page = 'NextSong' AND e.userId IS NOT NULL`,
	},
	{
		table: constants.UserTable,
		query: `UPDATE users SET level = latest.level
FROM (
	` + latestUsers + `
) latest
WHERE users.user_id = latest.userId`,
	},
	{
		table: constants.UserTable,
		query: `INSERT INTO users (user_id, first_name, last_name, gender, level)
SELECT latest.userId, latest.firstName, latest.lastName, latest.gender, latest.level
FROM (
	` + latestUsers + `
) latest
WHERE latest.userId NOT IN (SELECT user_id FROM users)`,
	},
	{
		table: constants.SongTable,
		query: `INSERT INTO songs (song_id, title, artist_id, year, duration)
SELECT DISTINCT song_id, title, artist_id, year, duration
FROM staging_songs
WHERE song_id IS NOT NULL AND song_id NOT IN (SELECT song_id FROM songs)`,
	},
	{
		table: constants.ArtistTable,
		query: `INSERT INTO artists (artist_id, name, location, latitude, longitude)
SELECT DISTINCT artist_id, artist_name, artist_location, artist_latitude, artist_longitude
FROM staging_songs
WHERE artist_id IS NOT NULL AND artist_id NOT IN (SELECT artist_id FROM artists)`,
	},
	{
		table: constants.TimeTable,
		query: `INSERT INTO time (start_time, hour, day, week, month, year, weekday)
SELECT DISTINCT start_time,
	EXTRACT(hour FROM start_time),
	EXTRACT(day FROM start_time),
	EXTRACT(week FROM start_time),
	EXTRACT(month FROM start_time),
	EXTRACT(year FROM start_time),
	(EXTRACT(dow FROM start_time) + 6) % 7
FROM songplays
WHERE start_time NOT IN (SELECT start_time FROM time)`,
	},
}
