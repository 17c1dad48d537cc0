package driver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/datazip-inc/sparkify/drivers/abstract"
	"github.com/datazip-inc/sparkify/types"
	"github.com/datazip-inc/sparkify/utils/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type songplayRow struct {
	UserID   int64   `db:"user_id"`
	Level    string  `db:"level"`
	SongID   *string `db:"song_id"`
	ArtistID *string `db:"artist_id"`
}

func setupIntegration(ctx context.Context, t *testing.T) (*Postgres, string) {
	t.Helper()
	host, port := testutils.StartPostgres(ctx, t)

	dataDir := t.TempDir()
	writeFixture(t, dataDir, "song_data/A/B/C/TRAAAAW128F429D538.json", songFixture)
	writeFixture(t, dataDir, "log_data/2018/11/2018-11-01-events.json", logFixture...)

	driver := &Postgres{}
	config := driver.GetConfigRef().(*Config)
	*config = Config{
		Host:     host,
		Port:     port,
		Database: testutils.PostgresDatabase,
		Username: testutils.PostgresUser,
		Password: testutils.PostgresPassword,
		SongData: filepath.Join(dataDir, "song_data"),
		LogData:  filepath.Join(dataDir, "log_data"),
	}
	require.NoError(t, driver.Setup(ctx))
	t.Cleanup(func() { _ = driver.Close() })

	require.NoError(t, driver.DropTables(ctx))
	require.NoError(t, driver.CreateTables(ctx))
	return driver, dataDir
}

func countRows(ctx context.Context, t *testing.T, driver *Postgres, table string) int {
	t.Helper()
	var count int
	require.NoError(t, driver.client.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+table))
	return count
}

func TestPostgresSyncIntegration(t *testing.T) {
	ctx := context.Background()
	driver, _ := setupIntegration(ctx, t)
	require.NoError(t, driver.Check(ctx))

	stats, err := abstract.NewAbstractDriver(driver).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Stage(constants.SongDataStage).Processed)
	assert.Equal(t, 1, stats.Stage(constants.LogDataStage).Processed)

	assert.Equal(t, 1, countRows(ctx, t, driver, constants.SongTable))
	assert.Equal(t, 1, countRows(ctx, t, driver, constants.ArtistTable))
	assert.Equal(t, 2, countRows(ctx, t, driver, constants.TimeTable))
	assert.Equal(t, 2, countRows(ctx, t, driver, constants.UserTable))
	assert.Equal(t, 3, countRows(ctx, t, driver, constants.SongplayTable))

	var plays []songplayRow
	require.NoError(t, driver.client.SelectContext(ctx, &plays,
		"SELECT user_id, level, song_id, artist_id FROM songplays ORDER BY songplay_id"))
	require.Len(t, plays, 3)
	require.NotNil(t, plays[0].SongID)
	require.NotNil(t, plays[0].ArtistID)
	assert.Equal(t, testSongID, *plays[0].SongID)
	assert.Equal(t, testArtistID, *plays[0].ArtistID)
	for _, play := range plays[1:] {
		assert.Nil(t, play.SongID)
		assert.Nil(t, play.ArtistID)
	}

	var level string
	require.NoError(t, driver.client.GetContext(ctx, &level, "SELECT level FROM users WHERE user_id = 8"))
	assert.Equal(t, "paid", level)

	var bucket types.TimeBucket
	require.NoError(t, driver.client.GetContext(ctx, &bucket,
		"SELECT start_time, hour, day, week, month, year, weekday FROM time ORDER BY start_time LIMIT 1"))
	expected := types.NewTimeBucket(1541106106796)
	assert.True(t, expected.StartTime.Equal(bucket.StartTime), "start_time %s", bucket.StartTime)
	bucket.StartTime = expected.StartTime
	assert.Equal(t, expected, bucket)

	// a rerun leaves the dimensions alone but appends the song plays again
	_, err = abstract.NewAbstractDriver(driver).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(ctx, t, driver, constants.SongTable))
	assert.Equal(t, 2, countRows(ctx, t, driver, constants.UserTable))
	assert.Equal(t, 2, countRows(ctx, t, driver, constants.TimeTable))
	assert.Equal(t, 6, countRows(ctx, t, driver, constants.SongplayTable))
}

func TestPostgresSyncRollsBackFailedFile(t *testing.T) {
	ctx := context.Background()
	driver, dataDir := setupIntegration(ctx, t)
	writeFixture(t, dataDir, "log_data/2018/11/2018-11-02-events.json",
		logFixture[0], `{"page":"NextSong","ts":1541106352796,"userId":""}`)

	// fail policy: the first log file commits, the broken one aborts the run
	_, err := abstract.NewAbstractDriver(driver).Sync(ctx)
	require.Error(t, err)
	assert.Equal(t, 3, countRows(ctx, t, driver, constants.SongplayTable))

	require.NoError(t, driver.DropTables(ctx))
	require.NoError(t, driver.CreateTables(ctx))
	driver.config.ErrorPolicy = types.SkipPolicy

	stats, err := abstract.NewAbstractDriver(driver).Sync(ctx)
	require.NoError(t, err)
	logStage := stats.Stage(constants.LogDataStage)
	assert.Equal(t, 2, logStage.Total)
	assert.Equal(t, 1, logStage.Skipped)
	assert.Equal(t, 3, countRows(ctx, t, driver, constants.SongplayTable))
}

func TestPostgresSyncEmptyDataDirectories(t *testing.T) {
	ctx := context.Background()
	driver, _ := setupIntegration(ctx, t)
	driver.config.SongData = t.TempDir()
	driver.config.LogData = t.TempDir()

	stats, err := abstract.NewAbstractDriver(driver).Sync(ctx)
	require.NoError(t, err)
	for _, stage := range stats.Stages {
		assert.Zero(t, stage.Total)
		assert.Zero(t, stage.Processed)
	}
	assert.Zero(t, countRows(ctx, t, driver, constants.SongplayTable))
}
