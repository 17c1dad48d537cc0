package constants

import (
	"time"
)

const (
	DefaultPostgresPort   = 5432
	DefaultRedshiftPort   = 5439
	DefaultConnectTimeout = 10 * time.Second
	DefaultSongDataPath   = "data/song_data"
	DefaultLogDataPath    = "data/log_data"
	DefaultConfigFile     = "config.json"
	DefaultWarehouseFile  = "dwh.cfg"
	JSONFileExt           = ".json"
	// NextSongPage is the page value of log events that represent a song play
	NextSongPage      = "NextSong"
	CheckpointDir     = ".ipynb_checkpoints"
	EncryptionKey     = "SPARKIFY_ENCRYPTION_KEY"
	ConfigFolder      = "CONFIG_FOLDER"
	NoSave            = "NO_SAVE"
	ErrorPolicy       = "ERROR_POLICY"
	WarehouseCluster  = "cluster"
	WarehouseIAMRole  = "iam_role"
	WarehouseS3       = "s3"
	WarehouseAWS      = "aws"
	LogFileMaxSizeMB  = 100
	LogFileMaxBackups = 5
	LogFileMaxAgeDays = 30
)

type DriverType string

const (
	Postgres DriverType = "postgres"
	Redshift DriverType = "redshift"
)

// Stage names, in the order they run
const (
	SongDataStage    = "song_data"
	LogDataStage     = "log_data"
	StagingCopyStage = "staging_copy"
	InsertStage      = "insert"
)

// Table names shared by both variants
const (
	SongplayTable      = "songplays"
	UserTable          = "users"
	SongTable          = "songs"
	ArtistTable        = "artists"
	TimeTable          = "time"
	StagingEventsTable = "staging_events"
	StagingSongsTable  = "staging_songs"
)
