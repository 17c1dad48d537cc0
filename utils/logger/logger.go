package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

// Info writes record into os.stdout with log level INFO
func Info(v ...interface{}) {
	if len(v) == 1 {
		logger.Info().Interface("message", v[0]).Send()
	} else {
		logger.Info().Msgf("%s", v...)
	}
}

func Infof(format string, v ...interface{}) {
	logger.Info().Msgf(format, v...)
}

func Debug(v ...interface{}) {
	logger.Debug().Msgf("%s", v...)
}

func Debugf(format string, v ...interface{}) {
	logger.Debug().Msgf(format, v...)
}

func Error(v ...interface{}) {
	logger.Error().Msgf("%s", v...)
}

func Errorf(format string, v ...interface{}) {
	logger.Error().Msgf(format, v...)
}

func Warn(v ...interface{}) {
	logger.Warn().Msgf("%s", v...)
}

func Warnf(format string, v ...interface{}) {
	logger.Warn().Msgf(format, v...)
}

// Fatal logs the error and exits with a non-zero status
func Fatal(v ...interface{}) {
	logger.Fatal().Msgf("%s", v...)
}

func Fatalf(format string, v ...interface{}) {
	logger.Fatal().Msgf(format, v...)
}

// FileLogger writes content as JSON into CONFIG_FOLDER/<fileName>.<fileExtension>
func FileLogger(content any, fileName, fileExtension string) error {
	if viper.GetBool(constants.NoSave) {
		return nil
	}

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal content: %s", err)
	}

	folder := viper.GetString(constants.ConfigFolder)
	if folder == "" {
		return fmt.Errorf("%s not set", constants.ConfigFolder)
	}

	path := filepath.Join(folder, fmt.Sprintf("%s.%s", fileName, strings.TrimPrefix(fileExtension, ".")))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %s", path, err)
	}
	return nil
}

// Init sets up the global logger. Console output always goes to stdout; unless NO_SAVE is set
// a JSON copy is written to a rotating file under CONFIG_FOLDER/logs named after logID.
func Init(logID string) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("SPARKIFY_DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("%-5s", i))
		},
	}

	writers := []io.Writer{console}
	if !viper.GetBool(constants.NoSave) {
		folder := viper.GetString(constants.ConfigFolder)
		if folder == "" {
			folder = os.TempDir()
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   logFilePath(folder, logID),
			MaxSize:    constants.LogFileMaxSizeMB,
			MaxBackups: constants.LogFileMaxBackups,
			MaxAge:     constants.LogFileMaxAgeDays,
			Compress:   true,
		})
	}

	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

func logFilePath(folder, logID string) string {
	return filepath.Join(folder, "logs", fmt.Sprintf("sync_%s.log", logID))
}
