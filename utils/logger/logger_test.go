package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("runs", "logs", "sync_01HZX3K8Q9V2M4N6P8R0S2T4W6.log"),
		logFilePath("runs", "01HZX3K8Q9V2M4N6P8R0S2T4W6"))
}

func TestInitWritesNamedLogFile(t *testing.T) {
	folder := t.TempDir()
	viper.Set(constants.ConfigFolder, folder)
	viper.Set(constants.NoSave, false)
	t.Cleanup(func() {
		viper.Set(constants.ConfigFolder, "")
		viper.Set(constants.NoSave, true)
		Init("cleanup")
	})

	Init("01HZX3K8Q9V2M4N6P8R0S2T4W6")
	Infof("run %d", 1)

	data, err := os.ReadFile(logFilePath(folder, "01HZX3K8Q9V2M4N6P8R0S2T4W6"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "run 1")
}
