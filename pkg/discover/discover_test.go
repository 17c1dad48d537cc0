package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	}
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"A/B/C/TRABCEI128F424C983.json",
		"A/A/B/TRAABJL12903CDCF1A.JSON",
		"2018/11/2018-11-01-events.json",
		"A/notes.txt",
		".ipynb_checkpoints/stale-checkpoint.json",
	)

	files, err := Files(root, ".json")
	require.NoError(t, err)

	expected := []string{
		filepath.Join(root, "2018/11/2018-11-01-events.json"),
		filepath.Join(root, "A/A/B/TRAABJL12903CDCF1A.JSON"),
		filepath.Join(root, "A/B/C/TRABCEI128F424C983.json"),
	}
	assert.Equal(t, expected, files)
	for _, file := range files {
		assert.True(t, filepath.IsAbs(file))
	}
}

func TestFilesDefaultsToJSON(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.json", "b.csv")

	files, err := Files(root, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.json")}, files)

	files, err = Files(root, "csv")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "b.csv")}, files)
}

func TestFilesEmptyTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "nested"), 0o755))

	files, err := Files(root, ".json")
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestFilesMissingRoot(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "does-not-exist"), ".json")
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o600))
	_, err = Files(file, ".json")
	assert.Error(t, err)
}
