package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/datazip-inc/sparkify/constants"
)

// Files returns the absolute paths of every regular file under root whose extension matches ext
// (case-insensitive), sorted lexically. A root without matches yields an empty slice.
func Files(root, ext string) ([]string, error) {
	if ext == "" {
		ext = constants.JSONFileExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %s", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %s", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data path %s is not a directory", absRoot)
	}

	files := []string{}
	err = filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if entry.Name() == constants.CheckpointDir {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %s", absRoot, err)
	}

	sort.Strings(files)
	return files, nil
}
