// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const dataSubdir = "data"

// dataDirs returns the directories searched for dataset files, in order:
// the configured data directory, the managed copy under the cache root,
// then ./data relative to the working directory.
func (s *Service) dataDirs() []string {
	dirs := make([]string, 0, 3)
	if s.cfg.DataDir != "" {
		dirs = append(dirs, s.cfg.DataDir)
	}
	dirs = append(dirs, filepath.Join(s.cfg.CacheDir, dataSubdir), dataSubdir)
	return dirs
}

// resolveDataFile returns the first existing copy of the relative dataset
// path under the search directories.
func (s *Service) resolveDataFile(rel string) (string, error) {
	dirs := s.dataDirs()
	for _, dir := range dirs {
		path := filepath.Join(dir, rel)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %s)", ErrDataFileNotFound, rel, strings.Join(dirs, ", "))
}
