package types

import (
	"os"
	"path/filepath"
)

// Default lookup parameters, used when the caller passes none.
const (
	DefaultThreshold = 0.6
	DefaultTopK      = 5
)

// Config holds the runtime settings for the lookup service.
type Config struct {
	// DataDir is the directory holding the dataset TSVs. Empty means fall
	// back to the resolution order: <CacheDir>/data, then ./data.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// CacheDir is the root directory for built name-index caches and managed
	// data. Empty means DefaultCacheDir().
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// Threshold is the default minimum similarity for fuzzy matches.
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// TopK is the default maximum number of results per lookup.
	TopK int `json:"top_k" yaml:"top_k"`
}

// DefaultCacheDir returns the per-user cache directory for lookup data
// (e.g. ~/.cache/clinpgx-lookup), falling back to the system temp directory
// when no user cache directory can be determined.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "clinpgx-lookup")
	}
	return filepath.Join(base, "clinpgx-lookup")
}
