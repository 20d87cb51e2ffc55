// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pdiddy/clinpgx-lookup/internal/index"
	"github.com/pdiddy/clinpgx-lookup/pkg/types"
)

// DatasetStatus describes one entity type's data file and cache entry.
type DatasetStatus struct {
	Type       types.EntityType `json:"type" yaml:"type"`
	File       string           `json:"file" yaml:"file"`
	Found      bool             `json:"found" yaml:"found"`
	Path       string           `json:"path,omitempty" yaml:"path,omitempty"`
	SizeBytes  int64            `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	ModTime    time.Time        `json:"mod_time,omitempty" yaml:"mod_time,omitempty"`
	Cached     bool             `json:"cached" yaml:"cached"`
	CacheFresh bool             `json:"cache_fresh" yaml:"cache_fresh"`
	BuiltAt    time.Time        `json:"built_at,omitempty" yaml:"built_at,omitempty"`
	Names      int              `json:"names,omitempty" yaml:"names,omitempty"`
}

// CheckReport summarizes dataset availability across every entity type.
type CheckReport struct {
	DataDirs  []string        `json:"data_dirs" yaml:"data_dirs"`
	CachePath string          `json:"cache_path" yaml:"cache_path"`
	Datasets  []DatasetStatus `json:"datasets" yaml:"datasets"`
}

// Missing returns the entity types whose data files were not found.
func (r *CheckReport) Missing() []types.EntityType {
	var missing []types.EntityType
	for _, d := range r.Datasets {
		if !d.Found {
			missing = append(missing, d.Type)
		}
	}
	return missing
}

// Check resolves every dataset file and inspects its cache entry without
// building anything. Cache read problems are reported on the warn writer
// and leave the dataset marked uncached.
func (s *Service) Check(ctx context.Context) (*CheckReport, error) {
	report := &CheckReport{
		DataDirs:  s.dataDirs(),
		CachePath: s.store.Path(),
	}

	for _, typ := range types.EntityTypes() {
		spec := typ.Spec()
		st := DatasetStatus{Type: typ, File: spec.File}

		if path, err := s.resolveDataFile(spec.File); err == nil {
			if info, err := os.Stat(path); err == nil {
				st.Found = true
				st.Path = path
				st.SizeBytes = info.Size()
				st.ModTime = info.ModTime().UTC()
			}
		}

		entry, err := s.store.Entry(ctx, spec.CacheName)
		if err != nil {
			fmt.Fprintf(s.warn, "warning: cache read for %s failed: %v\n", typ, err)
		} else if entry != nil {
			st.Cached = true
			st.BuiltAt = entry.BuiltAt
			st.Names = entry.Names
			st.CacheFresh = entry.SchemaVersion == index.SchemaVersion &&
				st.Found && !st.ModTime.After(entry.SourceModTime)
		}

		report.Datasets = append(report.Datasets, st)
	}

	return report, nil
}
