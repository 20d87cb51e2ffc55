// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup resolves biomedical entity names to canonical accession
// identifiers using per-dataset name indexes, caching built indexes between
// runs.
// Implements: docs/ARCHITECTURE § Lookup Service.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pdiddy/clinpgx-lookup/internal/cache"
	"github.com/pdiddy/clinpgx-lookup/internal/index"
	"github.com/pdiddy/clinpgx-lookup/internal/match"
	"github.com/pdiddy/clinpgx-lookup/pkg/types"
)

var (
	// ErrDataFileNotFound is reported when a dataset file exists in none of
	// the searched data directories.
	ErrDataFileNotFound = errors.New("data file not found")

	// ErrThresholdRange is reported for score thresholds outside [0, 1].
	ErrThresholdRange = errors.New("threshold outside [0, 1]")
)

// Service answers name lookups against lazily built per-dataset indexes.
// Methods are safe for concurrent use.
type Service struct {
	cfg   types.Config
	store *cache.Store
	warn  io.Writer

	mu      sync.Mutex
	indices map[types.EntityType]*index.NameIndex
}

// NewService opens the index cache under cfg.CacheDir and returns a service
// reading data files per cfg. Cache problems are reported on warn, never
// fatal.
func NewService(cfg types.Config, warn io.Writer) (*Service, error) {
	if cfg.CacheDir == "" {
		cfg.CacheDir = types.DefaultCacheDir()
	}
	if warn == nil {
		warn = io.Discard
	}

	store, err := cache.NewStore(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("opening index cache: %w", err)
	}

	return &Service{
		cfg:     cfg,
		store:   store,
		warn:    warn,
		indices: make(map[types.EntityType]*index.NameIndex),
	}, nil
}

// Close releases the cache database.
func (s *Service) Close() error {
	return s.store.Close()
}

// Search returns up to topK identifiers matching term in the given dataset,
// best first. An exact name hit scores 1.0 and suppresses fuzzy scanning;
// otherwise candidates scoring at least threshold are ranked. An empty or
// unmatchable term yields an empty result, not an error.
func (s *Service) Search(ctx context.Context, typ types.EntityType, term string, threshold float64, topK int) ([]types.MatchResult, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: %v", ErrThresholdRange, threshold)
	}

	ix, err := s.Index(ctx, typ)
	if err != nil {
		return nil, err
	}

	return match.Lookup(ix, term, threshold, topK), nil
}

// Index returns the name index for typ, building it on first use. A fresh
// cache entry short-circuits the TSV scan; stale or unreadable entries are
// rebuilt, and the rebuilt index is written back.
func (s *Service) Index(ctx context.Context, typ types.EntityType) (*index.NameIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ix, ok := s.indices[typ]; ok {
		return ix, nil
	}

	spec := typ.Spec()
	if spec.File == "" {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownEntityType, typ)
	}

	path, err := s.resolveDataFile(spec.File)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}

	cached, err := s.store.Load(ctx, spec.CacheName, info.ModTime())
	if err != nil {
		fmt.Fprintf(s.warn, "warning: cache read for %s failed: %v; rebuilding\n", typ, err)
	} else if cached != nil {
		s.indices[typ] = cached
		return cached, nil
	}

	ix, err := s.build(ctx, typ, path)
	if err != nil {
		return nil, err
	}
	s.indices[typ] = ix
	return ix, nil
}

// Rebuild builds the index for typ from its data file, bypassing any cache
// entry, and replaces both the cache entry and the in-memory copy.
func (s *Service) Rebuild(ctx context.Context, typ types.EntityType) (*index.NameIndex, error) {
	spec := typ.Spec()
	if spec.File == "" {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownEntityType, typ)
	}

	path, err := s.resolveDataFile(spec.File)
	if err != nil {
		return nil, err
	}

	ix, err := s.build(ctx, typ, path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.indices[typ] = ix
	s.mu.Unlock()
	return ix, nil
}

// build scans the data file and writes the result to the cache. A cache
// write failure downgrades to a warning so the lookup still proceeds.
func (s *Service) build(ctx context.Context, typ types.EntityType, path string) (*index.NameIndex, error) {
	spec := typ.Spec()

	ix, err := index.Build(ctx, path, spec)
	if err != nil {
		return nil, fmt.Errorf("building %s index: %w", typ, err)
	}

	if err := s.store.Save(ctx, spec.CacheName, ix); err != nil {
		fmt.Fprintf(s.warn, "warning: cache write for %s failed: %v\n", typ, err)
	}

	return ix, nil
}
