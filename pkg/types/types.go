// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the clinpgx-lookup engine.
// Implements: docs/ARCHITECTURE § Data Structures, § Datasets.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EntityType identifies one of the supported biomedical datasets.
type EntityType string

const (
	EntityDrug      EntityType = "drug"
	EntityGene      EntityType = "gene"
	EntityPhenotype EntityType = "phenotype"
	EntityVariant   EntityType = "variant"
	EntityAllele    EntityType = "allele"
)

// ErrUnknownEntityType is returned by ParseEntityType for input outside the
// supported set.
var ErrUnknownEntityType = errors.New("unknown entity type")

// entityAliases maps accepted spellings to their canonical type. Matching is
// case-insensitive; both singular and plural forms are accepted.
var entityAliases = map[string]EntityType{
	"drug":       EntityDrug,
	"drugs":      EntityDrug,
	"gene":       EntityGene,
	"genes":      EntityGene,
	"phenotype":  EntityPhenotype,
	"phenotypes": EntityPhenotype,
	"variant":    EntityVariant,
	"variants":   EntityVariant,
	"allele":     EntityAllele,
	"alleles":    EntityAllele,
}

// ParseEntityType resolves user input to a canonical EntityType.
func ParseEntityType(s string) (EntityType, error) {
	if et, ok := entityAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return et, nil
	}
	return "", fmt.Errorf("%w: %q (want drug, gene, phenotype, variant, or allele)", ErrUnknownEntityType, s)
}

// EntityTypes lists the supported entity types in stable display order.
func EntityTypes() []EntityType {
	return []EntityType{EntityDrug, EntityGene, EntityPhenotype, EntityVariant, EntityAllele}
}

// MatchResult is one identifier returned by a lookup.
type MatchResult struct {
	// ID is the canonical accession identifier (e.g. "PA448004").
	ID string `json:"id" yaml:"id"`

	// Name is the name behind the match. Exact hits carry the recorded
	// primary display name (or the query's canonical form when none exists);
	// fuzzy hits carry the candidate name that scored best.
	Name string `json:"name" yaml:"name"`

	// Score is the similarity between the query and the matched name,
	// between 0.0 and 1.0. Exact matches score exactly 1.0.
	Score float64 `json:"score" yaml:"score"`
}

// IndexMetadata records the provenance of a built name index.
type IndexMetadata struct {
	// Source is the path of the TSV file the index was built from.
	Source string `json:"source" yaml:"source"`

	// SourceModTime is the source file's modification time at build,
	// compared against the live file to detect staleness.
	SourceModTime time.Time `json:"source_mod_time" yaml:"source_mod_time"`

	// Rows counts the data rows read from the source, including skipped ones.
	Rows int `json:"rows" yaml:"rows"`

	// Names counts the distinct normalized names in the index.
	Names int `json:"names" yaml:"names"`

	// BuiltAt is the UTC timestamp of the build.
	BuiltAt time.Time `json:"built_at" yaml:"built_at"`

	// BuildDuration is the wall-clock time the build took.
	BuildDuration time.Duration `json:"build_duration" yaml:"build_duration"`

	// SchemaVersion guards cached payloads against structural drift; a cached
	// index built under a different version is rebuilt.
	SchemaVersion int `json:"schema_version" yaml:"schema_version"`
}
