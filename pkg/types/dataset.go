// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DatasetSpec is the static table configuration for one entity type: where
// the TSV lives relative to the data directory, and which columns carry
// identifiers and names.
type DatasetSpec struct {
	// File is the TSV path relative to the data directory (e.g. "drugs/drugs.tsv").
	File string `json:"file" yaml:"file"`

	// IDColumn is the required unique-identifier column. Its absence from the
	// header is fatal to a build.
	IDColumn string `json:"id_column" yaml:"id_column"`

	// PrimaryColumns are checked in order for the display name; every
	// non-empty value is also indexed as a candidate name.
	PrimaryColumns []string `json:"primary_columns" yaml:"primary_columns"`

	// ListColumns hold delimiter-separated synonym lists. Optional; a column
	// missing from the header contributes nothing.
	ListColumns []string `json:"list_columns,omitempty" yaml:"list_columns,omitempty"`

	// CacheName keys this dataset's cached index.
	CacheName string `json:"cache_name" yaml:"cache_name"`
}

// datasetSpecs fixes the supported datasets as data rather than branching
// code. Variant and allele lookups read the same TSV but cache independently.
var datasetSpecs = map[EntityType]DatasetSpec{
	EntityDrug: {
		File:           "drugs/drugs.tsv",
		IDColumn:       "PharmGKB Accession Id",
		PrimaryColumns: []string{"Name"},
		ListColumns:    []string{"Generic Names", "Trade Names", "Brand Mixtures"},
		CacheName:      "drugs_name_index",
	},
	EntityGene: {
		File:           "genes/genes.tsv",
		IDColumn:       "PharmGKB Accession Id",
		PrimaryColumns: []string{"Name", "Symbol"},
		ListColumns:    []string{"Alternate Names", "Alternate Symbols"},
		CacheName:      "genes_name_index",
	},
	EntityPhenotype: {
		File:           "phenotypes/phenotypes.tsv",
		IDColumn:       "PharmGKB Accession Id",
		PrimaryColumns: []string{"Name"},
		ListColumns:    []string{"Alternate Names"},
		CacheName:      "phenotypes_name_index",
	},
	EntityVariant: {
		File:           "variants/variants.tsv",
		IDColumn:       "Variant ID",
		PrimaryColumns: []string{"Variant Name"},
		ListColumns:    []string{"Synonyms"},
		CacheName:      "variants_name_index",
	},
	EntityAllele: {
		File:           "variants/variants.tsv",
		IDColumn:       "Variant ID",
		PrimaryColumns: []string{"Variant Name"},
		ListColumns:    []string{"Synonyms"},
		CacheName:      "alleles_name_index",
	},
}

// Spec returns the dataset configuration for the entity type. The zero
// DatasetSpec is returned for types outside the supported set; callers are
// expected to go through ParseEntityType first.
func (t EntityType) Spec() DatasetSpec {
	return datasetSpecs[t]
}
