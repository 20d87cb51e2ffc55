// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the clinpgx-lookup CLI.
// See docs/ARCHITECTURE § Command Line Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/clinpgx-lookup/internal/lookup"
	"github.com/pdiddy/clinpgx-lookup/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the clinpgx-lookup CLI.
var rootCmd = &cobra.Command{
	Use:   "clinpgx-lookup",
	Short: "Resolve biomedical entity names to ClinPGx accession IDs",
	Long: `clinpgx-lookup resolves drug, gene, phenotype, variant, and allele names
to their canonical accession identifiers. Lookups run against locally held
ClinPGx TSV exports; name indexes are built on first use and cached in a
local SQLite database.

Use search for lookups, check to inspect data availability, setup to install
data files, and rebuild to refresh cached indexes.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./clinpgx-lookup.yaml or ~/.config/clinpgx-lookup/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the ClinPGx TSV exports")
	rootCmd.PersistentFlags().String("cache-dir", "", "directory for the index cache and managed data copies")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("clinpgx-lookup")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "clinpgx-lookup"))
		}
	}

	viper.SetDefault("threshold", types.DefaultThreshold)
	viper.SetDefault("top_k", types.DefaultTopK)

	viper.SetEnvPrefix("CLINPGX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// lookupConfig assembles the service configuration from viper (config file
// and CLINPGX_* environment) with persistent flags taking precedence.
func lookupConfig(cmd *cobra.Command) types.Config {
	cfg := types.Config{
		DataDir:   viper.GetString("data_dir"),
		CacheDir:  viper.GetString("cache_dir"),
		Threshold: viper.GetFloat64("threshold"),
		TopK:      viper.GetInt("top_k"),
	}

	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if cacheDir, _ := cmd.Flags().GetString("cache-dir"); cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	return cfg
}

func newLookupService(cmd *cobra.Command) (*lookup.Service, error) {
	return lookup.NewService(lookupConfig(cmd), os.Stderr)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
