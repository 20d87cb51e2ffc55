// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/clinpgx-lookup/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <type> <name>...",
	Short: "Look up accession IDs for an entity name",
	Long: `Search resolves an entity name to ClinPGx accession identifiers. The type
is one of drug, gene, phenotype, variant, or allele; the remaining arguments
form the name to look up.

An exact name match returns its IDs with score 1.000. Otherwise candidate
names scoring at least the threshold are ranked best first. The command
exits nonzero when nothing matches.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	typ, err := types.ParseEntityType(args[0])
	if err != nil {
		return err
	}
	term := strings.Join(args[1:], " ")

	threshold := viper.GetFloat64("threshold")
	if cmd.Flags().Changed("threshold") {
		threshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	topK := viper.GetInt("top_k")
	if cmd.Flags().Changed("top-k") {
		topK, _ = cmd.Flags().GetInt("top-k")
	}

	svc, err := newLookupService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	results, err := svc.Search(context.Background(), typ, term, threshold, topK)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	withNames, _ := cmd.Flags().GetBool("names")
	if err := formatSearchOutput(results, jsonOutput, withNames); err != nil {
		return err
	}

	if len(results) == 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("no %s matches for %q", typ, term)
	}
	return nil
}

func formatSearchOutput(results []types.MatchResult, jsonOutput, withNames bool) error {
	if jsonOutput {
		if results == nil {
			results = []types.MatchResult{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		if withNames {
			fmt.Fprintf(os.Stdout, "%s\t%s\t%.3f\n", r.ID, r.Name, r.Score)
		} else {
			fmt.Fprintf(os.Stdout, "%s\t%.3f\n", r.ID, r.Score)
		}
	}
	return nil
}

func init() {
	searchCmd.Flags().Float64("threshold", types.DefaultThreshold, "minimum similarity score for fuzzy matches (0 to 1)")
	searchCmd.Flags().Int("top-k", types.DefaultTopK, "maximum number of results to return")
	searchCmd.Flags().Bool("names", false, "include the matched name in text output")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
