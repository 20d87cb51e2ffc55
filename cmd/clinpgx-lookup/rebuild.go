package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/clinpgx-lookup/pkg/types"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [type]",
	Short: "Rebuild cached name indexes from the data files",
	Long: `Rebuild scans the dataset files and replaces the cached name indexes,
ignoring any existing cache entries. With no argument every dataset is
rebuilt; otherwise only the named entity type.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRebuild,
}

func runRebuild(cmd *cobra.Command, args []string) error {
	targets := types.EntityTypes()
	if len(args) == 1 {
		typ, err := types.ParseEntityType(args[0])
		if err != nil {
			return err
		}
		targets = []types.EntityType{typ}
	}

	svc, err := newLookupService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	for _, typ := range targets {
		ix, err := svc.Rebuild(ctx, typ)
		if err != nil {
			cmd.SilenceUsage = true
			return fmt.Errorf("rebuilding %s: %w", typ, err)
		}
		fmt.Fprintf(os.Stdout, "rebuilt %s: %d rows, %d names in %s\n",
			typ, ix.Meta.Rows, ix.Meta.Names, ix.Meta.BuildDuration.Round(time.Millisecond))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}
