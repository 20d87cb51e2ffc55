package main

import (
	"os"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup <source-dir>",
	Short: "Install ClinPGx TSV exports into the managed data directory",
	Long: `Setup copies the known dataset files (drugs/drugs.tsv, genes/genes.tsv,
phenotypes/phenotypes.tsv, variants/variants.tsv) from an unpacked ClinPGx
export directory into the managed data directory under the cache root,
where lookups find them without further configuration. Files absent from
the source directory are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	svc, err := newLookupService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	return svc.Setup(args[0], os.Stdout)
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
