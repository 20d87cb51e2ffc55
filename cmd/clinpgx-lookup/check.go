package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/clinpgx-lookup/internal/lookup"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report which data files and cached indexes are available",
	Long: `Check resolves every dataset file against the configured data directories
and inspects the index cache, without building anything. It exits nonzero
when any dataset file is missing.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	svc, err := newLookupService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	report, err := svc.Check(context.Background())
	if err != nil {
		return err
	}

	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	if err := formatCheckOutput(report, yamlOutput); err != nil {
		return err
	}

	if missing := report.Missing(); len(missing) > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d dataset(s) missing", len(missing))
	}
	return nil
}

func formatCheckOutput(report *lookup.CheckReport, yamlOutput bool) error {
	if yamlOutput {
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	fmt.Fprintf(os.Stdout, "data dirs: %v\n", report.DataDirs)
	fmt.Fprintf(os.Stdout, "cache:     %s\n\n", report.CachePath)

	fmt.Fprintf(os.Stdout, "%-10s  %-26s  %-8s  %s\n", "Type", "File", "Status", "Cache")
	for _, d := range report.Datasets {
		status := "missing"
		if d.Found {
			status = "ok"
		}
		cacheNote := "none"
		switch {
		case d.Cached && d.CacheFresh:
			cacheNote = fmt.Sprintf("fresh (%d names)", d.Names)
		case d.Cached:
			cacheNote = "stale"
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-26s  %-8s  %s\n", d.Type, d.File, status, cacheNote)
	}
	return nil
}

func init() {
	checkCmd.Flags().Bool("yaml", false, "output the report as YAML")

	rootCmd.AddCommand(checkCmd)
}
