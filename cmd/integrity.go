package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"holocron/feature/integrity"
	"holocron/feature/integrity/checks"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the encyclopedia and collection stores",
	Long:  `Verifies both stores against their models and counts dangling references. Prints tables by default or the full report with --json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		jsonOutput, _ := cmd.Flags().GetBool("json")

		rt, err := setup(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		svc := integrity.NewService(rt.store, rt.client, rt.cfg.Storage.Bucket, rt.cfg.Dataset.Object, rt.logger)
		report, err := svc.Check(ctx)
		if err != nil {
			return fmt.Errorf("integrity check failed: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		printIntegrityTables(cmd, report)

		rt.logger.Info("Integrity report",
			zap.Bool("healthy", report.Healthy),
			zap.Int("version", report.Version),
			zap.Duration("duration", time.Since(startTime)),
		)
		if !report.Healthy {
			return fmt.Errorf("integrity problems detected")
		}
		return nil
	},
}

// printIntegrityTables renders the schema and reference sections as tables.
func printIntegrityTables(cmd *cobra.Command, report *integrity.Report) {
	schema := table.NewWriter()
	schema.SetOutputMirror(cmd.OutOrStdout())
	schema.SetStyle(table.StyleLight)
	schema.AppendHeader(table.Row{"Store", "Table", "Status", "Missing Columns"})
	for _, section := range []struct {
		name   string
		report *checks.SchemaReport
	}{
		{"encyclopedia", report.Encyclopedia},
		{"collection", report.Collection},
	} {
		names := make([]string, 0, len(section.report.Tables))
		for name := range section.report.Tables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			tbl := section.report.Tables[name]
			schema.AppendRow(table.Row{section.name, name, tbl.Status, strings.Join(tbl.MissingColumns, ", ")})
		}
	}
	schema.Render()

	if r := report.References; r != nil {
		refs := table.NewWriter()
		refs.SetOutputMirror(cmd.OutOrStdout())
		refs.SetStyle(table.StyleLight)
		refs.AppendHeader(table.Row{"Check", "Rows"})
		refs.AppendRows([]table.Row{
			{"variants without card", r.VariantsWithoutCard},
			{"appearances without set", r.AppearancesWithoutSet},
			{"appearances without variant", r.AppearancesWithoutVariant},
			{"variants without appearance", r.VariantsWithoutAppearance},
			{"non-positive collection entries", r.NonPositiveEntries},
			{"collection entries without variant", r.EntriesWithoutVariant},
		})
		refs.Render()
	}

	if d := report.Dataset; d != nil {
		status := "published"
		switch {
		case d.Error != "":
			status = d.Error
		case !d.Published:
			status = "missing"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "dataset %s/%s: %s\n", d.Bucket, d.Object, status)
	}
}

func init() {
	integrityCmd.Flags().Bool("json", false, "Print the full report as JSON")
	RootCmd.AddCommand(integrityCmd)
}
