package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"holocron/core/reconcile"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	datasetPath    string
	datasetVersion int

	// Flags for reconcile purge
	dryRunPurge bool
	yesConfirm  bool
)

// reconcileCmd rebuilds the encyclopedia from the bundled dataset when it is behind.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Bring the encyclopedia up to date with the bundled dataset",
	Long: `Compares the stored catalogue version with the dataset version and rebuilds
the encyclopedia when it is missing or behind. Collection quantities are kept;
entries whose variant no longer exists are removed after a migration.

Examples:
  # Reconcile with the configured dataset
  reconcile

  # Reconcile from a specific file, forcing the target version
  reconcile --dataset ./dataset.json --version 4`,
	RunE: runReconcile,
}

// purgeCmd removes collection entries that reference unknown variants.
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove collection entries whose variant no longer exists",
	Long: `Plans the removal of collection entries that reference variants missing from
the encyclopedia, prints the plan and applies it after confirmation.

Examples:
  # Show the plan only
  reconcile purge --dry-run

  # Apply without prompting
  reconcile purge --yes`,
	RunE: runPurge,
}

func init() {
	reconcileCmd.Flags().StringVar(&datasetPath, "dataset", "", "Dataset file (overrides the configured source)")
	reconcileCmd.Flags().IntVar(&datasetVersion, "version", 0, "Target catalogue version (defaults to the dataset version)")

	purgeCmd.Flags().BoolVar(&dryRunPurge, "dry-run", false, "Only print the plan")
	purgeCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	reconcileCmd.AddCommand(purgeCmd)
	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if datasetPath != "" {
		rt.cfg.Dataset.Source = reconcile.SourceFile
		rt.cfg.Dataset.Path = datasetPath
	}
	if datasetVersion > 0 {
		rt.cfg.Dataset.Version = datasetVersion
	}

	ds, target, err := rt.loadDataset(ctx)
	if err != nil {
		return err
	}

	res, err := reconcile.NewReconciler(rt.store, nil, rt.logger).Reconcile(ctx, ds, target)
	if err != nil && !errors.Is(err, reconcile.ErrCleanupIncomplete) {
		return err
	}

	rt.logger.Info("Reconciliation report",
		zap.String("status", string(res.Status)),
		zap.Int("previous_version", res.PreviousVersion),
		zap.Int("version", res.Version),
		zap.Int("sets", res.Inserted.Sets),
		zap.Int("cards", res.Inserted.Cards),
		zap.Int("variants", res.Inserted.Variants),
		zap.Int("appearances", res.Inserted.Appearances),
		zap.Int("pricing", res.Inserted.Pricing),
		zap.Int("pricing_links", res.Inserted.PricingLinks),
		zap.Int("unmapped_pricing", res.UnmappedPricing),
		zap.Int("purged", res.Purged),
		zap.Duration("duration", res.Duration),
	)
	return err
}

func runPurge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	l := rt.logger

	r := reconcile.NewReconciler(rt.store, nil, l)

	// Step 1: Plan (always runs)
	plan, err := r.PlanPurge(ctx)
	if err != nil {
		return fmt.Errorf("failed to plan purge: %w", err)
	}
	printPurgeReport(cmd, l, plan)

	if len(plan.Actions) == 0 {
		l.Info("No actions required.")
		return nil
	}
	if dryRunPurge {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	// Step 2: Apply (if confirmed)
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	executed, err := r.ApplyPurge(ctx, plan, reconcile.PurgeOptions{Confirmed: true})
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}
	l.Info("Successfully executed actions", zap.Int("count", executed))
	return nil
}

// printPurgeReport logs the plan summary and renders the planned actions as a table.
func printPurgeReport(cmd *cobra.Command, l *zap.Logger, plan *reconcile.PurgePlan) {
	s := plan.Summary

	l.Info("Purge report",
		zap.Int("collection_entries", s.CollectionEntries),
		zap.Int("catalog_variants", s.CatalogVariants),
		zap.Int("orphans", s.Orphans),
	)
	if len(plan.Actions) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Action", "Variant", "Quantity", "Reason"})
	for _, action := range plan.Actions {
		t.AppendRow(table.Row{action.Type, action.Key, action.Quantity, action.Reason})
	}
	t.Render()
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
