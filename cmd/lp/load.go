package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/launchpad/internal/models"
)

func newLoadCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load and reconcile stored data",
		Long:  "Loads every collection for the configured user, drops duplicates, migrates legacy ids and prints a summary.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	return cmd
}

func runLoad(cmd *cobra.Command, configPath string) error {
	ctx := context.Background()
	a, report, err := openApp(ctx, configPath)
	if err != nil {
		return err
	}
	snap := a.Snapshot()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "User: %s\n\n", snap.UserID)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tROWS\tDUP-ID\tDUP-CONTENT")
	rows := []struct {
		kind models.Kind
		n    int
	}{
		{models.KindIdea, len(snap.Ideas)},
		{models.KindPipeline, len(snap.Pipelines)},
		{models.KindRepeated, len(snap.Repeated)},
		{models.KindOffice, len(snap.Office)},
		{models.KindRegular, len(snap.Regular)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", r.kind, r.n, report.DroppedByID[r.kind], report.DroppedByContent[r.kind])
	}
	w.Flush()

	migrations := a.Migrations()
	if len(migrations) > 0 {
		fmt.Fprintf(out, "\nMigrated %d row(s):\n", len(migrations))
		sort.Slice(migrations, func(i, j int) bool { return migrations[i].OldID < migrations[j].OldID })
		for _, m := range migrations {
			if m.InPlace() {
				fmt.Fprintf(out, "  %s %s (references rewritten)\n", m.Kind, m.NewID)
				continue
			}
			fmt.Fprintf(out, "  %s %s -> %s\n", m.Kind, m.OldID, m.NewID)
		}
	}
	for _, k := range report.Failed {
		fmt.Fprintf(out, "Warning: could not load %s collection\n", k)
	}
	warnPending(ctx, out, a)
	return nil
}
