package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile and push local state to the store",
		Long:  "Loads the configured user's data, persists migrated legacy ids and retries any write that failed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	return cmd
}

func runSync(cmd *cobra.Command, configPath string) error {
	ctx := context.Background()
	a, _, err := openApp(ctx, configPath)
	if err != nil {
		return err
	}
	remaining := a.Sync(ctx)

	out := cmd.OutOrStdout()
	if remaining > 0 {
		for _, p := range a.Pending() {
			fmt.Fprintf(out, "pending: %s %s %s\n", p.Op, p.Kind, p.ID)
		}
		return fmt.Errorf("sync: %d change(s) still pending", remaining)
	}
	migrated := 0
	for _, m := range a.Migrations() {
		if !m.InPlace() {
			migrated++
		}
	}
	fmt.Fprintf(out, "In sync (%d legacy id(s) migrated).\n", migrated)
	return nil
}
