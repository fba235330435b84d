package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/launchpad/internal/api"
	"github.com/zulandar/launchpad/internal/app"
	"github.com/zulandar/launchpad/internal/auth"
	"github.com/zulandar/launchpad/internal/db"
	"github.com/zulandar/launchpad/internal/schedule"
	"github.com/zulandar/launchpad/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		Long:  "Serves the Launchpad API and runs the background sync and digest jobs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	opts, err := appOptions(cfg)
	if err != nil {
		return err
	}
	if port <= 0 {
		port = cfg.Server.Port
	}

	reg := app.NewRegistry(store.New(gormDB), opts)
	sched, err := schedule.New(schedule.Opts{
		Registry:       reg,
		Notifier:       opts.Notifier,
		SyncSchedule:   cfg.Sync.Schedule,
		DigestSchedule: cfg.Notify.DigestSchedule,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	err = api.Start(ctx, api.StartOpts{
		Registry: reg,
		User:     auth.Static(cfg.User),
		Port:     port,
		Out:      cmd.OutOrStdout(),
	})
	cancel()
	<-done

	// Last chance for writes that never reached the store.
	if n := reg.SyncAll(context.Background()); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d change(s) could not be written to the store.\n", n)
	}
	return err
}
