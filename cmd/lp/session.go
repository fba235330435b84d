package main

import (
	"context"
	"fmt"
	"io"

	"github.com/zulandar/launchpad/internal/app"
	"github.com/zulandar/launchpad/internal/auth"
	"github.com/zulandar/launchpad/internal/config"
	"github.com/zulandar/launchpad/internal/db"
	"github.com/zulandar/launchpad/internal/loader"
	"github.com/zulandar/launchpad/internal/notify"
	"github.com/zulandar/launchpad/internal/notify/discord"
	"github.com/zulandar/launchpad/internal/notify/slack"
	"github.com/zulandar/launchpad/internal/store"
	"gorm.io/gorm"
)

func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}

// appOptions builds the App options shared by the CLI and the server.
func appOptions(cfg *config.Config) (app.Options, error) {
	n, err := buildNotifier(cfg.Notify)
	if err != nil {
		return app.Options{}, err
	}
	return app.Options{
		Loader:   loader.Options{DedupeRegularTasks: cfg.Loader.DedupeRegularTasks},
		Notifier: n,
	}, nil
}

// buildNotifier returns a notifier for every configured platform.
func buildNotifier(cfg config.NotifyConfig) (notify.Notifier, error) {
	var multi notify.Multi
	if cfg.Slack.Enabled() {
		n, err := slack.New(slack.Opts{BotToken: cfg.Slack.Token, ChannelID: cfg.Slack.Channel})
		if err != nil {
			return nil, err
		}
		multi = append(multi, n)
	}
	if cfg.Discord.Enabled() {
		n, err := discord.New(discord.Opts{BotToken: cfg.Discord.Token, ChannelID: cfg.Discord.Channel})
		if err != nil {
			return nil, err
		}
		multi = append(multi, n)
	}
	if len(multi) == 0 {
		return notify.Nop{}, nil
	}
	return multi, nil
}

// openApp loads the configured user's data and returns the load report.
func openApp(ctx context.Context, configPath string) (*app.App, loader.Report, error) {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return nil, loader.Report{}, err
	}
	opts, err := appOptions(cfg)
	if err != nil {
		return nil, loader.Report{}, err
	}
	a := app.New(store.New(gormDB), auth.Static(cfg.User).CurrentUserID(), opts)
	report := a.Load(ctx)
	return a, report, nil
}

// warnPending retries writes that failed during the command once and
// reports any that still did not reach the store.
func warnPending(ctx context.Context, out io.Writer, a *app.App) {
	if len(a.Pending()) == 0 {
		return
	}
	if n := a.Sync(ctx); n > 0 {
		fmt.Fprintf(out, "Warning: %d change(s) could not be written to the store.\n", n)
	}
}
