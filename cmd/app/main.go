// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/skillboard/skillboard/cmd/app/commands"
	"github.com/skillboard/skillboard/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "skillboard",
		Usage:   "Content directory for QA testing skills",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server and the email outbox worker",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
					return commands.RunMigrations(logger, cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "send-digest",
				Usage: "Send the weekly top-skills digest to subscribed users",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunSendDigest(ctx, os.Stdout)
				},
			},
			{
				Name:  "purge-sessions",
				Usage: "Delete expired login sessions",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunPurgeSessions(ctx, os.Stdout)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
