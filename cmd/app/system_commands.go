package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/medgate/cmd/app/commands"
	"github.com/allisson/medgate/internal/app"
	"github.com/allisson/medgate/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "create-master-key",
			Usage: "Generate a new master key for field encryption and audit signing",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "Master key ID (e.g., prod-master-key-2026)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateMasterKey(
					commands.DefaultIO().Writer,
					cmd.String("id"),
				)
			},
		},
		{
			Name:  "rotate-master-key",
			Usage: "Rotate the master key by generating a new key and combining with existing keys",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "New master key ID (e.g., prod-master-key-2027)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunRotateMasterKey(
					commands.DefaultIO().Writer,
					cmd.String("id"),
					os.Getenv("MASTER_KEYS"),
					os.Getenv("ACTIVE_MASTER_KEY_ID"),
				)
			},
		},
		{
			Name:  "verify-audit-logs",
			Usage: "Verify cryptographic integrity of the audit log",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				auditUseCase, err := container.AuditUseCase()
				if err != nil {
					return err
				}

				return commands.RunVerifyAuditLogs(
					ctx,
					auditUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
