package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/medgate/cmd/app/commands"
	"github.com/allisson/medgate/internal/app"
	"github.com/allisson/medgate/internal/config"
)

func getRecordCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "purge-expired",
			Usage: "Delete records whose consent retention window has elapsed",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "username",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Admin username performing the purge (recorded in the audit log)",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many records would be purged without deleting",
				},
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

				gateway, err := container.Gateway()
				if err != nil {
					return err
				}

				userRepo, err := container.UserRepository()
				if err != nil {
					return err
				}

				return commands.RunPurgeExpired(
					ctx,
					gateway,
					userRepo,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("username"),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
