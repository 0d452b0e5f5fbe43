package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/medgate/cmd/app/commands"
	"github.com/allisson/medgate/internal/app"
	"github.com/allisson/medgate/internal/config"
)

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Create a new user with a role",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "username",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Unique username",
				},
				&cli.StringFlag{
					Name:     "role",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Role: admin, clinician, or front_desk",
				},
				&cli.BoolFlag{
					Name:    "active",
					Aliases: []string{"a"},
					Value:   true,
					Usage:   "Whether the user can authenticate immediately",
				},
				&cli.StringFlag{
					Name:    "secret",
					Aliases: []string{"s"},
					Usage:   "Plain secret (omit to generate a random one)",
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

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					userUseCase,
					container.SecretService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("username"),
					cmd.String("role"),
					cmd.Bool("active"),
					cmd.String("secret"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "rotate-secret",
			Usage: "Replace a user's secret",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "username",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Username whose secret to rotate",
				},
				&cli.StringFlag{
					Name:    "secret",
					Aliases: []string{"s"},
					Usage:   "New plain secret (omit to generate a random one)",
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

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateSecret(
					ctx,
					userUseCase,
					container.SecretService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("username"),
					cmd.String("secret"),
					cmd.String("format"),
				)
			},
		},
	}
}
