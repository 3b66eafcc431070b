package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var (
	version  = "dev"
	revision = "none"
)

func main() {
	// Setup logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:  "kwami-agent",
		Usage: "Voice agent session server for kwami companions",
		Description: `kwami-agent serves conversational voice sessions. Every connected
frontend gets its own session whose persona, voice pipeline and tools can be
reconfigured live over the data channel, without restarting the session.`,
		Version: fmt.Sprintf("%s (rev: %s)", version, revision),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Enable verbose logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Usage:   "Start the agent server",
				Action:  handleServe,
				Aliases: []string{"s"},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (or KWAMI_ADDR)",
						Value: ":8080",
					},
				},
			},
			{
				Name:    "providers",
				Usage:   "List supported speech and language providers",
				Action:  handleProviders,
				Aliases: []string{"p"},
			},
			{
				Name:   "version",
				Usage:  "Print version information",
				Action: handleVersion,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Failed to run application")
	}
}

func handleVersion(ctx context.Context, c *cli.Command) error {
	fmt.Printf("kwami-agent %s (rev: %s)\n", version, revision)
	return nil
}
