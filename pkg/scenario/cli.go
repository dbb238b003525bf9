package scenario

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/busproximity/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	directoryFlag := &cli.StringFlag{
		Name:     "directory",
		Usage:    "Directory of scenario yaml files",
		Required: true,
	}

	return &cli.Command{
		Name:  "scenarios",
		Usage: "Replay recorded simulation scenarios through independent trackers",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "validate and list the registered scenarios",
				Flags: []cli.Flag{directoryFlag},
				Action: func(c *cli.Context) error {
					scenarios, err := LoadScenarios(c.String("directory"))
					if err != nil {
						return err
					}

					for _, scenario := range scenarios {
						log.Info().
							Str("identifier", scenario.Identifier).
							Str("format", scenario.Feed.Format).
							Str("source", scenario.Feed.Source).
							Float64("commrange", scenario.CommRange).
							Msg("Scenario")
					}

					return nil
				},
			},
			{
				Name:  "run",
				Usage: "run every scenario in the directory",
				Flags: []cli.Flag{
					directoryFlag,
					&cli.IntFlag{
						Name:  "parallel",
						Usage: "Maximum scenarios to run at once",
						Value: 4,
					},
					&cli.BoolFlag{
						Name:  "publish",
						Usage: "Connect to redis so scenarios with publish set can push their sessions",
					},
				},
				Action: func(c *cli.Context) error {
					scenarios, err := LoadScenarios(c.String("directory"))
					if err != nil {
						return err
					}

					var connection rmq.Connection
					if c.Bool("publish") {
						if err := redis_client.Connect(); err != nil {
							return err
						}
						defer redis_client.Close()

						connection = redis_client.QueueConnection
					}

					ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
					defer stop()

					failed := 0
					for _, result := range RunAll(ctx, scenarios, connection, c.Int("parallel")) {
						if result.Err != nil {
							failed++
						}
					}

					if failed > 0 {
						return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
					}

					return nil
				},
			},
		},
	}
}
