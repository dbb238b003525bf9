package realtime

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/adjust/rmq/v5"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/busproximity/pkg/export"
	"github.com/travigo/busproximity/pkg/feeds"
	"github.com/travigo/busproximity/pkg/proximity"
	"github.com/travigo/busproximity/pkg/redis_client"
	"github.com/travigo/busproximity/pkg/scenario"
	"github.com/urfave/cli/v2"
)

func trackFlags() []cli.Flag {
	config := proximity.GetTrackerConfig()

	return []cli.Flag{
		&cli.StringFlag{
			Name:     "source",
			Usage:    "Trace CSV file or directory of GTFS-RT snapshots",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Feed format: trace or gtfs-realtime",
			Value: feeds.FormatTrace,
		},
		&cli.Float64Flag{
			Name:  "comm-range",
			Usage: "Bus communication radius in metres (inclusive)",
			Value: config.CommRange,
		},
		&cli.Float64Flag{
			Name:  "end-time",
			Usage: "Stop after this many seconds of simulation time, 0 for no limit",
			Value: config.EndTime,
		},
		&cli.StringFlag{
			Name:  "classifier",
			Usage: "Expression deciding which vehicles are buses",
			Value: feeds.GetClassifierExpression(),
		},
	}
}

func scenarioFromFlags(c *cli.Context) *scenario.Scenario {
	return &scenario.Scenario{
		Identifier: "cli",
		Feed: scenario.FeedSource{
			Format: c.String("format"),
			Source: c.String("source"),
		},
		CommRange:  c.Float64("comm-range"),
		EndTime:    c.Float64("end-time"),
		Classifier: c.String("classifier"),
		Output:     c.String("output"),
		Publish:    c.Bool("publish"),
		QueueName:  c.String("queue"),
	}
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "track",
		Usage: "Track car and bus proximity sessions from a recorded simulation",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "replay a feed and export the session records",
				Flags: append(trackFlags(),
					&cli.StringFlag{
						Name:  "output",
						Usage: "CSV file to write the session records to",
						Value: "vehicle_records.csv",
					},
					&cli.BoolFlag{
						Name:  "publish",
						Usage: "Also publish session records to the redis queue",
					},
					&cli.StringFlag{
						Name:  "queue",
						Usage: "Queue name for published session records",
					},
				),
				Action: func(c *cli.Context) error {
					trackScenario := scenarioFromFlags(c)
					if err := trackScenario.Validate(); err != nil {
						return err
					}

					var connection rmq.Connection
					if trackScenario.Publish {
						if err := redis_client.Connect(); err != nil {
							return err
						}
						defer redis_client.Close()

						connection = redis_client.QueueConnection
					}

					ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
					defer stop()

					result := scenario.Run(ctx, trackScenario, connection)

					return result.Err
				},
			},
			{
				Name:  "consume",
				Usage: "consume published session events and log them",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "queue",
						Usage: "Queue name to consume session records from",
					},
					&cli.StringFlag{
						Name:  "stats-listen",
						Usage: "Address for the queue stats and health server",
						Value: defaultStatsAddress,
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}
					defer redis_client.Close()

					tally := newSessionTally()

					_, err := StartConsumers(redis_client.QueueConnection, c.String("queue"), func(event export.SessionEvent) {
						logSessionEvent(event)
						tally.add(event)
					})
					if err != nil {
						return err
					}

					statsServer := NewStatsServer(c.String("stats-listen"), redis_client.QueueConnection, redis_client.Client)
					StartStatsServer(statsServer)
					defer statsServer.Shutdown(context.Background())

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					<-signals

					log.Info().Msg("Stopping session consumers")
					tally.log()

					return nil
				},
			},
			{
				Name:  "inspect",
				Usage: "replay a feed and print the session records",
				Flags: trackFlags(),
				Action: func(c *cli.Context) error {
					trackScenario := scenarioFromFlags(c)
					if err := trackScenario.Validate(); err != nil {
						return err
					}

					result := scenario.Run(c.Context, trackScenario, nil)
					if result.Err != nil {
						return result.Err
					}

					pretty.Println(result.Stats)
					pretty.Println(result.Records)

					return nil
				},
			},
		},
	}
}
