package scenario

import (
	"context"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/busproximity/pkg/export"
	"github.com/travigo/busproximity/pkg/feeds"
	"github.com/travigo/busproximity/pkg/proximity"
	"golang.org/x/exp/slices"
)

type Result struct {
	Scenario *Scenario

	Records []proximity.Record
	Stats   proximity.Stats

	Err error

	index int
}

// Run replays a single scenario through its own tracker. When the scenario
// asks to publish and connection is set, records are also pushed to the queue.
// A run stopped by cancellation or a feed error still writes its CSV output
// before returning the error, but is not published.
func Run(ctx context.Context, scenario *Scenario, connection rmq.Connection) Result {
	result := Result{Scenario: scenario}

	classifier, err := feeds.NewClassifier(scenario.Classifier)
	if err != nil {
		result.Err = err
		return result
	}

	feed, err := feeds.Open(scenario.Feed.Format, scenario.Feed.Source, classifier)
	if err != nil {
		result.Err = err
		return result
	}

	tracker, err := proximity.NewTracker(scenario.CommRange)
	if err != nil {
		result.Err = err
		return result
	}

	endTime, err := scenario.RunEndTime()
	if err != nil {
		result.Err = err
		return result
	}

	log.Info().
		Str("scenario", scenario.Identifier).
		Str("format", scenario.Feed.Format).
		Float64("commrange", scenario.CommRange).
		Float64("endtime", endTime).
		Msg("Running scenario")

	ledger, runErr := proximity.Run(ctx, feed, tracker, proximity.RunOptions{EndTime: endTime})
	result.Records = ledger.Records()
	result.Stats = tracker.Stats()

	// The ledger is finalized even when the run was cut short, so keep what was collected
	if scenario.Output != "" {
		if err := export.WriteCSVFile(scenario.Output, result.Records); err != nil {
			result.Err = err
			return result
		}
	}

	if runErr != nil {
		result.Err = runErr
		return result
	}

	if scenario.Publish && connection != nil {
		publisher, err := export.NewQueuePublisher(connection, scenario.QueueName)
		if err != nil {
			result.Err = err
			return result
		}
		publisher.Scenario = scenario.Identifier

		if err := publisher.Publish(result.Records); err != nil {
			result.Err = err
			return result
		}
	}

	return result
}

// RunAll runs every scenario on its own tracker, at most maxParallel at a
// time (unbounded when maxParallel is zero or less). Results are returned in
// the same order as scenarios.
func RunAll(ctx context.Context, scenarios []*Scenario, connection rmq.Connection, maxParallel int) []Result {
	startTime := time.Now()

	p := pool.NewWithResults[Result]()
	if maxParallel > 0 {
		p = p.WithMaxGoroutines(maxParallel)
	}

	for i, scenario := range scenarios {
		p.Go(func() Result {
			result := Run(ctx, scenario, connection)
			result.index = i

			return result
		})
	}

	results := p.Wait()
	slices.SortFunc(results, func(a, b Result) int {
		return a.index - b.index
	})

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			log.Error().Err(result.Err).Str("scenario", result.Scenario.Identifier).Msg("Scenario failed")
		}
	}

	log.Info().
		Int("scenarios", len(results)).
		Int("failed", failed).
		Str("Time", time.Since(startTime).String()).
		Msg("Scenario batch complete")

	return results
}
