package proximity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
)

// SnapshotFeed supplies one Snapshot per simulation tick and returns io.EOF
// once the simulation has ended
type SnapshotFeed interface {
	Next(ctx context.Context) (*Snapshot, error)
}

type RunOptions struct {
	// Ticks after EndTime are not processed. Zero or less means no limit.
	EndTime float64
}

// Run drives the tracker from the feed until the feed ends, the end time is
// passed or the context is cancelled, then finalizes the tracker. The ledger
// is returned even when the run stops on an error.
func Run(ctx context.Context, feed SnapshotFeed, tracker *Tracker, options RunOptions) (*Ledger, error) {
	startTime := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return tracker.Finalize(), err
		}

		snapshot, err := feed.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return tracker.Finalize(), fmt.Errorf("failed to read snapshot: %w", err)
		}

		if options.EndTime > 0 && snapshot.Time > options.EndTime {
			log.Debug().Float64("simtime", snapshot.Time).Msg("Reached end time")
			break
		}

		if err := tracker.Update(snapshot); err != nil {
			if errors.Is(err, ErrNonMonotonicTime) || errors.Is(err, ErrInvalidTime) {
				log.Warn().Err(err).Msg("Skipping unusable tick")
				continue
			}

			return tracker.Finalize(), err
		}
	}

	ledger := tracker.Finalize()
	stats := tracker.Stats()

	log.Info().
		Int("ticks", stats.Ticks).
		Int("sessions", ledger.SessionCount()).
		Int("closedrange", stats.ClosedOutOfRange).
		Int("closeddisappeared", stats.ClosedOnDisappearance).
		Int("closedfinal", stats.ClosedAtFinalize).
		Int("missingpositions", stats.MissingPositions).
		Str("Time", time.Since(startTime).String()).
		Msg("Proximity run complete")

	return ledger, nil
}
