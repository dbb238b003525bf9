package proximity

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceFeed struct {
	snapshots []*Snapshot
	err       error
	position  int
}

func (f *sliceFeed) Next(_ context.Context) (*Snapshot, error) {
	if f.position >= len(f.snapshots) {
		if f.err != nil {
			return nil, f.err
		}
		return nil, io.EOF
	}

	snapshot := f.snapshots[f.position]
	f.position++

	return snapshot, nil
}

func TestRunFinalizesAtEndOfFeed(t *testing.T) {
	bus := vehicle{"bus1", 0, 0}
	feed := &sliceFeed{snapshots: []*Snapshot{
		tick(0, []vehicle{bus}, []vehicle{{"car1", 10, 0}}),
		tick(0.1, []vehicle{bus}, []vehicle{{"car1", 20, 0}}),
		tick(0.2, []vehicle{bus}, []vehicle{{"car1", 30, 0}}),
	}}

	ledger, err := Run(context.Background(), feed, newTestTracker(t), RunOptions{})
	require.NoError(t, err)

	records := ledger.Records()
	require.Len(t, records, 1)
	require.NotNil(t, records[0].ExitTime)
	assert.Equal(t, 0.2, *records[0].ExitTime)
}

func TestRunStopsAfterEndTime(t *testing.T) {
	bus := vehicle{"bus1", 0, 0}
	feed := &sliceFeed{snapshots: []*Snapshot{
		tick(299, []vehicle{bus}, []vehicle{{"car1", 10, 0}}),
		tick(300, []vehicle{bus}, []vehicle{{"car1", 10, 0}}),
		tick(301, []vehicle{bus}, []vehicle{{"car1", 900, 0}}),
	}}

	tracker := newTestTracker(t)
	ledger, err := Run(context.Background(), feed, tracker, RunOptions{EndTime: 300})
	require.NoError(t, err)

	assert.Equal(t, 2, tracker.Stats().Ticks)
	records := ledger.Records()
	require.Len(t, records, 1)
	assert.Equal(t, 300.0, *records[0].ExitTime)
	assert.Equal(t, 1.0, *records[0].StayTime)
}

func TestRunSkipsOutOfOrderTicks(t *testing.T) {
	bus := vehicle{"bus1", 0, 0}
	feed := &sliceFeed{snapshots: []*Snapshot{
		tick(2, []vehicle{bus}, []vehicle{{"car1", 10, 0}}),
		tick(1, []vehicle{bus}, nil),
		tick(4, []vehicle{bus}, []vehicle{{"car1", 10, 0}}),
	}}

	tracker := newTestTracker(t)
	ledger, err := Run(context.Background(), feed, tracker, RunOptions{})
	require.NoError(t, err)

	records := ledger.Records()
	require.Len(t, records, 1)
	assert.Equal(t, 2.0, records[0].EnterTime)
	assert.Equal(t, 4.0, *records[0].ExitTime)
	assert.Equal(t, 2, tracker.Stats().Ticks)
}

func TestRunReturnsFeedError(t *testing.T) {
	feedErr := errors.New("simulator went away")
	feed := &sliceFeed{
		snapshots: []*Snapshot{tick(0, []vehicle{{"bus1", 0, 0}}, []vehicle{{"car1", 1, 0}})},
		err:       feedErr,
	}

	ledger, err := Run(context.Background(), feed, newTestTracker(t), RunOptions{})
	assert.ErrorIs(t, err, feedErr)

	require.NotNil(t, ledger)
	records := ledger.Records()
	require.Len(t, records, 1)
	assert.NotNil(t, records[0].ExitTime)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	feed := &sliceFeed{snapshots: []*Snapshot{tick(0, nil, nil)}}

	ledger, err := Run(ctx, feed, newTestTracker(t), RunOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, ledger)
	assert.Equal(t, 0, feed.position)
}

func TestRunSkipsInvalidTicks(t *testing.T) {
	bus := vehicle{"bus1", 0, 0}
	feed := &sliceFeed{snapshots: []*Snapshot{
		tick(1, []vehicle{bus}, []vehicle{{"car1", 10, 0}}),
		tick(math.Inf(1), []vehicle{bus}, nil),
		tick(3, []vehicle{bus}, []vehicle{{"car1", 10, 0}}),
	}}

	tracker := newTestTracker(t)
	ledger, err := Run(context.Background(), feed, tracker, RunOptions{})
	require.NoError(t, err)

	records := ledger.Records()
	require.Len(t, records, 1)
	assert.Equal(t, 3.0, *records[0].ExitTime)
	assert.Equal(t, 2, tracker.Stats().Ticks)
}
