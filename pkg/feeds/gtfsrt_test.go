package feeds

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

type testVehicle struct {
	id        string
	label     string
	route     string
	latitude  float32
	longitude float32
	noFix     bool
}

func writeFeedMessage(t *testing.T, directory string, name string, timestamp uint64, vehicles []testVehicle) {
	message := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(timestamp),
		},
	}

	for i, vehicle := range vehicles {
		position := &gtfs.VehiclePosition{
			Vehicle: &gtfs.VehicleDescriptor{
				Id:    proto.String(vehicle.id),
				Label: proto.String(vehicle.label),
			},
			Trip: &gtfs.TripDescriptor{
				RouteId: proto.String(vehicle.route),
			},
		}
		if !vehicle.noFix {
			position.Position = &gtfs.Position{
				Latitude:  proto.Float32(vehicle.latitude),
				Longitude: proto.Float32(vehicle.longitude),
			}
		}

		message.Entity = append(message.Entity, &gtfs.FeedEntity{
			Id:      proto.String(fmt.Sprintf("entity-%d", i)),
			Vehicle: position,
		})
	}

	body, err := proto.Marshal(message)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(directory, name), body, 0644))
}

func TestGTFSRTFeedReadsSnapshotsInOrder(t *testing.T) {
	directory := t.TempDir()

	writeFeedMessage(t, directory, "0002.pb", 1700000010, []testVehicle{
		{id: "bus-7", route: "7", latitude: 51.5, longitude: -0.1},
		{id: "car-1", noFix: true},
	})
	writeFeedMessage(t, directory, "0001.pb", 1700000000, []testVehicle{
		{id: "bus-7", route: "7", latitude: 51.5, longitude: -0.1},
		{id: "car-1", route: "", latitude: 51.5005, longitude: -0.1},
	})
	require.NoError(t, os.WriteFile(filepath.Join(directory, "README.txt"), []byte("ignored"), 0644))

	classifier, err := NewClassifier(`route == "7"`)
	require.NoError(t, err)

	feed, err := NewGTFSRTFeed(directory, classifier)
	require.NoError(t, err)

	ctx := context.Background()

	snapshot, err := feed.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, snapshot.Time)
	assert.Equal(t, []string{"bus-7"}, snapshot.Buses)
	assert.Equal(t, []string{"car-1"}, snapshot.Cars)

	busLocation := snapshot.Positions["bus-7"]
	carLocation := snapshot.Positions["car-1"]
	assert.InDelta(t, 0, busLocation.X(), 0.001)
	assert.InDelta(t, 0, busLocation.Y(), 0.001)
	// 0.0005 degrees of latitude is roughly 55.6 metres
	assert.InDelta(t, 55.6, busLocation.Distance(carLocation), 1)

	snapshot, err = feed.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, snapshot.Time)
	assert.Equal(t, []string{"bus-7"}, snapshot.Buses)
	assert.Empty(t, snapshot.Cars)

	_, err = feed.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGTFSRTFeedFallsBackToEntityID(t *testing.T) {
	directory := t.TempDir()
	writeFeedMessage(t, directory, "0001.pb", 100, []testVehicle{
		{id: "", latitude: 10, longitude: 10},
	})

	feed, err := NewGTFSRTFeed(directory, defaultClassifier(t))
	require.NoError(t, err)

	snapshot, err := feed.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"entity-0"}, snapshot.Cars)
}

func TestGTFSRTFeedEmptyDirectory(t *testing.T) {
	_, err := NewGTFSRTFeed(t.TempDir(), defaultClassifier(t))
	assert.Error(t, err)
}

func TestGTFSRTFeedCorruptFile(t *testing.T) {
	directory := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(directory, "0001.pb"), []byte{0xff, 0xff, 0xff}, 0644))

	feed, err := NewGTFSRTFeed(directory, defaultClassifier(t))
	require.NoError(t, err)

	_, err = feed.Next(context.Background())
	assert.Error(t, err)
}
