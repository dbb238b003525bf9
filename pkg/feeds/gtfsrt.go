package feeds

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/rs/zerolog/log"
	"github.com/travigo/busproximity/pkg/ctdf"
	"github.com/travigo/busproximity/pkg/proximity"
	"golang.org/x/exp/slices"
	"google.golang.org/protobuf/proto"
)

// GTFSRTFeed replays a directory of GTFS-Realtime VehiclePositions
// snapshots. Each .pb file is one tick, taken in file name order, and tick
// times are seconds since the first file's header timestamp.
type GTFSRTFeed struct {
	files    []string
	position int

	classifier *Classifier
	projection equirectangularProjection

	baseTimestamp int64
	started       bool
}

func NewGTFSRTFeed(directory string, classifier *Classifier) (*GTFSRTFeed, error) {
	files, err := filepath.Glob(filepath.Join(directory, "*.pb"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no GTFS-RT snapshots found in %s", directory)
	}

	slices.Sort(files)

	return &GTFSRTFeed{
		files:      files,
		classifier: classifier,
	}, nil
}

func (f *GTFSRTFeed) Next(ctx context.Context) (*proximity.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.position >= len(f.files) {
		return nil, io.EOF
	}

	path := f.files[f.position]
	f.position++

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	feed := gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed parsing GTFS-RT protobuf %s: %w", path, err)
	}

	timestamp := int64(feed.GetHeader().GetTimestamp())
	if !f.started {
		f.baseTimestamp = timestamp
		f.started = true
	}
	simulationTime := float64(timestamp - f.baseTimestamp)

	datasource := &ctdf.DataSource{
		OriginalFormat: FormatGTFSRealtime,
		Dataset:        filepath.Base(path),
		Identifier:     fmt.Sprint(timestamp),
	}

	var events []*ctdf.VehicleLocationEvent

	for _, entity := range feed.GetEntity() {
		vehiclePosition := entity.GetVehicle()
		if vehiclePosition == nil {
			continue
		}

		vehicleID := vehiclePosition.GetVehicle().GetId()
		if vehicleID == "" {
			vehicleID = entity.GetId()
		}

		facts := VehicleFacts{
			ID:    vehicleID,
			Label: vehiclePosition.GetVehicle().GetLabel(),
			Route: vehiclePosition.GetTrip().GetRouteId(),
		}

		vehicleType, err := f.classifier.Classify(facts)
		if err != nil {
			return nil, err
		}

		event := &ctdf.VehicleLocationEvent{
			VehicleRef:  vehicleID,
			VehicleType: vehicleType,
			IdentifyingInformation: map[string]string{
				"Label":   facts.Label,
				"RouteID": facts.Route,
				"TripID":  vehiclePosition.GetTrip().GetTripId(),
			},
			DataSource:     datasource,
			SimulationTime: simulationTime,
		}

		if position := vehiclePosition.GetPosition(); position != nil {
			location := f.projection.Project(float64(position.GetLatitude()), float64(position.GetLongitude()))
			event.VehicleLocation = &location
		} else {
			log.Debug().Str("vehicle", vehicleID).Str("file", path).Msg("Vehicle has no position")
		}

		events = append(events, event)
	}

	return proximity.NewSnapshot(simulationTime, events), nil
}
