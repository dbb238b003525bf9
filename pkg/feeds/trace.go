package feeds

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/travigo/busproximity/pkg/ctdf"
	"github.com/travigo/busproximity/pkg/proximity"
)

// TraceRow is one line of a floating car data trace
type TraceRow struct {
	Time      float64 `csv:"time"`
	VehicleID string  `csv:"vehicle_id"`
	X         string  `csv:"x"`
	Y         string  `csv:"y"`
	Type      string  `csv:"type"`
}

// TraceFeed replays a CSV trace exported from the simulator. Consecutive
// rows with the same time form one tick.
type TraceFeed struct {
	rows       []*TraceRow
	position   int
	classifier *Classifier
	datasource *ctdf.DataSource
}

func NewTraceFeed(reader io.Reader, classifier *Classifier) (*TraceFeed, error) {
	// Allow optional trailing columns to be left off
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	var rows []*TraceRow
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse trace: %w", err)
	}

	return &TraceFeed{
		rows:       rows,
		classifier: classifier,
		datasource: &ctdf.DataSource{
			OriginalFormat: FormatTrace,
		},
	}, nil
}

func OpenTraceFile(path string, classifier *Classifier) (*TraceFeed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	feed, err := NewTraceFeed(file, classifier)
	if err != nil {
		return nil, err
	}
	feed.datasource.Dataset = path

	return feed, nil
}

func (f *TraceFeed) Next(ctx context.Context) (*proximity.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.position >= len(f.rows) {
		return nil, io.EOF
	}

	tickTime := f.rows[f.position].Time
	var events []*ctdf.VehicleLocationEvent

	for ; f.position < len(f.rows) && f.rows[f.position].Time == tickTime; f.position++ {
		event, err := f.rowToEvent(f.rows[f.position])
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	return proximity.NewSnapshot(tickTime, events), nil
}

func (f *TraceFeed) rowToEvent(row *TraceRow) (*ctdf.VehicleLocationEvent, error) {
	vehicleType, err := f.classifier.Classify(VehicleFacts{ID: row.VehicleID, Type: row.Type})
	if err != nil {
		return nil, err
	}

	event := &ctdf.VehicleLocationEvent{
		VehicleRef:  row.VehicleID,
		VehicleType: vehicleType,
		IdentifyingInformation: map[string]string{
			"Type": row.Type,
		},
		DataSource:     f.datasource,
		SimulationTime: row.Time,
	}

	if strings.TrimSpace(row.X) == "" || strings.TrimSpace(row.Y) == "" {
		return event, nil
	}

	x, errX := strconv.ParseFloat(strings.TrimSpace(row.X), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(row.Y), 64)
	if errX != nil || errY != nil {
		log.Warn().
			Str("vehicle", row.VehicleID).
			Float64("simtime", row.Time).
			Msg("Unreadable position in trace, treating vehicle as absent")
		return event, nil
	}

	location := ctdf.NewLocation(x, y)
	event.VehicleLocation = &location

	return event, nil
}
