package export

import (
	"io"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/travigo/busproximity/pkg/proximity"
)

// NotAvailable is written for the exit and stay time of a session that was never closed
const NotAvailable = "N/A"

type CSVRow struct {
	VehicleID string `csv:"Vehicle ID"`
	BusID     string `csv:"Bus ID"`
	EnterTime string `csv:"Enter Time"`
	ExitTime  string `csv:"Exit Time"`
	StayTime  string `csv:"Stay Time"`
}

func formatTime(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatOptionalTime(value *float64) string {
	if value == nil {
		return NotAvailable
	}

	return formatTime(*value)
}

func NewCSVRows(records []proximity.Record) []*CSVRow {
	rows := make([]*CSVRow, 0, len(records))

	for _, record := range records {
		rows = append(rows, &CSVRow{
			VehicleID: record.CarID,
			BusID:     record.BusID,
			EnterTime: formatTime(record.EnterTime),
			ExitTime:  formatOptionalTime(record.ExitTime),
			StayTime:  formatOptionalTime(record.StayTime),
		})
	}

	return rows
}

func WriteCSV(writer io.Writer, records []proximity.Record) error {
	return gocsv.Marshal(NewCSVRows(records), writer)
}

func WriteCSVFile(path string, records []proximity.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteCSV(file, records); err != nil {
		return err
	}

	log.Info().Str("file", path).Int("records", len(records)).Msg("Wrote proximity records")

	return file.Close()
}
