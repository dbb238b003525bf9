package ctdf

type DataSource struct {
	OriginalFormat string // eg. trace-csv, gtfs-realtime
	Provider       string
	Dataset        string
	Identifier     string
}
