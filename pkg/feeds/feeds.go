package feeds

import (
	"fmt"

	"github.com/travigo/busproximity/pkg/proximity"
)

const (
	FormatTrace        = "trace"
	FormatGTFSRealtime = "gtfs-realtime"
)

// Open creates the snapshot feed for a source. Trace sources are CSV files,
// GTFS-RT sources are directories of .pb snapshots.
func Open(format string, source string, classifier *Classifier) (proximity.SnapshotFeed, error) {
	switch format {
	case FormatTrace, "":
		return OpenTraceFile(source, classifier)
	case FormatGTFSRealtime:
		return NewGTFSRTFeed(source, classifier)
	default:
		return nil, fmt.Errorf("unknown feed format %q", format)
	}
}
