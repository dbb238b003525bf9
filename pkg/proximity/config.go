package proximity

import (
	"github.com/travigo/busproximity/pkg/util"
)

type TrackerConfig struct {
	CommRange float64
	EndTime   float64
}

// Matches the SUMO scenario the tracker was first built for: a 100m bus
// radio and a 300 second run
var defaultTrackerConfig = TrackerConfig{
	CommRange: 100,
	EndTime:   300,
}

// GetTrackerConfig returns the tracker configuration
// from environment variables or defaults
func GetTrackerConfig() TrackerConfig {
	config := defaultTrackerConfig

	env := util.GetEnvironmentVariables()

	if commRange, ok := util.GetEnvironmentFloat(env, "TRAVIGO_PROXIMITY_COMM_RANGE"); ok && commRange > 0 {
		config.CommRange = commRange
	}

	if endTime, ok := util.GetEnvironmentFloat(env, "TRAVIGO_PROXIMITY_END_TIME"); ok {
		config.EndTime = endTime
	}

	return config
}
