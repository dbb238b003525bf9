package scenario

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	iso8601 "github.com/senseyeio/duration"
)

// Scenario describes one recorded simulation run to replay through a tracker
type Scenario struct {
	Identifier string     `yaml:"identifier" validate:"required"`
	Feed       FeedSource `yaml:"feed"`

	CommRange  float64 `yaml:"commrange" validate:"gt=0"`
	Duration   string  `yaml:"duration"` // ISO 8601, eg. PT300S
	EndTime    float64 `yaml:"endtime" validate:"gte=0"`
	Classifier string  `yaml:"classifier"`

	Output    string `yaml:"output"`
	Publish   bool   `yaml:"publish"`
	QueueName string `yaml:"queue"`
}

type FeedSource struct {
	Format string `yaml:"format" validate:"omitempty,oneof=trace gtfs-realtime"`
	Source string `yaml:"source" validate:"required"`
}

var validate = validator.New()

func (s *Scenario) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Identifier, err)
	}

	if _, err := s.RunEndTime(); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Identifier, err)
	}

	return nil
}

// RunEndTime is the last simulation time to process, in seconds. The ISO 8601
// duration wins over a plain end time; zero means the run lasts until the feed ends.
func (s *Scenario) RunEndTime() (float64, error) {
	if s.Duration == "" {
		return s.EndTime, nil
	}

	duration, err := iso8601.ParseISO8601(s.Duration)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s.Duration, err)
	}

	start := time.Unix(0, 0).UTC()

	return duration.Shift(start).Sub(start).Seconds(), nil
}
