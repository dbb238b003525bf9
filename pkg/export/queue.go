package export

import (
	"encoding/json"
	"fmt"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/busproximity/pkg/proximity"
)

const DefaultQueueName = "proximity-sessions"

const publishBatchSize = 200

// SessionEvent is the queue payload for one session record
type SessionEvent struct {
	Scenario string `json:",omitempty"`

	VehicleRef string
	BusRef     string

	EnterTime float64
	ExitTime  *float64
	StayTime  *float64
}

// QueuePublisher pushes session records onto an rmq queue for downstream consumers
type QueuePublisher struct {
	Scenario string

	queue rmq.Queue
}

func NewQueuePublisher(connection rmq.Connection, queueName string) (*QueuePublisher, error) {
	if queueName == "" {
		queueName = DefaultQueueName
	}

	queue, err := connection.OpenQueue(queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue %s: %w", queueName, err)
	}

	return &QueuePublisher{queue: queue}, nil
}

func (p *QueuePublisher) Publish(records []proximity.Record) error {
	var payloads []string

	flush := func() error {
		if len(payloads) == 0 {
			return nil
		}

		if err := p.queue.Publish(payloads...); err != nil {
			return fmt.Errorf("failed to publish session events: %w", err)
		}
		payloads = payloads[:0]

		return nil
	}

	for _, record := range records {
		eventJSON, err := json.Marshal(SessionEvent{
			Scenario:   p.Scenario,
			VehicleRef: record.CarID,
			BusRef:     record.BusID,
			EnterTime:  record.EnterTime,
			ExitTime:   record.ExitTime,
			StayTime:   record.StayTime,
		})
		if err != nil {
			return err
		}

		payloads = append(payloads, string(eventJSON))

		if len(payloads) >= publishBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	log.Info().Str("scenario", p.Scenario).Int("records", len(records)).Msg("Published session events")

	return nil
}
