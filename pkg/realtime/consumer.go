package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/busproximity/pkg/export"
)

const numConsumers = 2
const consumerBatchSize = 200

// SessionConsumer reads published session events back off the queue
type SessionConsumer struct {
	id int

	handle func(export.SessionEvent)
}

func NewSessionConsumer(id int, handle func(export.SessionEvent)) *SessionConsumer {
	if handle == nil {
		handle = logSessionEvent
	}

	return &SessionConsumer{id: id, handle: handle}
}

func (consumer *SessionConsumer) Consume(batch rmq.Deliveries) {
	for _, delivery := range batch {
		var event export.SessionEvent
		if err := json.Unmarshal([]byte(delivery.Payload()), &event); err != nil {
			log.Error().Err(err).Int("consumer", consumer.id).Msg("Failed to decode session event")

			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject session event")
			}
			continue
		}

		consumer.handle(event)

		if err := delivery.Ack(); err != nil {
			log.Error().Err(err).Msg("Failed to ack session event")
		}
	}
}

func logSessionEvent(event export.SessionEvent) {
	logEvent := log.Info().
		Str("scenario", event.Scenario).
		Str("vehicle", event.VehicleRef).
		Str("bus", event.BusRef).
		Float64("enter", event.EnterTime)

	if event.ExitTime != nil {
		logEvent = logEvent.Float64("exit", *event.ExitTime).Float64("stay", *event.StayTime)
	}

	logEvent.Msg("Session")
}

// StartConsumers attaches batch consumers to the session queue. Events are
// handed to handle, which must be safe for concurrent use.
func StartConsumers(connection rmq.Connection, queueName string, handle func(export.SessionEvent)) (rmq.Queue, error) {
	if queueName == "" {
		queueName = export.DefaultQueueName
	}

	queue, err := connection.OpenQueue(queueName)
	if err != nil {
		return nil, err
	}
	if err := queue.StartConsuming(numConsumers*consumerBatchSize, 1*time.Second); err != nil {
		return nil, err
	}

	log.Info().Str("queue", queueName).Msg("Starting session consumers")

	for i := 0; i < numConsumers; i++ {
		if _, err := queue.AddBatchConsumer(fmt.Sprintf("%s-%d", queueName, i), consumerBatchSize, 2*time.Second, NewSessionConsumer(i, handle)); err != nil {
			return nil, err
		}
	}

	return queue, nil
}

// sessionTally counts consumed sessions per scenario
type sessionTally struct {
	sync.Mutex

	open   map[string]int
	closed map[string]int
}

func newSessionTally() *sessionTally {
	return &sessionTally{
		open:   map[string]int{},
		closed: map[string]int{},
	}
}

func (t *sessionTally) add(event export.SessionEvent) {
	t.Lock()
	defer t.Unlock()

	if event.ExitTime == nil {
		t.open[event.Scenario]++
	} else {
		t.closed[event.Scenario]++
	}
}

func (t *sessionTally) log() {
	t.Lock()
	defer t.Unlock()

	for scenario, closed := range t.closed {
		log.Info().Str("scenario", scenario).Int("closed", closed).Int("open", t.open[scenario]).Msg("Consumed sessions")
	}
	for scenario, open := range t.open {
		if _, ok := t.closed[scenario]; !ok {
			log.Info().Str("scenario", scenario).Int("closed", 0).Int("open", open).Msg("Consumed sessions")
		}
	}
}
