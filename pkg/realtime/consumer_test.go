package realtime

import (
	"testing"

	"github.com/adjust/rmq/v5"
	"github.com/stretchr/testify/assert"
	"github.com/travigo/busproximity/pkg/export"
)

func TestSessionConsumer(t *testing.T) {
	assert := assert.New(t)

	var consumed []export.SessionEvent
	consumer := NewSessionConsumer(0, func(event export.SessionEvent) {
		consumed = append(consumed, event)
	})

	closed := rmq.NewTestDeliveryString(`{"Scenario":"corridor","VehicleRef":"car1","BusRef":"bus1","EnterTime":1.5,"ExitTime":3,"StayTime":1.5}`)
	open := rmq.NewTestDeliveryString(`{"VehicleRef":"car2","BusRef":"bus1","EnterTime":2}`)
	broken := rmq.NewTestDeliveryString(`not json`)

	consumer.Consume(rmq.Deliveries{closed, broken, open})

	assert.Equal(rmq.Acked, closed.State)
	assert.Equal(rmq.Acked, open.State)
	assert.Equal(rmq.Rejected, broken.State)

	assert.Len(consumed, 2)
	assert.Equal("corridor", consumed[0].Scenario)
	assert.Equal("car1", consumed[0].VehicleRef)
	assert.Equal(3.0, *consumed[0].ExitTime)
	assert.Equal(1.5, *consumed[0].StayTime)

	assert.Equal("car2", consumed[1].VehicleRef)
	assert.Nil(consumed[1].ExitTime)
	assert.Nil(consumed[1].StayTime)
}

func TestSessionTally(t *testing.T) {
	exit := 4.0
	stay := 1.0

	tally := newSessionTally()
	tally.add(export.SessionEvent{Scenario: "a", EnterTime: 3, ExitTime: &exit, StayTime: &stay})
	tally.add(export.SessionEvent{Scenario: "a", EnterTime: 5})
	tally.add(export.SessionEvent{Scenario: "b", EnterTime: 1})

	assert.Equal(t, 1, tally.closed["a"])
	assert.Equal(t, 1, tally.open["a"])
	assert.Equal(t, 1, tally.open["b"])
	assert.Equal(t, 0, tally.closed["b"])

	tally.log()
}
