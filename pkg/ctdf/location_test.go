package ctdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationDistance(t *testing.T) {
	origin := NewLocation(0, 0)

	assert.Equal(t, 5.0, origin.Distance(NewLocation(3, 4)))
	assert.Equal(t, 0.0, origin.Distance(origin))

	other := NewLocation(-3, -4)
	assert.Equal(t, origin.Distance(other), other.Distance(origin))
}

func TestLocationValid(t *testing.T) {
	valid := NewLocation(1, 2)
	assert.True(t, valid.Valid())
	assert.Equal(t, 1.0, valid.X())
	assert.Equal(t, 2.0, valid.Y())

	short := Location{Coordinates: []float64{1}}
	assert.False(t, short.Valid())

	notANumber := NewLocation(math.NaN(), 0)
	assert.False(t, notANumber.Valid())

	infinite := NewLocation(0, math.Inf(1))
	assert.False(t, infinite.Valid())
}

func TestVehicleLocationEventHasLocation(t *testing.T) {
	event := &VehicleLocationEvent{VehicleRef: "car1"}
	assert.False(t, event.HasLocation())

	location := NewLocation(10, 10)
	event.VehicleLocation = &location
	assert.True(t, event.HasLocation())
}
