package proximity

import (
	"github.com/travigo/busproximity/pkg/ctdf"
)

// Snapshot is the state of the simulation at one tick
type Snapshot struct {
	Time float64

	Buses []string
	Cars  []string

	Positions map[string]ctdf.Location
}

// NewSnapshot groups the location events of one tick into a Snapshot.
// Vehicles without a usable position are left out of both live sets, which
// the tracker treats the same as the vehicle having left the simulation.
// Any vehicle that is not a bus counts as a car.
func NewSnapshot(simulationTime float64, events []*ctdf.VehicleLocationEvent) *Snapshot {
	snapshot := &Snapshot{
		Time:      simulationTime,
		Positions: map[string]ctdf.Location{},
	}

	seen := map[string]bool{}

	for _, event := range events {
		if event == nil || event.VehicleRef == "" || !event.HasLocation() {
			continue
		}

		snapshot.Positions[event.VehicleRef] = *event.VehicleLocation

		if seen[event.VehicleRef] {
			continue
		}
		seen[event.VehicleRef] = true

		if event.VehicleType == ctdf.VehicleTypeBus {
			snapshot.Buses = append(snapshot.Buses, event.VehicleRef)
		} else {
			snapshot.Cars = append(snapshot.Cars, event.VehicleRef)
		}
	}

	return snapshot
}

// live filters the bus and car lists down to vehicles that have a valid
// position this tick and returns how many listed vehicles were dropped.
// An id listed as both a bus and a car is kept as a bus only.
func (s *Snapshot) live() (buses []string, cars []string, missing int) {
	isBus := make(map[string]bool, len(s.Buses))
	for _, id := range s.Buses {
		isBus[id] = true
	}

	filter := func(ids []string, skip map[string]bool) []string {
		var present []string
		for _, id := range ids {
			if skip[id] {
				continue
			}

			location, exists := s.Positions[id]
			if !exists || !location.Valid() {
				missing++
				continue
			}

			present = append(present, id)
		}

		return present
	}

	return filter(s.Buses, nil), filter(s.Cars, isBus), missing
}
