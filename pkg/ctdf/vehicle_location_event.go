package ctdf

type VehicleLocationEvent struct {
	VehicleRef  string
	VehicleType VehicleType

	IdentifyingInformation map[string]string

	DataSource *DataSource

	// Seconds since the start of the simulation run
	SimulationTime float64

	// Nil when the source had no position for the vehicle in this tick
	VehicleLocation *Location
}

func (e *VehicleLocationEvent) HasLocation() bool {
	return e.VehicleLocation != nil && e.VehicleLocation.Valid()
}
