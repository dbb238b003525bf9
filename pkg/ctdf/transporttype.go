package ctdf

// VehicleType splits live vehicles into the tracked fleet and everything else
type VehicleType string

const (
	VehicleTypeBus     VehicleType = "Bus"
	VehicleTypeCar     VehicleType = "Car"
	VehicleTypeUnknown VehicleType = "UNKNOWN"
)
