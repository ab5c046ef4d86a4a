package model

import "github.com/google/uuid"

type VehicleClass string

// Fare multipliers per class (standard 1.0, eco 0.9, luxury 1.5, accessible 1.0)
// are reference values only; the fare schedule stores flat prices.
const (
	VehicleClassStandard   VehicleClass = "STANDARD"
	VehicleClassEco        VehicleClass = "ECO"
	VehicleClassLuxury     VehicleClass = "LUXURY"
	VehicleClassAccessible VehicleClass = "ACCESSIBLE"
)

const (
	MinVehicleCapacity = 3
	MaxVehicleCapacity = 9
)

// Vehicle is owned one-to-one by a driver.
type Vehicle struct {
	ID       uuid.UUID
	DriverID uuid.UUID
	Capacity int
	Plate    string
	Class    VehicleClass
}
