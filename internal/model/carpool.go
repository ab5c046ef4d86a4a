package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type CarpoolStatus string

const (
	CarpoolWaiting CarpoolStatus = "WAITING"
	CarpoolDriving CarpoolStatus = "DRIVING"
	CarpoolArrived CarpoolStatus = "ARRIVED"
)

const (
	MaxRosterSize      = 9
	MinLowerPassengers = 1
	MaxLowerPassengers = 5
)

type Passenger struct {
	ID       uuid.UUID
	Username string
	Name     string
}

// CarpoolDriver is the driver snapshot carried by a carpool, vehicle included
// since every vacancy decision needs the capacity.
type CarpoolDriver struct {
	ID       uuid.UUID
	Username string
	Name     string
	Vehicle  Vehicle
}

type Carpool struct {
	ID              uuid.UUID
	Date            time.Time // trip date, midnight UTC
	Time            string    // trip time of day, "HH:MM"
	FareEntry       FareEntry
	LowerPassengers int
	Status          CarpoolStatus
	Driver          *CarpoolDriver
	Passengers      []Passenger
	CreatedAt       time.Time
}

func (c Carpool) HasDriver() bool {
	return c.Driver != nil
}

func (c Carpool) RosterSize() int {
	return len(c.Passengers)
}

// HasVacancy reports whether another passenger fits. A driverless carpool
// always has vacancy; once a driver is assigned the vehicle capacity rules.
func (c Carpool) HasVacancy() bool {
	if c.Driver == nil {
		return true
	}
	return c.Driver.Vehicle.Capacity > c.RosterSize()
}

// AverageFare is the per-head share of the route fare, rounded half-up.
// Undefined (nil) while the roster is empty.
func (c Carpool) AverageFare() *int {
	if c.RosterSize() == 0 {
		return nil
	}
	avg := RoundHalfUp(float64(c.FareEntry.Fare) / float64(c.RosterSize()))
	return &avg
}

func (c Carpool) IsPassenger(id uuid.UUID) bool {
	for _, p := range c.Passengers {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (c Carpool) IsDrivenBy(id uuid.UUID) bool {
	return c.Driver != nil && c.Driver.ID == id
}

// NextStatus returns the following lifecycle step. Arrived is terminal.
func (c Carpool) NextStatus() (CarpoolStatus, bool) {
	switch c.Status {
	case CarpoolWaiting:
		return CarpoolDriving, true
	case CarpoolDriving:
		return CarpoolArrived, true
	default:
		return c.Status, false
	}
}

// RoundHalfUp is the single rounding policy for averaged fares and driver
// scores: nearest integer, ties away from zero.
func RoundHalfUp(value float64) int {
	return int(math.Round(value))
}
