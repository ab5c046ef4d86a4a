package model

import "github.com/google/uuid"

type Place struct {
	ID   uuid.UUID
	Name string
}

// FareEntry is a flat priced route between two places. Routes are unique
// per (departure, arrival) pair.
type FareEntry struct {
	ID          uuid.UUID
	DepartureID uuid.UUID
	ArrivalID   uuid.UUID
	Departure   string
	Arrival     string
	Fare        int
}
