package model

import (
	"time"

	"github.com/google/uuid"
)

// CarpoolFilter configures the open-carpool listing. Listed carpools are
// always restricted to WAITING status, ordered by (date, time) ascending.
type CarpoolFilter struct {
	Date           time.Time
	Time           *string
	FareEntryID    *uuid.UUID
	MinAlreadyIn   int
	RequireDriver  bool
	RequireVacancy bool
}

type CarpoolChangeKind string

const (
	ChangeAddPassenger    CarpoolChangeKind = "ADD_PASSENGER"
	ChangeRemovePassenger CarpoolChangeKind = "REMOVE_PASSENGER"
	ChangeDissolve        CarpoolChangeKind = "DISSOLVE"
	ChangeAssignDriver    CarpoolChangeKind = "ASSIGN_DRIVER"
	ChangeSetStatus       CarpoolChangeKind = "SET_STATUS"
)

// CarpoolChange is the mutation an eligibility decision produces. The storage
// layer applies it inside the same critical section that produced the
// snapshot the decision was made on.
type CarpoolChange struct {
	Kind        CarpoolChangeKind
	PassengerID uuid.UUID
	DriverID    uuid.UUID
	Status      CarpoolStatus
}
