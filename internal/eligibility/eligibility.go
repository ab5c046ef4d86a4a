// Package eligibility holds the pure rule-set deciding which actions a
// principal may take on a carpool. Functions here never touch storage; the
// caller evaluates them against a snapshot and applies the resulting
// mutation itself, inside the same critical section.
package eligibility

import (
	"errors"

	"github.com/linchh/campus-carpool/internal/model"
)

var (
	ErrAlreadyHasDriver = errors.New("carpool already has a driver")
	ErrDriverBusy       = errors.New("driver already serves an active carpool")
	ErrVehicleTooSmall  = errors.New("vehicle cannot fit the current passengers")
	ErrAlreadyJoined    = errors.New("already joined this carpool")
	ErrFull             = errors.New("carpool is full")
	ErrNotDriver        = errors.New("only the assigned driver may advance the status")
	ErrAlreadyArrived   = errors.New("carpool has already arrived")
	ErrNotArrived       = errors.New("carpool has not arrived yet")
	ErrNotParticipant   = errors.New("not a passenger of this carpool")
	ErrAlreadyReviewed  = errors.New("this carpool was already reviewed")
)

// CanJoinAsDriver decides whether a driver may take over a carpool.
// hasActiveCarpool is true when the driver already serves another WAITING
// carpool; at most one active carpool per driver.
func CanJoinAsDriver(driver model.Principal, vehicle model.Vehicle, cp model.Carpool, hasActiveCarpool bool) error {
	if cp.HasDriver() {
		return ErrAlreadyHasDriver
	}
	if hasActiveCarpool {
		return ErrDriverBusy
	}
	if vehicle.Capacity <= cp.RosterSize() {
		return ErrVehicleTooSmall
	}
	return nil
}

// CanJoinAsPassenger decides whether a student may board. maxRoster caps the
// passenger count while the carpool has no driver and therefore no vehicle
// capacity yet. Joining twice is rejected explicitly, never treated as a no-op.
func CanJoinAsPassenger(student model.Principal, cp model.Carpool, maxRoster int) error {
	if cp.IsPassenger(student.ID) {
		return ErrAlreadyJoined
	}
	if cp.RosterSize() >= maxRoster {
		return ErrFull
	}
	if cp.HasDriver() && cp.RosterSize() >= cp.Driver.Vehicle.Capacity {
		return ErrFull
	}
	return nil
}

// CanLeave decides whether a passenger may leave. When the leaving passenger
// is the sole member the carpool dissolves instead of persisting empty.
func CanLeave(student model.Principal, cp model.Carpool) (dissolve bool, err error) {
	if !cp.IsPassenger(student.ID) {
		return false, ErrNotParticipant
	}
	return cp.RosterSize() == 1, nil
}

// CanAdvanceStatus returns the next status if the principal is the assigned
// driver. Status only moves forward, WAITING -> DRIVING -> ARRIVED.
func CanAdvanceStatus(principal model.Principal, cp model.Carpool) (model.CarpoolStatus, error) {
	if !cp.IsDrivenBy(principal.ID) {
		return cp.Status, ErrNotDriver
	}
	next, ok := cp.NextStatus()
	if !ok {
		return cp.Status, ErrAlreadyArrived
	}
	return next, nil
}

// CanReview decides whether a critic may rate the driver of a carpool.
// Membership is tested against the current roster, so a passenger who left
// before arrival loses review eligibility.
func CanReview(critic model.Principal, cp model.Carpool, alreadyReviewed bool) error {
	if cp.Status != model.CarpoolArrived {
		return ErrNotArrived
	}
	if !cp.IsPassenger(critic.ID) {
		return ErrNotParticipant
	}
	if alreadyReviewed {
		return ErrAlreadyReviewed
	}
	return nil
}

// IsEligibilityError reports whether err is one of the business reason codes,
// as opposed to a validation or storage failure.
func IsEligibilityError(err error) bool {
	for _, known := range []error{
		ErrAlreadyHasDriver,
		ErrDriverBusy,
		ErrVehicleTooSmall,
		ErrAlreadyJoined,
		ErrFull,
		ErrNotDriver,
		ErrAlreadyArrived,
		ErrNotArrived,
		ErrNotParticipant,
		ErrAlreadyReviewed,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
