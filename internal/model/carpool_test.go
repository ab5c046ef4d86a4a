package model

import (
	"testing"

	"github.com/google/uuid"
)

func TestHasVacancy(t *testing.T) {
	cp := Carpool{
		Passengers: []Passenger{{ID: uuid.New()}, {ID: uuid.New()}},
	}
	if !cp.HasVacancy() {
		t.Fatal("driverless carpool must always report vacancy")
	}

	cp.Driver = &CarpoolDriver{ID: uuid.New(), Vehicle: Vehicle{Capacity: 3}}
	if !cp.HasVacancy() {
		t.Fatal("capacity 3 with 2 passengers must have vacancy")
	}

	cp.Driver.Vehicle.Capacity = 2
	if cp.HasVacancy() {
		t.Fatal("capacity 2 with 2 passengers must not have vacancy")
	}
}

func TestAverageFare(t *testing.T) {
	cp := Carpool{FareEntry: FareEntry{Fare: 100}}
	if got := cp.AverageFare(); got != nil {
		t.Fatalf("empty roster average fare = %d, want nil", *got)
	}

	tests := []struct {
		passengers int
		want       int
	}{
		{1, 100},
		{2, 50},
		{3, 33},
		{6, 17}, // 16.67 rounds up
	}
	for _, tt := range tests {
		cp.Passengers = cp.Passengers[:0]
		for i := 0; i < tt.passengers; i++ {
			cp.Passengers = append(cp.Passengers, Passenger{ID: uuid.New()})
		}
		got := cp.AverageFare()
		if got == nil || *got != tt.want {
			t.Fatalf("AverageFare with %d passengers = %v, want %d", tt.passengers, got, tt.want)
		}
	}
}

func TestNextStatus(t *testing.T) {
	cp := Carpool{Status: CarpoolWaiting}
	if next, ok := cp.NextStatus(); !ok || next != CarpoolDriving {
		t.Fatalf("WAITING -> (%v, %v)", next, ok)
	}
	cp.Status = CarpoolDriving
	if next, ok := cp.NextStatus(); !ok || next != CarpoolArrived {
		t.Fatalf("DRIVING -> (%v, %v)", next, ok)
	}
	cp.Status = CarpoolArrived
	if _, ok := cp.NextStatus(); ok {
		t.Fatal("ARRIVED must be terminal")
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{3.0, 3},
		{2.5, 3},
		{3.49, 3},
		{4.5, 5},
	}
	for _, tt := range tests {
		if got := RoundHalfUp(tt.in); got != tt.want {
			t.Fatalf("RoundHalfUp(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
