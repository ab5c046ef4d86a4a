package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinReviewScore = 1
	MaxReviewScore = 5
)

// Review is a post-trip rating of a driver by one of the passengers.
// One review per (critic, carpool) pair.
type Review struct {
	ID         uuid.UUID
	CarpoolID  uuid.UUID
	CriticID   uuid.UUID
	CriticName string
	RateeID    uuid.UUID
	Score      int
	Content    string
	Time       time.Time
}

// DriverSummary is a directory row: driver identity plus the aggregate score.
// Score is nil until the first review lands.
type DriverSummary struct {
	ID          uuid.UUID
	Username    string
	Name        string
	Company     string
	Vehicle     Vehicle
	Score       *int
	ReviewCount int64
}
