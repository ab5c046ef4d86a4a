package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/linchh/campus-carpool/internal/model"
)

// Storage capabilities the services consume. The gorm repositories satisfy
// these; tests swap in in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, principal *model.Principal, passwordHash string) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Principal, error)
	GetByUsername(ctx context.Context, username string) (*model.Principal, string, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profile model.Profile, vehicle *model.Vehicle) error
	ListDrivers(ctx context.Context) ([]model.DriverSummary, error)
}

type CarpoolStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Carpool, error)
	List(ctx context.Context, filter model.CarpoolFilter) ([]model.Carpool, error)
	ListDefault(ctx context.Context) ([]model.Carpool, error)
	CurrentForStudent(ctx context.Context, studentID uuid.UUID) (*model.Carpool, error)
	CurrentForDriver(ctx context.Context, driverID uuid.UUID) (*model.Carpool, error)
	Create(ctx context.Context, cp model.Carpool, creatorID uuid.UUID) (*model.Carpool, error)
	Update(ctx context.Context, id uuid.UUID, apply func(cp *model.Carpool) (model.CarpoolChange, error)) (*model.Carpool, error)
	HistoryForStudent(ctx context.Context, studentID uuid.UUID) ([]model.Carpool, error)
	HistoryForDriver(ctx context.Context, driverID uuid.UUID) ([]model.Carpool, error)
}

type FareStore interface {
	ListPlaces(ctx context.Context) ([]model.Place, error)
	ListFareEntries(ctx context.Context) ([]model.FareEntry, error)
	GetFareEntry(ctx context.Context, id uuid.UUID) (*model.FareEntry, error)
}

type ReviewStore interface {
	Create(ctx context.Context, review model.Review) (*model.Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	Update(ctx context.Context, id uuid.UUID, score int, content string) (*model.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListForDriver(ctx context.Context, driverID uuid.UUID) ([]model.Review, error)
	Exists(ctx context.Context, criticID, carpoolID uuid.UUID) (bool, error)
	DriverScore(ctx context.Context, driverID uuid.UUID) (*int, error)
}
