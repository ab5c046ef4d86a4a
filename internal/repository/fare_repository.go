package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linchh/campus-carpool/internal/model"
)

type FareRepository struct {
	db *gorm.DB
}

func NewFareRepository(db *gorm.DB) *FareRepository {
	return &FareRepository{db: db}
}

const fareSelect = `
	SELECT
		f.id,
		f.departure_id,
		f.arrival_id,
		dep.name AS departure,
		arr.name AS arrival,
		f.fare
	FROM fare_entries f
	JOIN places dep ON dep.id = f.departure_id
	JOIN places arr ON arr.id = f.arrival_id
`

func (r *FareRepository) ListPlaces(ctx context.Context) ([]model.Place, error) {
	var places []model.Place
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name FROM places ORDER BY name ASC
	`).Scan(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

func (r *FareRepository) ListFareEntries(ctx context.Context) ([]model.FareEntry, error) {
	var entries []model.FareEntry
	if err := r.db.WithContext(ctx).Raw(fareSelect + `
		ORDER BY dep.name ASC, arr.name ASC
	`).Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *FareRepository) GetFareEntry(ctx context.Context, id uuid.UUID) (*model.FareEntry, error) {
	var entry model.FareEntry
	if err := r.db.WithContext(ctx).Raw(fareSelect+" WHERE f.id = ? LIMIT 1", id).Scan(&entry).Error; err != nil {
		return nil, err
	}
	if entry.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &entry, nil
}
