package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linchh/campus-carpool/internal/model"
)

type CarpoolRepository struct {
	db *gorm.DB
}

func NewCarpoolRepository(db *gorm.DB) *CarpoolRepository {
	return &CarpoolRepository{db: db}
}

const carpoolSelect = `
	SELECT
		cp.id,
		cp.trip_date,
		cp.trip_time,
		cp.lower_passengers,
		cp.status,
		cp.created_at,
		f.id AS fare_entry_id,
		f.departure_id,
		f.arrival_id,
		dep.name AS departure,
		arr.name AS arrival,
		f.fare,
		cp.driver_id,
		du.username AS driver_username,
		dp.name AS driver_name,
		v.id AS vehicle_id,
		v.capacity AS vehicle_capacity,
		v.plate AS vehicle_plate,
		v.class AS vehicle_class
	FROM carpools cp
	JOIN fare_entries f ON f.id = cp.fare_entry_id
	JOIN places dep ON dep.id = f.departure_id
	JOIN places arr ON arr.id = f.arrival_id
	LEFT JOIN users du ON du.id = cp.driver_id
	LEFT JOIN profiles dp ON dp.user_id = cp.driver_id
	LEFT JOIN vehicles v ON v.driver_id = cp.driver_id
`

type carpoolRow struct {
	ID              uuid.UUID
	TripDate        time.Time
	TripTime        string
	LowerPassengers int
	Status          string
	CreatedAt       time.Time
	FareEntryID     uuid.UUID
	DepartureID     uuid.UUID
	ArrivalID       uuid.UUID
	Departure       string
	Arrival         string
	Fare            int
	DriverID        *uuid.UUID
	DriverUsername  *string
	DriverName      *string
	VehicleID       *uuid.UUID
	VehicleCapacity *int
	VehiclePlate    *string
	VehicleClass    *string
}

func (row carpoolRow) toCarpool() model.Carpool {
	cp := model.Carpool{
		ID:              row.ID,
		Date:            row.TripDate,
		Time:            row.TripTime,
		LowerPassengers: row.LowerPassengers,
		Status:          model.CarpoolStatus(row.Status),
		CreatedAt:       row.CreatedAt,
		FareEntry: model.FareEntry{
			ID:          row.FareEntryID,
			DepartureID: row.DepartureID,
			ArrivalID:   row.ArrivalID,
			Departure:   row.Departure,
			Arrival:     row.Arrival,
			Fare:        row.Fare,
		},
	}
	if row.DriverID != nil {
		driver := model.CarpoolDriver{ID: *row.DriverID}
		if row.DriverUsername != nil {
			driver.Username = *row.DriverUsername
		}
		if row.DriverName != nil {
			driver.Name = *row.DriverName
		}
		if row.VehicleID != nil {
			driver.Vehicle = model.Vehicle{
				ID:       *row.VehicleID,
				DriverID: *row.DriverID,
			}
			if row.VehicleCapacity != nil {
				driver.Vehicle.Capacity = *row.VehicleCapacity
			}
			if row.VehiclePlate != nil {
				driver.Vehicle.Plate = *row.VehiclePlate
			}
			if row.VehicleClass != nil {
				driver.Vehicle.Class = model.VehicleClass(*row.VehicleClass)
			}
		}
		cp.Driver = &driver
	}
	return cp
}

// buildListQuery composes the open-carpool listing from the filter options.
// Listed carpools are always WAITING, ordered by (date, time).
func buildListQuery(filter model.CarpoolFilter) (string, []interface{}) {
	query := carpoolSelect + `
		WHERE cp.status = 'WAITING'
			AND cp.trip_date = ?
			AND (SELECT COUNT(*) FROM carpool_passengers pp WHERE pp.carpool_id = cp.id) >= ?
	`
	args := []interface{}{filter.Date, filter.MinAlreadyIn}

	if filter.RequireDriver {
		query += " AND cp.driver_id IS NOT NULL"
		if filter.RequireVacancy {
			query += " AND (SELECT COUNT(*) FROM carpool_passengers pp WHERE pp.carpool_id = cp.id) < v.capacity"
		}
	}
	if filter.Time != nil {
		query += " AND cp.trip_time >= ?"
		args = append(args, *filter.Time)
	}
	if filter.FareEntryID != nil {
		query += " AND cp.fare_entry_id = ?"
		args = append(args, *filter.FareEntryID)
	}

	query += " ORDER BY cp.trip_date ASC, cp.trip_time ASC"
	return query, args
}

func (r *CarpoolRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Carpool, error) {
	return r.getCarpool(r.db.WithContext(ctx), id)
}

func (r *CarpoolRepository) getCarpool(tx *gorm.DB, id uuid.UUID) (*model.Carpool, error) {
	var row carpoolRow
	if err := tx.Raw(carpoolSelect+" WHERE cp.id = ? LIMIT 1", id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := row.toCarpool()
	passengers, err := listPassengers(tx, id)
	if err != nil {
		return nil, err
	}
	cp.Passengers = passengers
	return &cp, nil
}

func listPassengers(tx *gorm.DB, carpoolID uuid.UUID) ([]model.Passenger, error) {
	var passengers []model.Passenger
	err := tx.Raw(`
		SELECT u.id, u.username, p.name
		FROM carpool_passengers pp
		JOIN users u ON u.id = pp.student_id
		JOIN profiles p ON p.user_id = u.id
		WHERE pp.carpool_id = ?
		ORDER BY pp.joined_at ASC
	`, carpoolID).Scan(&passengers).Error
	if err != nil {
		return nil, err
	}
	return passengers, nil
}

func (r *CarpoolRepository) List(ctx context.Context, filter model.CarpoolFilter) ([]model.Carpool, error) {
	query, args := buildListQuery(filter)
	return r.listByQuery(ctx, query, args...)
}

// ListDefault is the fallback listing: future WAITING carpools with at least
// one passenger aboard, ordered by date.
func (r *CarpoolRepository) ListDefault(ctx context.Context) ([]model.Carpool, error) {
	query := carpoolSelect + `
		WHERE cp.status = 'WAITING'
			AND cp.trip_date >= CURRENT_DATE
			AND (SELECT COUNT(*) FROM carpool_passengers pp WHERE pp.carpool_id = cp.id) > 0
		ORDER BY cp.trip_date ASC, cp.trip_time ASC
	`
	return r.listByQuery(ctx, query)
}

func (r *CarpoolRepository) listByQuery(ctx context.Context, query string, args ...interface{}) ([]model.Carpool, error) {
	var rows []carpoolRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	carpools := make([]model.Carpool, 0, len(rows))
	for _, row := range rows {
		cp := row.toCarpool()
		passengers, err := listPassengers(r.db.WithContext(ctx), cp.ID)
		if err != nil {
			return nil, err
		}
		cp.Passengers = passengers
		carpools = append(carpools, cp)
	}
	return carpools, nil
}

// CurrentForStudent returns the earliest upcoming WAITING carpool the student
// rides in, or nil when there is none.
func (r *CarpoolRepository) CurrentForStudent(ctx context.Context, studentID uuid.UUID) (*model.Carpool, error) {
	return r.currentByQuery(ctx, carpoolSelect+`
		WHERE cp.status = 'WAITING'
			AND cp.trip_date >= CURRENT_DATE
			AND EXISTS (
				SELECT 1 FROM carpool_passengers pp
				WHERE pp.carpool_id = cp.id AND pp.student_id = ?
			)
		ORDER BY cp.trip_date ASC, cp.trip_time ASC
		LIMIT 1
	`, studentID)
}

// CurrentForDriver returns the most recent WAITING carpool assigned to the
// driver, or nil when there is none.
func (r *CarpoolRepository) CurrentForDriver(ctx context.Context, driverID uuid.UUID) (*model.Carpool, error) {
	return r.currentByQuery(ctx, carpoolSelect+`
		WHERE cp.status = 'WAITING' AND cp.driver_id = ?
		ORDER BY cp.trip_date DESC, cp.trip_time DESC
		LIMIT 1
	`, driverID)
}

func (r *CarpoolRepository) currentByQuery(ctx context.Context, query string, args ...interface{}) (*model.Carpool, error) {
	var row carpoolRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	cp := row.toCarpool()
	passengers, err := listPassengers(r.db.WithContext(ctx), cp.ID)
	if err != nil {
		return nil, err
	}
	cp.Passengers = passengers
	return &cp, nil
}

// Create inserts a carpool and seats the creator in the same transaction.
func (r *CarpoolRepository) Create(ctx context.Context, cp model.Carpool, creatorID uuid.UUID) (*model.Carpool, error) {
	var created *model.Carpool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inserted struct{ ID uuid.UUID }
		err := tx.Raw(`
			INSERT INTO carpools (trip_date, trip_time, fare_entry_id, lower_passengers, status)
			VALUES (?, ?, ?, ?, 'WAITING')
			RETURNING id
		`, cp.Date, cp.Time, cp.FareEntry.ID, cp.LowerPassengers).Scan(&inserted).Error
		if err != nil {
			return err
		}

		if err := tx.Exec(`
			INSERT INTO carpool_passengers (carpool_id, student_id)
			VALUES (?, ?)
		`, inserted.ID, creatorID).Error; err != nil {
			return err
		}

		created, err = r.getCarpool(tx, inserted.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update runs apply against a snapshot taken under a row lock and applies the
// mutation it produces before the lock is released. Concurrent writers to the
// same carpool serialize here, so capacity and roster invariants hold even
// when the last seat is contested. A nil carpool return means the carpool was
// dissolved.
func (r *CarpoolRepository) Update(
	ctx context.Context,
	id uuid.UUID,
	apply func(cp *model.Carpool) (model.CarpoolChange, error),
) (*model.Carpool, error) {
	var updated *model.Carpool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked struct{ ID uuid.UUID }
		if err := tx.Raw(`SELECT id FROM carpools WHERE id = ? FOR UPDATE`, id).Scan(&locked).Error; err != nil {
			return err
		}
		if locked.ID == uuid.Nil {
			return gorm.ErrRecordNotFound
		}

		cp, err := r.getCarpool(tx, id)
		if err != nil {
			return err
		}

		change, err := apply(cp)
		if err != nil {
			return err
		}

		switch change.Kind {
		case model.ChangeAddPassenger:
			err = tx.Exec(`
				INSERT INTO carpool_passengers (carpool_id, student_id)
				VALUES (?, ?)
			`, id, change.PassengerID).Error
		case model.ChangeRemovePassenger:
			err = tx.Exec(`
				DELETE FROM carpool_passengers
				WHERE carpool_id = ? AND student_id = ?
			`, id, change.PassengerID).Error
		case model.ChangeDissolve:
			if err := tx.Exec(`DELETE FROM carpools WHERE id = ?`, id).Error; err != nil {
				return err
			}
			updated = nil
			return nil
		case model.ChangeAssignDriver:
			err = tx.Exec(`UPDATE carpools SET driver_id = ? WHERE id = ?`, change.DriverID, id).Error
		case model.ChangeSetStatus:
			err = tx.Exec(`UPDATE carpools SET status = ? WHERE id = ?`, change.Status, id).Error
		default:
			err = fmt.Errorf("unknown carpool change kind %q", change.Kind)
		}
		if err != nil {
			return err
		}

		updated, err = r.getCarpool(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// HistoryForStudent lists the arrived carpools the student rode in.
func (r *CarpoolRepository) HistoryForStudent(ctx context.Context, studentID uuid.UUID) ([]model.Carpool, error) {
	query := carpoolSelect + `
		WHERE cp.status = 'ARRIVED'
			AND EXISTS (
				SELECT 1 FROM carpool_passengers pp
				WHERE pp.carpool_id = cp.id AND pp.student_id = ?
			)
		ORDER BY cp.trip_date DESC, cp.trip_time DESC
	`
	return r.listByQuery(ctx, query, studentID)
}

// HistoryForDriver lists every carpool the driver has served, any status.
func (r *CarpoolRepository) HistoryForDriver(ctx context.Context, driverID uuid.UUID) ([]model.Carpool, error) {
	query := carpoolSelect + `
		WHERE cp.driver_id = ?
		ORDER BY cp.trip_date DESC, cp.trip_time DESC
	`
	return r.listByQuery(ctx, query, driverID)
}
