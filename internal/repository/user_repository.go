package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linchh/campus-carpool/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRow struct {
	ID              uuid.UUID
	Username        string
	PasswordHash    string
	Role            string
	CreatedAt       time.Time
	Name            *string
	Sex             *string
	Phone           *string
	Company         *string
	CertCode        *string
	CertExpiry      *time.Time
	VehicleID       *uuid.UUID
	VehicleCapacity *int
	VehiclePlate    *string
	VehicleClass    *string
}

const userSelect = `
	SELECT
		u.id,
		u.username,
		u.password_hash,
		u.role,
		u.created_at,
		p.name,
		p.sex,
		p.phone,
		p.company,
		p.cert_code,
		p.cert_expiry,
		v.id AS vehicle_id,
		v.capacity AS vehicle_capacity,
		v.plate AS vehicle_plate,
		v.class AS vehicle_class
	FROM users u
	JOIN profiles p ON p.user_id = u.id
	LEFT JOIN vehicles v ON v.driver_id = u.id
`

func (row userRow) toPrincipal() model.Principal {
	principal := model.Principal{
		ID:        row.ID,
		Username:  row.Username,
		Role:      model.Role(row.Role),
		CreatedAt: row.CreatedAt,
	}
	if row.Name != nil {
		principal.Profile.Name = *row.Name
	}
	if row.Sex != nil {
		principal.Profile.Sex = model.Sex(*row.Sex)
	}
	if row.Phone != nil {
		principal.Profile.Phone = *row.Phone
	}
	if row.Company != nil {
		principal.Profile.Company = *row.Company
	}
	if row.CertCode != nil {
		principal.Profile.CertCode = *row.CertCode
	}
	principal.Profile.CertExpiry = row.CertExpiry
	if row.VehicleID != nil {
		vehicle := model.Vehicle{
			ID:       *row.VehicleID,
			DriverID: row.ID,
		}
		if row.VehicleCapacity != nil {
			vehicle.Capacity = *row.VehicleCapacity
		}
		if row.VehiclePlate != nil {
			vehicle.Plate = *row.VehiclePlate
		}
		if row.VehicleClass != nil {
			vehicle.Class = model.VehicleClass(*row.VehicleClass)
		}
		principal.Vehicle = &vehicle
	}
	return principal
}

// Create inserts the user, its profile and, for drivers, the vehicle in one
// transaction. A principal never exists without its profile.
func (r *UserRepository) Create(ctx context.Context, principal *model.Principal, passwordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inserted struct{ ID uuid.UUID }
		err := tx.Raw(`
			INSERT INTO users (username, password_hash, role)
			VALUES (?, ?, ?)
			RETURNING id
		`, principal.Username, passwordHash, principal.Role).Scan(&inserted).Error
		if err != nil {
			return err
		}
		principal.ID = inserted.ID

		profile := principal.Profile
		if err := tx.Exec(`
			INSERT INTO profiles (user_id, name, sex, phone, company, cert_code, cert_expiry)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, inserted.ID, profile.Name, profile.Sex, profile.Phone,
			profile.Company, profile.CertCode, profile.CertExpiry).Error; err != nil {
			return err
		}

		if principal.Vehicle != nil {
			vehicle := principal.Vehicle
			var insertedVehicle struct{ ID uuid.UUID }
			err := tx.Raw(`
				INSERT INTO vehicles (driver_id, capacity, plate, class)
				VALUES (?, ?, ?, ?)
				RETURNING id
			`, inserted.ID, vehicle.Capacity, vehicle.Plate, vehicle.Class).Scan(&insertedVehicle).Error
			if err != nil {
				return err
			}
			vehicle.ID = insertedVehicle.ID
			vehicle.DriverID = inserted.ID
		}
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Principal, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Raw(userSelect+" WHERE u.id = ? LIMIT 1", id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	principal := row.toPrincipal()
	return &principal, nil
}

// GetByUsername returns the principal together with its password hash for
// credential checks at login.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.Principal, string, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Raw(userSelect+" WHERE u.username = ? LIMIT 1", username).Scan(&row).Error; err != nil {
		return nil, "", err
	}
	if row.ID == uuid.Nil {
		return nil, "", gorm.ErrRecordNotFound
	}
	principal := row.toPrincipal()
	return &principal, row.PasswordHash, nil
}

func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM users WHERE username = ?
	`, username).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile rewrites the profile and, when given, the vehicle.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, profile model.Profile, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`
			UPDATE profiles
			SET name = ?, sex = ?, phone = ?, company = ?, cert_code = ?, cert_expiry = ?
			WHERE user_id = ?
		`, profile.Name, profile.Sex, profile.Phone,
			profile.Company, profile.CertCode, profile.CertExpiry, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if vehicle != nil {
			if err := tx.Exec(`
				UPDATE vehicles
				SET capacity = ?, plate = ?, class = ?
				WHERE driver_id = ?
			`, vehicle.Capacity, vehicle.Plate, vehicle.Class, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListDrivers returns the driver directory with aggregate review scores.
func (r *UserRepository) ListDrivers(ctx context.Context) ([]model.DriverSummary, error) {
	var rows []struct {
		ID              uuid.UUID
		Username        string
		Name            string
		Company         *string
		VehicleID       *uuid.UUID
		VehicleCapacity *int
		VehiclePlate    *string
		VehicleClass    *string
		AvgScore        *float64
		ReviewCount     int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			u.id,
			u.username,
			p.name,
			p.company,
			v.id AS vehicle_id,
			v.capacity AS vehicle_capacity,
			v.plate AS vehicle_plate,
			v.class AS vehicle_class,
			AVG(rv.score) AS avg_score,
			COUNT(rv.id) AS review_count
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		LEFT JOIN vehicles v ON v.driver_id = u.id
		LEFT JOIN reviews rv ON rv.ratee_id = u.id
		WHERE u.role = 'DRIVER'
		GROUP BY u.id, u.username, p.name, p.company, v.id, v.capacity, v.plate, v.class
		ORDER BY p.name ASC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	drivers := make([]model.DriverSummary, 0, len(rows))
	for _, row := range rows {
		summary := model.DriverSummary{
			ID:          row.ID,
			Username:    row.Username,
			Name:        row.Name,
			ReviewCount: row.ReviewCount,
		}
		if row.Company != nil {
			summary.Company = *row.Company
		}
		if row.VehicleID != nil {
			summary.Vehicle = model.Vehicle{ID: *row.VehicleID, DriverID: row.ID}
			if row.VehicleCapacity != nil {
				summary.Vehicle.Capacity = *row.VehicleCapacity
			}
			if row.VehiclePlate != nil {
				summary.Vehicle.Plate = *row.VehiclePlate
			}
			if row.VehicleClass != nil {
				summary.Vehicle.Class = model.VehicleClass(*row.VehicleClass)
			}
		}
		if row.AvgScore != nil {
			score := model.RoundHalfUp(*row.AvgScore)
			summary.Score = &score
		}
		drivers = append(drivers, summary)
	}
	return drivers, nil
}
