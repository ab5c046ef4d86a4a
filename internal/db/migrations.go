package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN
			CREATE TYPE user_role AS ENUM ('STUDENT', 'DRIVER', 'NONE');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'carpool_status') THEN
			CREATE TYPE carpool_status AS ENUM ('WAITING', 'DRIVING', 'ARRIVED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'vehicle_class') THEN
			CREATE TYPE vehicle_class AS ENUM ('STANDARD', 'ECO', 'LUXURY', 'ACCESSIBLE');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		username VARCHAR(64) NOT NULL,
		password_hash VARCHAR(128) NOT NULL,
		role user_role NOT NULL DEFAULT 'NONE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_username ON users (username);`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(32) NOT NULL,
		sex VARCHAR(10) NOT NULL DEFAULT 'MALE',
		phone VARCHAR(10) NOT NULL,
		company VARCHAR(64),
		cert_code VARCHAR(7),
		cert_expiry DATE
	);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		driver_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		capacity INT NOT NULL CHECK (capacity BETWEEN 3 AND 9),
		plate VARCHAR(8) NOT NULL,
		class vehicle_class NOT NULL DEFAULT 'STANDARD'
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_vehicles_driver ON vehicles (driver_id);`,
	`CREATE TABLE IF NOT EXISTS places (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(50) NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_places_name ON places (name);`,
	`CREATE TABLE IF NOT EXISTS fare_entries (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		departure_id UUID NOT NULL REFERENCES places(id),
		arrival_id UUID NOT NULL REFERENCES places(id),
		fare INT NOT NULL CHECK (fare > 0)
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_fare_entries_route ON fare_entries (departure_id, arrival_id);`,
	`CREATE TABLE IF NOT EXISTS carpools (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		trip_date DATE NOT NULL,
		trip_time VARCHAR(5) NOT NULL,
		fare_entry_id UUID NOT NULL REFERENCES fare_entries(id),
		lower_passengers INT NOT NULL CHECK (lower_passengers BETWEEN 1 AND 5),
		status carpool_status NOT NULL DEFAULT 'WAITING',
		driver_id UUID REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_carpools_date_status ON carpools (trip_date, status);`,
	`CREATE INDEX IF NOT EXISTS idx_carpools_driver_id ON carpools (driver_id) WHERE driver_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS carpool_passengers (
		carpool_id UUID NOT NULL REFERENCES carpools(id) ON DELETE CASCADE,
		student_id UUID NOT NULL REFERENCES users(id),
		joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (carpool_id, student_id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_carpool_passengers_student ON carpool_passengers (student_id);`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		carpool_id UUID NOT NULL REFERENCES carpools(id),
		critic_id UUID NOT NULL REFERENCES users(id),
		ratee_id UUID NOT NULL REFERENCES users(id),
		score INT NOT NULL CHECK (score BETWEEN 1 AND 5),
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_reviews_critic_carpool ON reviews (critic_id, carpool_id);`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_ratee ON reviews (ratee_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
