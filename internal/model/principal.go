package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleDriver     Role = "DRIVER"
	RoleUnassigned Role = "NONE"
)

type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

// Profile is created together with its Principal and never exists on its own.
// Company, CertCode and CertExpiry are only populated for drivers.
type Profile struct {
	Name       string
	Sex        Sex
	Phone      string
	Company    string
	CertCode   string
	CertExpiry *time.Time
}

type Principal struct {
	ID        uuid.UUID
	Username  string
	Role      Role
	Profile   Profile
	Vehicle   *Vehicle
	CreatedAt time.Time
}

func (p Principal) IsStudent() bool {
	return p.Role == RoleStudent
}

func (p Principal) IsDriver() bool {
	return p.Role == RoleDriver
}
