package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/linchh/campus-carpool/internal/auth"
	"github.com/linchh/campus-carpool/internal/model"
)

var (
	phonePattern = regexp.MustCompile(`^09\d{8}$`)
	platePattern = regexp.MustCompile(`^[A-Z]{3}-\d{4}$`)
	certPattern  = regexp.MustCompile(`^[A-Za-z]+\d+$`)
)

const certCodeLength = 7

type AccountService struct {
	users  UserStore
	tokens *auth.Manager
}

func NewAccountService(users UserStore, tokens *auth.Manager) *AccountService {
	return &AccountService{users: users, tokens: tokens}
}

type VehicleInput struct {
	Capacity int
	Plate    string
	Class    string
}

type RegisterInput struct {
	Role       string
	Username   string
	Password   string
	Name       string
	Sex        string
	Phone      string
	Company    string
	CertCode   string
	CertExpiry *time.Time
	Vehicle    *VehicleInput
}

// Register creates a principal with its profile, and the vehicle for
// drivers, atomically. One parameterized operation for both sign-up flows.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*model.Principal, error) {
	role, err := parseRole(input.Role)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	profile, err := buildProfile(role, input.Name, input.Sex, input.Phone, input.Company, input.CertCode, input.CertExpiry)
	if err != nil {
		return nil, err
	}

	var vehicle *model.Vehicle
	if role == model.RoleDriver {
		if input.Vehicle == nil {
			return nil, fmt.Errorf("%w: vehicle is required for drivers", ErrInvalidInput)
		}
		vehicle, err = buildVehicle(*input.Vehicle)
		if err != nil {
			return nil, err
		}
	} else if input.Vehicle != nil {
		return nil, fmt.Errorf("%w: only drivers register a vehicle", ErrInvalidInput)
	}

	taken, err := s.users.UsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username is already taken", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	principal := &model.Principal{
		Username: username,
		Role:     role,
		Profile:  profile,
		Vehicle:  vehicle,
	}
	if err := s.users.Create(ctx, principal, string(hash)); err != nil {
		return nil, err
	}
	return principal, nil
}

// Login checks credentials and issues an access token.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, *model.Principal, error) {
	principal, hash, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(*principal)
	if err != nil {
		return "", nil, err
	}
	return token, principal, nil
}

func (s *AccountService) Profile(ctx context.Context, principal model.Principal) (*model.Principal, error) {
	full, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return full, nil
}

type ProfileUpdateInput struct {
	Name       string
	Sex        string
	Phone      string
	Company    string
	CertCode   string
	CertExpiry *time.Time
	Vehicle    *VehicleInput
}

func (s *AccountService) UpdateProfile(ctx context.Context, principal model.Principal, input ProfileUpdateInput) (*model.Principal, error) {
	profile, err := buildProfile(principal.Role, input.Name, input.Sex, input.Phone, input.Company, input.CertCode, input.CertExpiry)
	if err != nil {
		return nil, err
	}

	var vehicle *model.Vehicle
	if input.Vehicle != nil {
		if !principal.IsDriver() {
			return nil, fmt.Errorf("%w: only drivers have a vehicle", ErrInvalidInput)
		}
		vehicle, err = buildVehicle(*input.Vehicle)
		if err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateProfile(ctx, principal.ID, profile, vehicle); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.users.GetByID(ctx, principal.ID)
}

func parseRole(raw string) (model.Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "student":
		return model.RoleStudent, nil
	case "driver":
		return model.RoleDriver, nil
	default:
		return "", fmt.Errorf("%w: role must be student or driver", ErrInvalidInput)
	}
}

func parseSex(raw string) (model.Sex, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", string(model.SexMale):
		return model.SexMale, nil
	case string(model.SexFemale):
		return model.SexFemale, nil
	default:
		return "", fmt.Errorf("%w: sex must be MALE or FEMALE", ErrInvalidInput)
	}
}

func parseVehicleClass(raw string) (model.VehicleClass, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "standard":
		return model.VehicleClassStandard, nil
	case "eco":
		return model.VehicleClassEco, nil
	case "luxury":
		return model.VehicleClassLuxury, nil
	case "accessible":
		return model.VehicleClassAccessible, nil
	default:
		return "", fmt.Errorf("%w: unknown vehicle class", ErrInvalidInput)
	}
}

func buildProfile(role model.Role, name, sex, phone, company, certCode string, certExpiry *time.Time) (model.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Profile{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	parsedSex, err := parseSex(sex)
	if err != nil {
		return model.Profile{}, err
	}
	if !phonePattern.MatchString(phone) {
		return model.Profile{}, fmt.Errorf("%w: phone must match 09xxxxxxxx", ErrInvalidInput)
	}

	profile := model.Profile{Name: name, Sex: parsedSex, Phone: phone}
	if role == model.RoleDriver {
		certCode = strings.TrimSpace(certCode)
		if len(certCode) != certCodeLength || !certPattern.MatchString(certCode) {
			return model.Profile{}, fmt.Errorf("%w: certificate code must be 7 characters, letters then digits", ErrInvalidInput)
		}
		profile.Company = strings.TrimSpace(company)
		profile.CertCode = certCode
		profile.CertExpiry = certExpiry
	} else if certCode != "" || company != "" {
		return model.Profile{}, fmt.Errorf("%w: company and certificate are driver fields", ErrInvalidInput)
	}
	return profile, nil
}

func buildVehicle(input VehicleInput) (*model.Vehicle, error) {
	if input.Capacity < model.MinVehicleCapacity || input.Capacity > model.MaxVehicleCapacity {
		return nil, fmt.Errorf("%w: capacity must be between %d and %d",
			ErrInvalidInput, model.MinVehicleCapacity, model.MaxVehicleCapacity)
	}
	if !platePattern.MatchString(input.Plate) {
		return nil, fmt.Errorf("%w: plate must match AAA-0000", ErrInvalidInput)
	}
	class, err := parseVehicleClass(input.Class)
	if err != nil {
		return nil, err
	}
	return &model.Vehicle{Capacity: input.Capacity, Plate: input.Plate, Class: class}, nil
}
